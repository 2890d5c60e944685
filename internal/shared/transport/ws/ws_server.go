package ws

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"Warfront/internal/shared/security"
	"Warfront/internal/shared/transport"
	"Warfront/modules/kit/logx"
)

const (
	outQueueSize = 256
	writeWait    = 5 * time.Second
	maxReadSize  = 64 << 10
)

// WsServer 单条 websocket 连接。codec 为空时收发明文 JSON 文本帧，
// 否则收发 gzip(AES-CBC(json)) 二进制帧。
type WsServer struct {
	conn     *websocket.Conn
	router   *Router
	outChan  chan *WsMsgResp
	property map[string]any
	sync.RWMutex
	codec     *security.FrameCodec
	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger
}

func NewWsServer(wsConn *websocket.Conn, codec *security.FrameCodec, l logx.Logger) *WsServer {
	return &WsServer{
		conn:     wsConn,
		outChan:  make(chan *WsMsgResp, outQueueSize),
		property: make(map[string]any),
		codec:    codec,
		done:     make(chan struct{}),
		log:      l,
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

func (s *WsServer) Push(typ string, data any) bool {
	return s.enqueue(&WsMsgResp{Body: &RespBody{Type: typ, Code: transport.OK, Payload: data}})
}

func (s *WsServer) enqueue(msg *WsMsgResp) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.outChan <- msg:
		return true
	default:
		s.log.Warn("ws_server out queue full, frame dropped",
			zap.String("addr", s.Addr()),
			zap.String("type", msg.Body.Type),
		)
		return false
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		s.Close()
	}()
	s.conn.SetReadLimit(maxReadSize)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Info("ws_server read msg", zap.Error(err))
			}
			return
		}

		plain, err := s.open(data)
		if err != nil {
			s.log.Warn("ws_server readMsgLoop decode frame", zap.Error(err))
			continue
		}

		reqBody := ReqBody{}
		if err := json.Unmarshal(plain, &reqBody); err != nil {
			s.log.Warn("ws_server readMsgLoop unmarshal json error", zap.Error(err))
			continue
		}

		req := WsMsgReq{Body: &reqBody, Conn: s}
		// req 和 resp 的 Seq 必须一致
		resp := WsMsgResp{Body: &RespBody{Seq: reqBody.Seq, Type: reqBody.Type}}
		if reqBody.Type == HeartbeatMsg {
			h := &Heartbeat{}
			_ = mapstructure.Decode(reqBody.Payload, h)
			h.STime = time.Now().UnixMilli()
			resp.Body.Payload = h
			resp.Body.Code = transport.OK
		} else {
			s.router.Dispatch(&req, &resp)
		}
		if !resp.Silent {
			s.enqueue(&resp)
		}
	}
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case msg := <-s.outChan:
			if err := s.write(msg); err != nil {
				s.log.Info("ws_server write error", zap.Error(err))
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) open(data []byte) ([]byte, error) {
	if s.codec == nil {
		return data, nil
	}
	return s.codec.Open(data)
}

func (s *WsServer) write(msg *WsMsgResp) error {
	marshal, err := json.Marshal(msg.Body)
	if err != nil {
		s.log.Error("ws_server write marshal json error", zap.Error(err))
		return nil
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if s.codec == nil {
		return s.conn.WriteMessage(websocket.TextMessage, marshal)
	}
	frame, err := s.codec.Seal(marshal)
	if err != nil {
		s.log.Error("ws_server write encrypt error", zap.Error(err))
		return nil
	}
	// 压缩后的密文是二进制字节流，必须走 BinaryMessage，不能走 TextMessage
	return s.conn.WriteMessage(websocket.BinaryMessage, frame)
}

// handshake 加密模式下把本连接的密钥只压缩不加密地发给客户端；预共享密钥时 key 为空。
func (s *WsServer) handshake(sendKey string) error {
	body := &RespBody{Type: HandshakeMsg, Code: transport.OK, Payload: &Handshake{Key: sendKey}}
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if s.codec == nil {
		return s.conn.WriteMessage(websocket.TextMessage, data)
	}
	zipData, err := security.Zip(data)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.BinaryMessage, zipData)
}

// randomFrameKey 32 个 hex 字符，直接用作 AES-256 密钥。
func randomFrameKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
