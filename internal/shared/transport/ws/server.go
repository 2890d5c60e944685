package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"Warfront/internal/shared/security"
	"Warfront/modules/kit/logx"
)

// Authorize 升级前鉴权，返回要写入连接的属性；返回错误时以 401 拒绝。
type Authorize func(r *http.Request) (map[string]any, error)

// OnOpen 连接建立、读写循环启动之后回调。
type OnOpen func(conn *WsServer)

type Options struct {
	NeedSecret bool
	// FrameKey 非空时作为预共享密钥，不在握手中下发
	FrameKey  string
	FrameIV   string
	Authorize Authorize
	OnOpen    OnOpen
}

type Server struct {
	router   *Router
	log      logx.Logger
	opts     Options
	upgrader websocket.Upgrader
}

func NewServer(r *Router, l logx.Logger, opts Options) *Server {
	if l == nil {
		l = logx.NewZapLogger(nil)
	}
	return &Server{
		router: r,
		log:    l,
		opts:   opts,
		upgrader: websocket.Upgrader{
			// 允许所有CORS跨域请求
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	var props map[string]any
	if s.opts.Authorize != nil {
		p, err := s.opts.Authorize(req)
		if err != nil {
			s.log.Info("websocket authorize rejected", zap.Error(err))
			http.Error(resp, "unauthorized", http.StatusUnauthorized)
			return
		}
		props = p
	}

	codec, sendKey, err := s.codecFor()
	if err != nil {
		s.log.Error("websocket frame codec", zap.Error(err))
		http.Error(resp, "frame codec unavailable", http.StatusInternalServerError)
		return
	}

	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	conn := NewWsServer(wsConn, codec, s.log)
	conn.Router(s.router)
	for k, v := range props {
		conn.SetProperty(k, v)
	}
	if err := conn.handshake(sendKey); err != nil {
		s.log.Info("websocket handshake failed", zap.Error(err))
		conn.Close()
		return
	}
	conn.Run()
	s.log.Info("websocket upgrade success", zap.String("addr", conn.Addr()))
	if s.opts.OnOpen != nil {
		s.opts.OnOpen(conn)
	}
}

func (s *Server) codecFor() (*security.FrameCodec, string, error) {
	if !s.opts.NeedSecret {
		return nil, "", nil
	}
	if s.opts.FrameKey != "" {
		c, err := security.NewFrameCodec(s.opts.FrameKey, s.opts.FrameIV)
		return c, "", err
	}
	key := randomFrameKey()
	c, err := security.NewFrameCodec(key, "")
	return c, key, err
}
