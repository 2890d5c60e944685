package ws

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"Warfront/internal/match/entity"
	"Warfront/internal/match/interfaces/handler"
	"Warfront/internal/match/sim"
	"Warfront/internal/shared/security"
	"Warfront/internal/shared/transport"
	"Warfront/internal/shared/transport/ws"
	"Warfront/modules/kit/logx"
)

const (
	SnapshotMsg  = "snapshot"
	ActionPrefix = "action_"

	subscribeTimeout = 2 * time.Second
)

var ErrMissingToken = errors.New("missing seat token")

type WsHandler struct {
	arena *handler.Arena
	log   logx.Logger
}

func NewWsHandler(a *handler.Arena, l logx.Logger) *WsHandler {
	if l == nil {
		l = logx.NewZapLogger(nil)
	}
	return &WsHandler{arena: a, log: l}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	r.HandlePrefix(ActionPrefix, h.Submit)
	r.Handle(SnapshotMsg, h.Snapshot)
}

// Authorize 升级前校验座位 Token：?token= 或 Authorization: Bearer。
func (h *WsHandler) Authorize(r *http.Request) (map[string]any, error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if token == "" {
		return nil, ErrMissingToken
	}
	claims, err := security.ParseSeat(token)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		ws.ConnKeySession: entity.SessionID(claims.SessionID),
		ws.ConnKeyPlayer:  entity.PlayerID(claims.PlayerID),
	}, nil
}

// OnOpen 连接建立后订阅所在对局的快照，连接关闭时退订。
func (h *WsHandler) OnOpen(conn ws.WSConn) {
	sid, pid, ok := seat(conn)
	if !ok {
		conn.Close()
		return
	}
	key := string(pid) + "@" + conn.Addr()
	sink := func(s *entity.Snapshot) bool {
		select {
		case <-conn.Done():
			return false
		default:
		}
		conn.Push(SnapshotMsg, s)
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), subscribeTimeout)
	defer cancel()
	if err := h.arena.Sessions.Subscribe(ctx, sid, key, sink); err != nil {
		_, msg := handler.HandleError(ctx, h.log, err)
		h.log.Info("ws subscribe failed",
			zap.String("session_id", string(sid)),
			zap.String("player_id", string(pid)),
			zap.Error(err),
		)
		conn.Push(ws.ErrorMsg, msg)
		conn.Close()
		return
	}

	go func() {
		<-conn.Done()
		h.arena.Sessions.Unsubscribe(sid, key)
	}()
}

// Submit 玩家指令不回包；解码失败同样静默丢弃，只记 access 日志。
func (h *WsHandler) Submit(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	sid, pid, ok := seat(req.Conn)
	if !ok {
		h.fail(resp, transport.Unauthorized, "seat required")
		return
	}
	transport.SetSeat(ctx, string(sid), string(pid))
	resp.Silent = true

	intent, err := sim.DecodeIntent(req.Body.Type, req.Body.Payload)
	if err != nil {
		transport.SetErrorReason(ctx, sim.ReasonOf(err))
		resp.Body.Code = transport.InvalidParam
		return
	}
	h.arena.Sessions.Submit(sid, pid, intent)
	resp.Body.Code = transport.OK
}

func (h *WsHandler) Snapshot(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	sid, pid, ok := seat(req.Conn)
	if !ok {
		h.fail(resp, transport.Unauthorized, "seat required")
		return
	}
	transport.SetSeat(ctx, string(sid), string(pid))
	snap, err := h.arena.Sessions.Snapshot(ctx, sid)
	if err != nil {
		h.error(ctx, resp, err)
		return
	}
	h.ok(resp, snap)
}

func seat(conn ws.WSConn) (entity.SessionID, entity.PlayerID, bool) {
	if conn == nil {
		return "", "", false
	}
	sid, _ := conn.GetProperty(ws.ConnKeySession).(entity.SessionID)
	pid, _ := conn.GetProperty(ws.ConnKeyPlayer).(entity.PlayerID)
	return sid, pid, sid != "" && pid != ""
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	resp.Body.Code = transport.OK
	resp.Body.Payload = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Payload = msg
	}
}

func (h *WsHandler) error(ctx context.Context, resp *ws.WsMsgResp, err error) {
	code, msg := handler.HandleError(ctx, h.log, err)
	h.fail(resp, code, msg)
}
