package ws

import (
	"context"
	"strings"

	"Warfront/internal/shared/logs"
	"Warfront/internal/shared/transport"
	"Warfront/modules/kit/logx"
)

type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

type prefixRoute struct {
	prefix  string
	handler HandlerFunc
}

// Router 按帧的 type 分发：先精确匹配，再按注册顺序匹配前缀。
type Router struct {
	handlers map[string]HandlerFunc
	prefixes []prefixRoute
	log      logx.Logger
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.NewZapLogger(logs.Logger())
	}
	return &Router{
		handlers: make(map[string]HandlerFunc),
		log:      l,
	}
}

func (r *Router) Handle(typ string, h HandlerFunc) {
	r.handlers[typ] = h
}

// HandlePrefix 例如 "action_" 匹配所有玩家指令。
func (r *Router) HandlePrefix(prefix string, h HandlerFunc) {
	r.prefixes = append(r.prefixes, prefixRoute{prefix: prefix, handler: h})
}

func (r *Router) Dispatch(req *WsMsgReq, resp *WsMsgResp) {
	ctx := r.prepareDispatchContext(req, resp)
	defer r.writeAccessLog(ctx, resp)

	if !r.validateDispatchInput(req, resp) {
		return
	}

	h := r.findHandler(req.Body.Type, resp)
	if h == nil {
		return
	}
	h(ctx, req, resp)
}

func (r *Router) prepareDispatchContext(req *WsMsgReq, resp *WsMsgResp) context.Context {
	action := "WS unknown"
	if req != nil && req.Body != nil {
		action = "WS " + req.Body.Type
	}
	ctx := transport.NewContext(action)

	if resp != nil && resp.Body != nil {
		// 先置系统错误，避免 handler 漏设时出现“成功假象”。
		resp.Body.Code = transport.SystemError
		resp.Body.Payload = nil
	}
	return ctx
}

func (r *Router) validateDispatchInput(req *WsMsgReq, resp *WsMsgResp) bool {
	if req != nil && req.Body != nil && req.Body.Type != "" && resp != nil && resp.Body != nil {
		return true
	}
	setErrorResponse(resp, transport.InvalidParam, "invalid frame")
	return false
}

func (r *Router) findHandler(typ string, resp *WsMsgResp) HandlerFunc {
	if h := r.handlers[typ]; h != nil {
		return h
	}
	for _, p := range r.prefixes {
		if strings.HasPrefix(typ, p.prefix) {
			return p.handler
		}
	}
	setErrorResponse(resp, transport.InvalidParam, "unknown message type")
	return nil
}

func setErrorResponse(resp *WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	resp.Body.Payload = msg
}

func (r *Router) writeAccessLog(ctx context.Context, resp *WsMsgResp) {
	bizCode := transport.SystemError
	if resp != nil && resp.Body != nil {
		bizCode = resp.Body.Code
	}
	transport.SetBizCode(ctx, transport.BizCode(bizCode))
	transport.WriteAccessLog(ctx, r.log)
}

// Registrar 业务模块向 ws 路由注册消息处理。
type Registrar interface {
	WsRegister(r *Router)
}
