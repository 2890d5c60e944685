package interfaces

import (
	"github.com/gin-gonic/gin"

	"Warfront/internal/match/interfaces/handler"
	"Warfront/internal/match/interfaces/handler/http"
	matchws "Warfront/internal/match/interfaces/handler/ws"
	transporthttp "Warfront/internal/shared/transport/http"
	"Warfront/internal/shared/transport/ws"
	"Warfront/modules/kit/logx"
)

type Module struct {
	wsHandler   *matchws.WsHandler
	httpHandler *http.HttpHandler
}

func New(a *handler.Arena, l logx.Logger) *Module {
	return &Module{
		wsHandler:   matchws.NewWsHandler(a, l),
		httpHandler: http.NewHttpHandler(a, l),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

// WsOptions 座位鉴权与快照订阅。
func (m *Module) WsOptions(needSecret bool, frameKey, frameIV string) ws.Options {
	return ws.Options{
		NeedSecret: needSecret,
		FrameKey:   frameKey,
		FrameIV:    frameIV,
		Authorize:  m.wsHandler.Authorize,
		OnOpen: func(conn *ws.WsServer) {
			m.wsHandler.OnOpen(conn)
		},
	}
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
