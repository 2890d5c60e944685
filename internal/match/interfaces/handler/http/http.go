package http

import (
	"context"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"Warfront/internal/match/entity"
	"Warfront/internal/match/interfaces/handler"
	"Warfront/internal/match/interfaces/handler/dto"
	"Warfront/internal/shared/security"
	"Warfront/internal/shared/transport"
	"Warfront/modules/kit/logx"
)

const defaultMatchLimit = 20

type HttpHandler struct {
	arena *handler.Arena
	log   logx.Logger
}

func NewHttpHandler(a *handler.Arena, l logx.Logger) *HttpHandler {
	if l == nil {
		l = logx.NewZapLogger(nil)
	}
	return &HttpHandler{arena: a, log: l}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	sessions := group.Group("/sessions")
	sessions.POST("", h.Create)
	sessions.GET("", h.List)
	sessions.POST("/:id/players", h.Join)
	sessions.POST("/:id/start", h.Start)
	sessions.POST("/:id/stop", h.Stop)
	sessions.DELETE("/:id", h.Destroy)
	sessions.GET("/:id/snapshot", h.Snapshot)

	group.GET("/matches", h.Matches)
}

func (h *HttpHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	sid, err := h.arena.Sessions.CreateWorld(ctx)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, dto.CreateSessionResp{SessionID: sid})
}

func (h *HttpHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	ids, err := h.arena.Sessions.List(ctx)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, dto.ListSessionsResp{Sessions: ids})
}

// Join 加入对局并签发座位 Token。
func (h *HttpHandler) Join(c *gin.Context) {
	ctx := c.Request.Context()
	sid := sessionID(c)

	var req dto.JoinReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.fail(c, transport.InvalidParam, "参数有误")
			return
		}
	}

	joined, err := h.arena.Sessions.AddPlayer(ctx, sid, req.Name)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	token, err := security.AwardSeat(string(sid), string(joined.PlayerID), h.arena.SeatTTL)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, dto.JoinResp{
		SessionID: sid,
		PlayerID:  joined.PlayerID,
		Color:     joined.Color,
		Status:    joined.Status,
		Token:     token,
	})
}

func (h *HttpHandler) Start(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.arena.Sessions.Start(ctx, sessionID(c)); err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, nil)
}

func (h *HttpHandler) Stop(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.arena.Sessions.Stop(ctx, sessionID(c)); err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, nil)
}

func (h *HttpHandler) Destroy(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.arena.Sessions.Destroy(ctx, sessionID(c)); err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, nil)
}

func (h *HttpHandler) Snapshot(c *gin.Context) {
	ctx := c.Request.Context()
	snap, err := h.arena.Sessions.Snapshot(ctx, sessionID(c))
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, snap)
}

// Matches 已归档对局，?limit= 默认 20。
func (h *HttpHandler) Matches(c *gin.Context) {
	ctx := c.Request.Context()
	limit := defaultMatchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.fail(c, transport.InvalidParam, "参数有误")
			return
		}
		limit = n
	}
	if h.arena.Matches == nil {
		h.ok(c, []dto.Match{})
		return
	}
	recs, err := h.arena.Matches.ListMatches(ctx, limit)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	out := make([]dto.Match, 0, len(recs))
	for _, rec := range recs {
		out = append(out, dto.MatchFrom(rec))
	}
	h.ok(c, out)
}

func sessionID(c *gin.Context) entity.SessionID {
	return entity.SessionID(c.Param("id"))
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, dto.Success(transport.OK, data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, dto.Error(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, err error) {
	code, msg := handler.HandleError(ctx, h.log, err)
	h.fail(c, code, msg)
}
