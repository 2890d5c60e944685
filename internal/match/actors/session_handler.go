package actors

import (
	"errors"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"Warfront/internal/match/sim"
	"Warfront/internal/shared/actor/messages"
)

type SessionHandler struct{}

var SH = &SessionHandler{}

func (h *SessionHandler) HandleJoin(ctx actor.Context, p *SessionActor, req *messages.JoinSession) {
	player, err := p.world.AddPlayer(req.PlayerID, req.Name)
	if err != nil {
		respond(ctx, failWith(err))
		return
	}
	p.log.Info("player joined",
		zap.String("player_id", string(player.ID)),
		zap.String("color", string(player.Color)),
	)
	respond(ctx, &messages.JoinSessionResp{
		PlayerID: player.ID,
		Color:    player.Color,
		Status:   p.world.State().Status,
	})
	p.broadcast()
}

// HandleStart 已经开局时视为成功。
func (h *SessionHandler) HandleStart(ctx actor.Context, p *SessionActor, req *messages.StartSession) {
	if err := p.world.Start(); err != nil && !errors.Is(err, sim.ErrAlreadyStarted) {
		respond(ctx, failWith(err))
		return
	}
	respond(ctx, ack())
}

func (h *SessionHandler) HandleStop(ctx actor.Context, p *SessionActor, req *messages.StopSession) {
	if p.world.Stop() {
		p.log.Info("session stopped")
		p.archive()
		p.broadcast()
	}
	respond(ctx, ack())
}

func (h *SessionHandler) HandleSnapshot(ctx actor.Context, p *SessionActor, req *messages.SnapshotRequest) {
	respond(ctx, &messages.SnapshotResp{Snapshot: p.world.Snapshot()})
}

// HandleSubscribe 订阅后立即推送一次当前快照。
func (h *SessionHandler) HandleSubscribe(ctx actor.Context, p *SessionActor, req *messages.Subscribe) {
	if req.Key == "" || req.Sink == nil {
		respond(ctx, fail("subscribe requires key and sink"))
		return
	}
	if req.Sink(p.world.Snapshot()) {
		p.subs[req.Key] = req.Sink
	}
	respond(ctx, ack())
}

func (h *SessionHandler) HandleUnsubscribe(ctx actor.Context, p *SessionActor, req *messages.Unsubscribe) {
	delete(p.subs, req.Key)
	respond(ctx, ack())
}

// HandleSubmit 被拒绝的指令只记日志和指标，不回包；生效的指令立即推送一次快照。
func (h *SessionHandler) HandleSubmit(ctx actor.Context, p *SessionActor, req *messages.SubmitIntent) {
	typ := "unknown"
	if req.Intent != nil {
		typ = req.Intent.Type()
	}
	if err := p.world.Apply(req.PlayerID, req.Intent); err != nil {
		p.deps.Metrics.IntentDropped(typ, sim.ReasonOf(err))
		return
	}
	p.deps.Metrics.IntentAccepted(typ)
	p.broadcast()
}
