package actors

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"Warfront/internal/match/sim"
	"Warfront/internal/shared/actor/messages"
	"Warfront/modules/kit/logx"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

// SessionActor 独占一个 sim.World。tick、指令、快照请求都经过同一个邮箱，天然串行。
type SessionActor struct {
	state      State
	id         SessionID
	deps       *Deps
	log        logx.Logger
	world      *sim.World
	dispatcher *Dispatcher
	subs       map[string]messages.SnapshotSink
	tickStop   chan struct{}
	archived   bool
}

type tickMsg struct{}

func (tickMsg) NotInfluenceReceiveTimeout() {}

func NewSessionActor(id SessionID, deps *Deps) *SessionActor {
	return &SessionActor{
		state:      None,
		id:         id,
		deps:       deps,
		log:        deps.Log.With(zap.String("session_id", string(id))),
		dispatcher: NewDispatcher(),
		subs:       make(map[string]messages.SnapshotSink),
	}
}

func (p *SessionActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Init
		p.init()
		return
	case *actor.Stopping:
		p.stopTickLoop()
		p.shutdown()
		p.state = Stopping
		return
	case *actor.Stopped:
		p.stopTickLoop()
		p.state = Offline
		return
	case *actor.Restarting:
		p.stopTickLoop()
		p.state = Init
		return
	case tickMsg:
		if p.state != Online {
			return
		}
		p.onTick()
		return
	case messages.MatchMessage:
		if p.state != Online {
			respond(ctx, fail("session not online"))
			return
		}
		p.dispatcher.Dispatch(ctx, p, msg)
		p.syncTickLoop(ctx)
	}
}

func (p *SessionActor) init() {
	p.world = sim.NewWorld(p.id, p.deps.Rules, sim.WithLogger(p.deps.Log))
	p.state = Online
}

func (p *SessionActor) World() *sim.World {
	return p.world
}

func (p *SessionActor) onTick() {
	if !p.world.Running() {
		p.stopTickLoop()
		return
	}
	rep := p.world.Tick()
	p.deps.Metrics.ObserveTick(rep.Duration)
	p.broadcast()
	if rep.Ended {
		p.stopTickLoop()
		p.archive()
	}
}

// broadcast 所有订阅者共享同一份只读快照。
func (p *SessionActor) broadcast() {
	if len(p.subs) == 0 {
		return
	}
	snap := p.world.Snapshot()
	for key, sink := range p.subs {
		if !sink(snap) {
			delete(p.subs, key)
		}
	}
}

// archive 每个 session 只归档一次，且只归档开过局的。
func (p *SessionActor) archive() {
	if p.archived {
		return
	}
	g := p.world.State()
	if g.StartTime.IsZero() {
		return
	}
	p.archived = true
	p.deps.Metrics.MatchEnded(g.EndReason)
	if p.deps.Archive == nil {
		return
	}
	if err := p.deps.Archive.Enqueue(g.Record()); err != nil {
		p.log.Error("archive enqueue failed", zap.Error(err))
	}
}

func (p *SessionActor) shutdown() {
	if p.world == nil {
		return
	}
	if p.world.Stop() {
		p.archive()
	}
	p.broadcast()
	p.subs = make(map[string]messages.SnapshotSink)
}

// syncTickLoop playing 状态下保持 ticker 运行，其余状态停掉。
func (p *SessionActor) syncTickLoop(ctx actor.Context) {
	if p.world.Running() {
		p.startTickLoop(ctx)
		return
	}
	p.stopTickLoop()
}

func (p *SessionActor) startTickLoop(ctx actor.Context) {
	if p.tickStop != nil {
		return
	}
	interval := p.deps.Rules.TickInterval
	if interval <= 0 {
		return
	}
	p.tickStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, every time.Duration) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, tickMsg{})
			case <-stop:
				return
			}
		}
	}(p.tickStop, interval)
}

func (p *SessionActor) stopTickLoop() {
	if p.tickStop == nil {
		return
	}
	close(p.tickStop)
	p.tickStop = nil
}
