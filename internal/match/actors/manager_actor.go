package actors

import (
	"sort"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"Warfront/internal/match/entity"
	"Warfront/internal/shared/actor/messages"
)

type SessionID = entity.SessionID

// ManagerActor 持有 sessionID -> PID 表，负责创建、销毁、列举 session，
// 其余消息按 session id 转发给对应的 SessionActor。
type ManagerActor struct {
	deps     *Deps
	sessions map[SessionID]*actor.PID
	byPID    map[string]SessionID
}

func NewManagerActor(deps Deps) *ManagerActor {
	return &ManagerActor{
		deps:     deps.withDefaults(),
		sessions: make(map[SessionID]*actor.PID),
		byPID:    make(map[string]SessionID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *messages.CreateSession:
		m.create(ctx)
	case *messages.ListSessions:
		ctx.Respond(&messages.ListSessionsResp{Sessions: m.list()})
	case *messages.DestroySession:
		m.destroy(ctx, msg.SessionID())
	case *actor.Terminated:
		m.forget(msg.Who)
	case messages.MatchMessage:
		pid, ok := m.sessions[msg.SessionID()]
		if !ok {
			respond(ctx, failWith(ErrSessionNotFound))
			return
		}
		ctx.Forward(pid)
	}
}

func (m *ManagerActor) create(ctx actor.Context) {
	if m.deps.MaxSessions > 0 && len(m.sessions) >= m.deps.MaxSessions {
		ctx.Respond(failWith(ErrTooManySessions))
		return
	}
	id := m.deps.NewID()
	for {
		if _, exists := m.sessions[id]; !exists {
			break
		}
		id = m.deps.NewID()
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewSessionActor(id, m.deps)
	})
	pid := ctx.Spawn(props)
	ctx.Watch(pid)
	m.sessions[id] = pid
	m.byPID[pid.Id] = id
	m.deps.Metrics.SetLiveSessions(len(m.sessions))
	m.deps.Log.Info("session created", zap.String("session_id", string(id)))

	ctx.Respond(&messages.CreateSessionResp{Session: id})
}

func (m *ManagerActor) destroy(ctx actor.Context, id SessionID) {
	pid, ok := m.sessions[id]
	if !ok {
		respond(ctx, failWith(ErrSessionNotFound))
		return
	}
	m.drop(id, pid)
	ctx.Stop(pid)
	m.deps.Log.Info("session destroyed", zap.String("session_id", string(id)))
	respond(ctx, ack())
}

// forget 子 actor 自行退出（或被 destroy 停掉）后清理索引。
func (m *ManagerActor) forget(who *actor.PID) {
	if who == nil {
		return
	}
	id, ok := m.byPID[who.Id]
	if !ok {
		return
	}
	m.drop(id, who)
}

func (m *ManagerActor) drop(id SessionID, pid *actor.PID) {
	delete(m.sessions, id)
	delete(m.byPID, pid.Id)
	m.deps.Metrics.SetLiveSessions(len(m.sessions))
}

func (m *ManagerActor) list() []SessionID {
	out := make([]SessionID, 0, len(m.sessions))
	for id := range m.sessions {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
