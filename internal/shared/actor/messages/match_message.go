package messages

import (
	"Warfront/internal/match/entity"
	"Warfront/internal/match/sim"
)

// MatchMessage 需要由 manager 转发给具体 session actor 的消息。
type MatchMessage interface {
	SessionID() entity.SessionID
}

type MatchBaseMessage struct {
	Session entity.SessionID
}

func (m MatchBaseMessage) SessionID() entity.SessionID {
	return m.Session
}

type CreateSession struct{}

type CreateSessionResp struct {
	Session entity.SessionID
}

type DestroySession struct {
	MatchBaseMessage
}

type ListSessions struct{}

type ListSessionsResp struct {
	Sessions []entity.SessionID
}

type JoinSession struct {
	MatchBaseMessage
	PlayerID entity.PlayerID
	Name     string
}

type JoinSessionResp struct {
	PlayerID entity.PlayerID
	Color    entity.Color
	Status   entity.Status
}

type StartSession struct {
	MatchBaseMessage
}

type StopSession struct {
	MatchBaseMessage
}

type SnapshotRequest struct {
	MatchBaseMessage
}

type SnapshotResp struct {
	Snapshot *entity.Snapshot
}

// SubmitIntent 只 Send 不回包，被拒绝的意图静默丢弃。
type SubmitIntent struct {
	MatchBaseMessage
	PlayerID entity.PlayerID
	Intent   sim.Intent
}

// SnapshotSink 在 session actor 内同步调用，必须不阻塞；返回 false 表示订阅者已失效。
type SnapshotSink func(s *entity.Snapshot) bool

type Subscribe struct {
	MatchBaseMessage
	Key  string
	Sink SnapshotSink
}

type Unsubscribe struct {
	MatchBaseMessage
	Key string
}
