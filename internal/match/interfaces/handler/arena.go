package handler

import (
	"context"
	"time"

	"Warfront/internal/match/app/port"
	"Warfront/internal/match/entity"
	"Warfront/internal/match/sim"
	"Warfront/internal/shared/actor/messages"
)

// Sessions 对局生命周期，由 actor runtime 实现。
type Sessions interface {
	CreateWorld(ctx context.Context) (entity.SessionID, error)
	AddPlayer(ctx context.Context, sid entity.SessionID, name string) (*messages.JoinSessionResp, error)
	Start(ctx context.Context, sid entity.SessionID) error
	Stop(ctx context.Context, sid entity.SessionID) error
	Destroy(ctx context.Context, sid entity.SessionID) error
	Snapshot(ctx context.Context, sid entity.SessionID) (*entity.Snapshot, error)
	List(ctx context.Context) ([]entity.SessionID, error)
	Submit(sid entity.SessionID, pid entity.PlayerID, intent sim.Intent)
	Subscribe(ctx context.Context, sid entity.SessionID, key string, sink messages.SnapshotSink) error
	Unsubscribe(sid entity.SessionID, key string)
}

// Arena http 与 ws handler 共用的依赖。
type Arena struct {
	Sessions Sessions
	Matches  port.MatchRepository
	SeatTTL  time.Duration
}

func NewArena(s Sessions, matches port.MatchRepository, seatTTL time.Duration) *Arena {
	return &Arena{Sessions: s, Matches: matches, SeatTTL: seatTTL}
}
