package actors

import (
	"strings"

	"github.com/google/uuid"

	"Warfront/internal/match/entity"
	"Warfront/internal/match/rules"
	"Warfront/internal/shared/metrics"
	"Warfront/modules/kit/logx"
)

// Archiver 接收结束对局的记录，必须不阻塞。
type Archiver interface {
	Enqueue(rec *entity.MatchRecord) error
}

// Deps manager 与所有 session actor 共享的依赖。
type Deps struct {
	Rules       *rules.Rules
	Archive     Archiver
	Metrics     *metrics.Arena
	Log         logx.Logger
	MaxSessions int
	NewID       func() entity.SessionID
}

func (d *Deps) withDefaults() *Deps {
	out := *d
	if out.Rules == nil {
		out.Rules = rules.Default()
	}
	if out.Log == nil {
		out.Log = logx.NewZapLogger(nil)
	}
	if out.NewID == nil {
		out.NewID = NewSessionID
	}
	return &out
}

func NewSessionID() entity.SessionID {
	return entity.SessionID(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
