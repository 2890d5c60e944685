package actors

import (
	"errors"

	"Warfront/internal/match/sim"
	"Warfront/internal/shared/actor/messages"
	"Warfront/internal/shared/transport"
	"Warfront/modules/kit/errx"
)

const (
	CodeSessionNotFound errx.Code = "SESSION_NOT_FOUND"
	CodeTooManySessions errx.Code = "TOO_MANY_SESSIONS"
)

var (
	ErrSessionNotFound = errx.NewBiz(CodeSessionNotFound, "session not found")
	ErrTooManySessions = errx.NewBiz(CodeTooManySessions, "session limit reached")
)

// failWith 把错误映射成带 transport 码的回包。
func failWith(err error) *messages.FailResp {
	return &messages.FailResp{
		Code:    codeOf(err),
		Message: err.Error(),
		Err:     err,
	}
}

func codeOf(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return transport.NotFound
	case errors.Is(err, ErrTooManySessions),
		errors.Is(err, sim.ErrSessionFull),
		errors.Is(err, sim.ErrDuplicatePlayer),
		errors.Is(err, sim.ErrAlreadyStarted),
		errors.Is(err, sim.ErrNotEnoughPlayers),
		errors.Is(err, sim.ErrMatchEnded):
		return transport.Conflict
	case errors.Is(err, sim.ErrIntentRejected):
		return transport.InvalidParam
	}
	return transport.SystemError
}

func fail(reason string) *messages.FailResp {
	return &messages.FailResp{Code: transport.SystemError, Message: reason}
}

func ack() *messages.Ack {
	return &messages.Ack{}
}
