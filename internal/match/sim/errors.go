package sim

import "Warfront/modules/kit/errx"

type Code = errx.Code

const (
	CodeIntentRejected  Code = "INTENT_REJECTED"
	CodeSessionFull     Code = "SESSION_FULL"
	CodeMatchEnded      Code = "MATCH_ENDED"
	CodeAlreadyStarted  Code = "MATCH_ALREADY_STARTED"
	CodeNotEnoughPlayer Code = "NOT_ENOUGH_PLAYERS"
	CodeDuplicatePlayer Code = "DUPLICATE_PLAYER"
)

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{Code: c, Message: m}
}

// 指令被丢弃的原因，只用于日志与指标，不返回给客户端。
var (
	ReasonMalformed    = NewReason("malformed", "missing or invalid payload fields")
	ReasonNotOwner     = NewReason("not_owner", "entity does not belong to acting player")
	ReasonWrongKind    = NewReason("wrong_kind", "entity kind cannot perform this action")
	ReasonUnaffordable = NewReason("unaffordable", "insufficient resources")
	ReasonStaleTarget  = NewReason("stale_target", "referenced entity or resource no longer exists")
	ReasonInvalidSite  = NewReason("invalid_site", "hub site is not near a resource cluster")
	ReasonQueueFull    = NewReason("queue_full", "production queue is full")
	ReasonNotPlaying   = NewReason("not_playing", "match is not in playing state")
)

var (
	ErrIntentRejected   = errx.NewBiz(CodeIntentRejected, "intent rejected")
	ErrSessionFull      = errx.NewBiz(CodeSessionFull, "session already has two players")
	ErrMatchEnded       = errx.NewBiz(CodeMatchEnded, "match has ended")
	ErrAlreadyStarted   = errx.NewBiz(CodeAlreadyStarted, "match already started")
	ErrNotEnoughPlayers = errx.NewBiz(CodeNotEnoughPlayer, "two players are required to start")
	ErrDuplicatePlayer  = errx.NewBiz(CodeDuplicatePlayer, "player already joined")
)

var rejectMessages = func() map[string]string {
	out := make(map[string]string)
	for _, r := range []Reason{
		ReasonMalformed, ReasonNotOwner, ReasonWrongKind, ReasonUnaffordable,
		ReasonStaleTarget, ReasonInvalidSite, ReasonQueueFull, ReasonNotPlaying,
	} {
		out[r.Code] = r.Message
	}
	return out
}()

func reject(r Reason) error {
	return ErrIntentRejected.WithReason(r)
}
