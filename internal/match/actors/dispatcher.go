package actors

import (
	"reflect"

	"github.com/asynkron/protoactor-go/actor"

	"Warfront/internal/shared/actor/messages"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, SH.HandleJoin)
	register(d, SH.HandleStart)
	register(d, SH.HandleStop)
	register(d, SH.HandleSnapshot)
	register(d, SH.HandleSubscribe)
	register(d, SH.HandleUnsubscribe)
	register(d, SH.HandleSubmit)
}

func register[Req any](
	d *Dispatcher,
	fn func(ctx actor.Context, p *SessionActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType == nil {
		panic("dispatcher req type cannot be nil")
	}

	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, p *SessionActor, req messages.MatchMessage) {
	if req == nil {
		respond(ctx, fail("nil req"))
		return
	}

	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok {
		respond(ctx, fail("no handler for request body"))
		return
	}

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(p),
		reflect.ValueOf(req),
	})
}

// respond Send 过来的消息没有 sender，回包直接丢弃。
func respond(ctx actor.Context, msg any) {
	if ctx.Sender() == nil {
		return
	}
	ctx.Respond(msg)
}
