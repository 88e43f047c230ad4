package actors

import (
	"context"
	"reflect"

	"VillageRaid/internal/raid/app"
	"VillageRaid/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
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
	register(d, RH.HandleStart)
	register(d, RH.HandlePlace)
	register(d, RH.HandleBegin)
	register(d, RH.HandleCancel)
	register(d, RH.HandleState)
}

func register[Req messages.RaidMessage](
	d *Dispatcher,
	fn func(ctx actor.Context, p *RaidActor, rctx context.Context, req Req),
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

func (d *Dispatcher) Dispatch(ctx actor.Context, p *RaidActor, rctx context.Context, req messages.RaidMessage) {
	if req == nil {
		ctx.Respond(fail(app.ErrInvalidParam))
		return
	}

	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok {
		ctx.Respond(fail(app.ErrInvalidParam.WithData("message", bodyType.String())))
		return
	}

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(p),
		reflect.ValueOf(rctx),
		reflect.ValueOf(req),
	})
}
