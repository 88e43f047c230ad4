package actors

import (
	"context"

	"VillageRaid/internal/raid/app"
	"VillageRaid/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
)

type RaidHandler struct {
}

// 全局实例
var RH = &RaidHandler{}

func (h *RaidHandler) HandleStart(ctx actor.Context, p *RaidActor, rctx context.Context, req messages.HRStartRaid) {
	if p.active() {
		ctx.Respond(fail(app.ErrRaidAlreadyRunning))
		return
	}
	// 上一场的损失还没回写成功，先补写，补不上就不能开新的
	if err := p.svc.ApplyPending(rctx, p.raid); err != nil {
		ctx.Respond(fail(err))
		return
	}
	r, err := p.svc.Start(rctx, p.playerID, req.Seed, p.now())
	if err != nil {
		ctx.Respond(fail(err))
		return
	}
	p.raid = r
	p.startCountdown(ctx)
	ctx.Respond(ok(r.View(p.now())))
}

func (h *RaidHandler) HandlePlace(ctx actor.Context, p *RaidActor, rctx context.Context, req messages.HRPlaceTroop) {
	if p.raid == nil {
		ctx.Respond(fail(app.ErrRaidNotStarted))
		return
	}
	if _, err := p.svc.Place(rctx, p.raid, req.TroopID, req.X, req.Y, p.now()); err != nil {
		ctx.Respond(fail(err))
		return
	}
	ctx.Respond(ok(p.raid.View(p.now())))
}

func (h *RaidHandler) HandleBegin(ctx actor.Context, p *RaidActor, rctx context.Context, req messages.HRBeginRaid) {
	if p.raid == nil {
		ctx.Respond(fail(app.ErrRaidNotStarted))
		return
	}
	st, err := p.svc.Begin(rctx, p.raid, p.now())
	if p.raid.Settled() {
		p.stopCountdown()
	}
	if err != nil {
		ctx.Respond(fail(err))
		return
	}
	ctx.Respond(ok(st))
}

func (h *RaidHandler) HandleCancel(ctx actor.Context, p *RaidActor, rctx context.Context, req messages.HRCancelRaid) {
	if p.raid == nil {
		ctx.Respond(fail(app.ErrRaidNotStarted))
		return
	}
	if err := p.svc.Cancel(rctx, p.raid); err != nil {
		ctx.Respond(fail(err))
		return
	}
	p.stopCountdown()
	p.raid = nil
	ctx.Respond(ok(nil))
}

func (h *RaidHandler) HandleState(ctx actor.Context, p *RaidActor, rctx context.Context, req messages.HRRaidState) {
	if p.raid == nil {
		ctx.Respond(fail(app.ErrRaidNotStarted))
		return
	}
	ctx.Respond(ok(p.raid.View(p.now())))
}
