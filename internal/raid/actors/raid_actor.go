package actors

import (
	"context"
	"time"

	"VillageRaid/internal/raid/app"
	"VillageRaid/internal/raid/domain/deploy"
	"VillageRaid/internal/shared/actor/messages"
	"VillageRaid/modules/kit/tracex"

	"github.com/asynkron/protoactor-go/actor"
)

const defaultCountdownPoll = 250 * time.Millisecond

type State int

const (
	None State = iota
	Online
	Stopping
	Offline
)

// Notifier 接收倒计时到点后自动结算的结果。手动开战的结果直接随应答返回，不走这里。
type Notifier interface {
	RaidSettled(playerID int64, st *app.Settlement)
}

type nopNotifier struct{}

func (nopNotifier) RaidSettled(int64, *app.Settlement) {}

// RaidActor 独占一名玩家的突袭状态，所有读写都在 Receive 里串行完成。
type RaidActor struct {
	state      State
	playerID   int64
	svc        *app.RaidService
	notifier   Notifier
	raid       *app.Raid
	dispatcher *Dispatcher
	poll       time.Duration
	now        func() time.Time
	tickStop   chan struct{}
}

type countdownTick struct{}

func (countdownTick) NotInfluenceReceiveTimeout() {}

func NewRaidActor(playerID int64, svc *app.RaidService, notifier Notifier, poll time.Duration) *RaidActor {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if poll <= 0 {
		poll = defaultCountdownPoll
	}
	return &RaidActor{
		state:      None,
		playerID:   playerID,
		svc:        svc,
		notifier:   notifier,
		dispatcher: NewDispatcher(),
		poll:       poll,
		now:        time.Now,
	}
}

func (p *RaidActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Online
		return
	case *actor.Stopping:
		p.stopCountdown()
		p.state = Stopping
		return
	case *actor.Stopped:
		p.stopCountdown()
		p.state = Offline
		return
	case *actor.Restarting:
		p.stopCountdown()
		p.state = Online
		return
	case countdownTick:
		if p.state != Online {
			return
		}
		p.expire(context.Background())
		return
	case messages.RaidMessage:
		if p.state != Online {
			ctx.Respond(fail(app.ErrUnavailable))
			return
		}
		rctx := context.Background()
		if id := msg.TraceID(); id != "" {
			rctx = tracex.WithTraceID(rctx, id)
		}
		// 先补一次到点检查，避免 tick 还没到时处理过期请求
		p.expire(rctx)
		p.dispatcher.Dispatch(ctx, p, rctx, msg)
	default:
		return
	}
}

func (p *RaidActor) PlayerID() int64 {
	return p.playerID
}

func (p *RaidActor) Raid() *app.Raid {
	return p.raid
}

// active 表示有一场还在部署中的突袭。
func (p *RaidActor) active() bool {
	return p.raid != nil && !p.raid.Settled() && p.raid.Session.State() == deploy.Deploying
}

func (p *RaidActor) expire(ctx context.Context) {
	if !p.active() {
		return
	}
	st, fired, err := p.svc.Expire(ctx, p.raid, p.now())
	if !fired {
		return
	}
	p.stopCountdown()
	if err != nil {
		// 结果已保留，下次 Begin 或 Start 会重试回写
		return
	}
	p.notifier.RaidSettled(p.playerID, st)
}

func (p *RaidActor) startCountdown(ctx actor.Context) {
	if p.tickStop != nil {
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
				root.Send(self, countdownTick{})
			case <-stop:
				return
			}
		}
	}(p.tickStop, p.poll)
}

func (p *RaidActor) stopCountdown() {
	if p.tickStop == nil {
		return
	}
	close(p.tickStop)
	p.tickStop = nil
}
