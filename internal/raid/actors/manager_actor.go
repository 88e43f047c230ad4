package actors

import (
	"time"

	"VillageRaid/internal/raid/app"
	"VillageRaid/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
)

// ManagerActor 只做路由：按玩家 id 找到（或创建）对应的 RaidActor 并转发。
type ManagerActor struct {
	svc        *app.RaidService
	notifier   Notifier
	poll       time.Duration
	raidActors map[int64]*actor.PID // player_id -> raid actor
}

func NewManagerActor(svc *app.RaidService, notifier Notifier, poll time.Duration) *ManagerActor {
	return &ManagerActor{
		svc:        svc,
		notifier:   notifier,
		poll:       poll,
		raidActors: make(map[int64]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		for id, pid := range m.raidActors {
			if pid.Equal(msg.Who) {
				delete(m.raidActors, id)
				break
			}
		}
	case messages.RaidMessage:
		if msg.PlayerID() <= 0 {
			ctx.Respond(fail(app.ErrInvalidParam.WithData("player_id", msg.PlayerID())))
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, msg.PlayerID()))
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, playerID int64) *actor.PID {
	if pid, ok := m.raidActors[playerID]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewRaidActor(playerID, m.svc, m.notifier, m.poll)
	})
	pid := ctx.Spawn(props)
	m.raidActors[playerID] = pid
	return pid
}
