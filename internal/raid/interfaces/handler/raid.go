package handler

import (
	"context"

	"VillageRaid/internal/raid/app"
	"VillageRaid/internal/raid/domain/deploy"
	"VillageRaid/internal/shared/session"
	"VillageRaid/modules/kit/logx"
)

// Runtime 是接口层看到的 actor 运行时，每个玩家的请求在各自的 actor 里串行处理。
type Runtime interface {
	Start(ctx context.Context, playerID, seed int64) (app.View, error)
	Place(ctx context.Context, playerID int64, u deploy.Unit) (app.View, error)
	Begin(ctx context.Context, playerID int64) (*app.Settlement, error)
	Cancel(ctx context.Context, playerID int64) error
	State(ctx context.Context, playerID int64) (app.View, error)
}

type Raid struct {
	Runtime Runtime
	Service *app.RaidService
	Session session.Manager
	Log     logx.Logger
}

func NewRaid(rt Runtime, svc *app.RaidService, s session.Manager, log logx.Logger) *Raid {
	if log == nil {
		log = logx.Nop()
	}
	return &Raid{
		Runtime: rt,
		Service: svc,
		Session: s,
		Log:     log,
	}
}
