package app

import (
	"context"
	"errors"
	"time"

	"VillageRaid/internal/raid/domain/loot"
)

// ErrArmyNotFound 玩家还没有兵营记录。
var ErrArmyNotFound = errors.New("raid: army not found")

// Army 是经济系统交给战斗服的兵力快照。
type Army struct {
	PlayerID  int64
	RaidLevel int
	Troops    map[string]int
	Resources loot.Amount
}

// RaidOutcome 是战斗回写经济系统的增量。
type RaidOutcome struct {
	Losses map[string]int
	Loot   loot.Amount
	Won    bool
}

// RosterRepo 读写玩家兵力和资源。ApplyRaid 扣兵时要保证不出现负数。
type RosterRepo interface {
	LoadArmy(ctx context.Context, playerID int64) (*Army, error)
	ApplyRaid(ctx context.Context, playerID int64, out RaidOutcome) error
}

// RaidRecord 是一条战报摘要，不含逐帧日志。
type RaidRecord struct {
	RaidID         int64          `json:"raid_id,string" bson:"raid_id"`
	Difficulty     int            `json:"difficulty" bson:"difficulty"`
	VillageName    string         `json:"village_name" bson:"village_name"`
	Seed           int64          `json:"seed,string" bson:"seed"`
	Outcome        string         `json:"outcome" bson:"outcome"`
	Stars          int            `json:"stars" bson:"stars"`
	DestructionPct float64        `json:"destruction_pct" bson:"destruction_pct"`
	Loot           loot.Amount    `json:"loot" bson:"loot"`
	TroopLosses    map[string]int `json:"troop_losses" bson:"troop_losses"`
	Ticks          int            `json:"ticks" bson:"ticks"`
	AutoDeployed   bool           `json:"auto_deployed" bson:"auto_deployed"`
	SettledAt      time.Time      `json:"settled_at" bson:"settled_at"`
}

// HistoryRepo 按玩家保存最近 limit 场战报，新的在前。
type HistoryRepo interface {
	Append(ctx context.Context, playerID int64, rec RaidRecord, limit int) error
	List(ctx context.Context, playerID int64, limit int) ([]RaidRecord, error)
}

type IDGenerator interface {
	NextID() int64
}
