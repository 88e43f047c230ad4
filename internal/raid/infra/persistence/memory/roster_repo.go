package memory

import (
	"context"
	"maps"
	"sync"

	"VillageRaid/internal/raid/app"
)

// RosterRepo 进程内兵力存储，开发环境和测试用。未知玩家按默认兵力初始化。
type RosterRepo struct {
	mu       sync.Mutex
	armies   map[int64]*app.Army
	starting map[string]int
}

func NewRosterRepo(starting map[string]int) *RosterRepo {
	return &RosterRepo{
		armies:   make(map[int64]*app.Army),
		starting: maps.Clone(starting),
	}
}

func (r *RosterRepo) LoadArmy(ctx context.Context, playerID int64) (*app.Army, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clone(r.get(playerID)), nil
}

func (r *RosterRepo) ApplyRaid(ctx context.Context, playerID int64, out app.RaidOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := r.get(playerID)
	for id, n := range out.Losses {
		a.Troops[id] = max(a.Troops[id]-n, 0)
	}
	if out.Won {
		a.Resources.Gold += out.Loot.Gold
		a.Resources.Wood += out.Loot.Wood
		a.Resources.Stone += out.Loot.Stone
		a.RaidLevel++
	}
	return nil
}

func (r *RosterRepo) SaveArmy(ctx context.Context, a *app.Army) error {
	if a == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.armies[a.PlayerID] = clone(a)
	return nil
}

func (r *RosterRepo) get(playerID int64) *app.Army {
	a, ok := r.armies[playerID]
	if !ok {
		a = &app.Army{PlayerID: playerID, RaidLevel: 1, Troops: maps.Clone(r.starting)}
		if a.Troops == nil {
			a.Troops = make(map[string]int)
		}
		r.armies[playerID] = a
	}
	return a
}

func clone(a *app.Army) *app.Army {
	c := *a
	c.Troops = maps.Clone(a.Troops)
	if c.Troops == nil {
		c.Troops = make(map[string]int)
	}
	return &c
}
