package app

import (
	"math/rand"
	"time"

	"VillageRaid/internal/raid/domain/deploy"
	"VillageRaid/internal/raid/domain/loot"
	"VillageRaid/internal/raid/domain/outcome"
	"VillageRaid/internal/raid/domain/village"
)

// Raid 是玩家当前的一场突袭，只允许持有它的 actor 访问。
type Raid struct {
	ID        int64
	PlayerID  int64
	Seed      int64
	Village   *village.Village
	Loot      loot.Estimate
	Army      map[string]int
	Session   *deploy.Session
	StartedAt time.Time

	rng     *rand.Rand
	result  *Settlement
	applied bool
}

func (r *Raid) Settled() bool { return r.result != nil }

func (r *Raid) Result() *Settlement { return r.result }

// Applied 表示结算已经回写到兵力。
func (r *Raid) Applied() bool { return r.applied }

// Settlement 是一场突袭的最终结算，包含完整的逐帧日志。
type Settlement struct {
	RaidID       int64         `json:"raid_id,string"`
	PlayerID     int64         `json:"player_id"`
	Difficulty   int           `json:"difficulty"`
	VillageName  string        `json:"village_name"`
	Seed         int64         `json:"seed,string"`
	AutoDeployed bool          `json:"auto_deployed"`
	Units        []deploy.Unit `json:"units"`
	SettledAt    time.Time     `json:"settled_at"`
	outcome.Result
}

func (s *Settlement) Won() bool {
	return s.Outcome == outcome.Win
}

// Record 裁掉逐帧日志，用于写战报历史。
func (s *Settlement) Record() RaidRecord {
	return RaidRecord{
		RaidID:         s.RaidID,
		Difficulty:     s.Difficulty,
		VillageName:    s.VillageName,
		Seed:           s.Seed,
		Outcome:        s.Outcome.String(),
		Stars:          s.Stars,
		DestructionPct: s.DestructionPct,
		Loot:           s.Loot,
		TroopLosses:    s.TroopLosses,
		Ticks:          len(s.Ticks),
		AutoDeployed:   s.AutoDeployed,
		SettledAt:      s.SettledAt,
	}
}

// View 是推给客户端的突袭快照。
type View struct {
	RaidID      int64              `json:"raid_id,string"`
	SessionID   string             `json:"session_id"`
	State       string             `json:"state"`
	Difficulty  int                `json:"difficulty"`
	VillageName string             `json:"village_name"`
	GridSize    int                `json:"grid_size"`
	BorderWidth int                `json:"border_width"`
	Buildings   []village.Building `json:"buildings"`
	Defenders   []string           `json:"defenders"`
	Loot        loot.Estimate      `json:"loot"`
	RemainingMS int64              `json:"remaining_ms"`
	Left        map[string]int     `json:"left"`
	Deployed    []deploy.Unit      `json:"deployed"`
	Result      *Settlement        `json:"result,omitempty"`
}

func (r *Raid) View(now time.Time) View {
	return View{
		RaidID:      r.ID,
		SessionID:   r.Session.ID(),
		State:       r.Session.State().String(),
		Difficulty:  r.Village.Difficulty,
		VillageName: r.Village.Name,
		GridSize:    r.Village.Grid.Size(),
		BorderWidth: deploy.BorderWidth,
		Buildings:   r.Village.Buildings,
		Defenders:   r.Village.Defenders,
		Loot:        r.Loot,
		RemainingMS: r.Session.Remaining(now).Milliseconds(),
		Left:        r.Session.Left(),
		Deployed:    r.Session.Deployed(),
		Result:      r.result,
	}
}
