// Package outcome 把模拟结束时的状态换算成星数、胜负、掠夺和损失。
package outcome

import (
	"fmt"

	"VillageRaid/internal/raid/domain/battle"
	"VillageRaid/internal/raid/domain/loot"
)

type Outcome int

const (
	Lose Outcome = iota
	Win
)

func (o Outcome) String() string {
	if o == Win {
		return "win"
	}
	return "lose"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "win":
		*o = Win
	case "lose":
		*o = Lose
	default:
		return fmt.Errorf("outcome: unknown value %q", b)
	}
	return nil
}

type Result struct {
	Ticks          []battle.TickEvent `json:"ticks"`
	Outcome        Outcome            `json:"outcome"`
	Stars          int                `json:"stars"`
	DestructionPct float64            `json:"destruction_pct"`
	NexusDestroyed bool               `json:"nexus_destroyed"`
	Loot           loot.Amount        `json:"loot"`
	TroopLosses    map[string]int     `json:"troop_losses"`
}

// Stars 摧毁过半 1 星，主堡被拆至少 2 星，全拆 3 星。
func Stars(pct float64, nexusDestroyed bool) int {
	stars := 0
	if pct >= 0.5 {
		stars = 1
	}
	if nexusDestroyed {
		stars = max(stars, 2)
	}
	if pct >= 1 {
		stars = 3
	}
	return stars
}

// Resolve 结算一场战斗。0 星时掠夺清零。
func Resolve(rep battle.Report, est loot.Estimate) Result {
	destroyed, total := rep.Destroyed()
	pct := 0.0
	if total > 0 {
		pct = float64(destroyed) / float64(total)
	}
	nexus := rep.CoreDestroyed()
	stars := Stars(pct, nexus)

	r := Result{
		Ticks:          rep.Ticks,
		Outcome:        Lose,
		Stars:          stars,
		DestructionPct: pct,
		NexusDestroyed: nexus,
		TroopLosses:    rep.Losses(),
	}
	if stars > 0 {
		r.Outcome = Win
		r.Loot = est.At(pct)
	}
	return r
}
