package outcome

import (
	"reflect"
	"testing"

	"VillageRaid/internal/raid/domain/battle"
	"VillageRaid/internal/raid/domain/loot"
)

func buildings(alive ...bool) []battle.Building {
	out := make([]battle.Building, len(alive))
	for i, a := range alive {
		out[i] = battle.Building{Base: battle.Base{Alive: a}, Index: i, IsCore: i == 0}
	}
	return out
}

func TestStars_阈值(t *testing.T) {
	cases := []struct {
		pct   float64
		nexus bool
		want  int
	}{
		{0, false, 0},
		{0.49, false, 0},
		{0.5, false, 1},
		{0.2, true, 2},
		{0.9, true, 2},
		{1, false, 3},
		{1, true, 3},
	}
	for _, c := range cases {
		if got := Stars(c.pct, c.nexus); got != c.want {
			t.Fatalf("pct=%v nexus=%v 期望 %d 星，got=%d", c.pct, c.nexus, c.want, got)
		}
	}
}

func TestStars_随摧毁比例单调不减(t *testing.T) {
	for _, nexus := range []bool{false, true} {
		prev := -1
		for i := 0; i <= 100; i++ {
			s := Stars(float64(i)/100, nexus)
			if s < prev {
				t.Fatalf("nexus=%v pct=%d%% 星数回落 %d -> %d", nexus, i, prev, s)
			}
			prev = s
		}
	}
}

func TestResolve_零进攻兵判负且无掠夺(t *testing.T) {
	rep := battle.Simulate(battle.Input{
		Buildings: []battle.Building{{Base: battle.Base{ID: "b0", HP: 100, MaxHP: 100, Alive: true}, IsCore: true}},
		CoreIndex: 0,
	})
	r := Resolve(rep, loot.For(1))
	if r.Outcome != Lose || r.Stars != 0 || !r.Loot.IsZero() || len(r.Ticks) != 0 {
		t.Fatalf("期望 Lose/0 星/无掠夺/0 帧，got=%+v", r)
	}
	if len(r.TroopLosses) != 0 {
		t.Fatalf("期望无损失，got=%v", r.TroopLosses)
	}
}

func TestResolve_拆主堡至少两星(t *testing.T) {
	rep := battle.Report{Buildings: buildings(false, true, true, true), CoreIndex: 0}
	r := Resolve(rep, loot.For(3))
	if !r.NexusDestroyed || r.Stars != 2 || r.Outcome != Win {
		t.Fatalf("期望主堡被拆 2 星获胜，got=%+v", r)
	}
	if r.DestructionPct != 0.25 {
		t.Fatalf("期望摧毁 25%%，got=%v", r.DestructionPct)
	}
	// gold: 340 区间 [170,340]，25% -> 212
	if r.Loot.Gold != 212 {
		t.Fatalf("期望金币 212，got=%d", r.Loot.Gold)
	}
}

func TestResolve_零星时掠夺清零(t *testing.T) {
	rep := battle.Report{Buildings: buildings(true, false, true, true), CoreIndex: 0}
	r := Resolve(rep, loot.For(10))
	if r.Stars != 0 || !r.Loot.IsZero() || r.Outcome != Lose {
		t.Fatalf("期望 0 星不掠夺，got=%+v", r)
	}
}

func TestResolve_全拆三星拿满(t *testing.T) {
	rep := battle.Report{Buildings: buildings(false, false), CoreIndex: 0}
	est := loot.For(2)
	r := Resolve(rep, est)
	if r.Stars != 3 || r.Loot != (loot.Amount{Gold: est.Gold.Max, Wood: est.Wood.Max, Stone: est.Stone.Max}) {
		t.Fatalf("期望 3 星拿满，got=%+v", r)
	}
}

func TestResolve_按兵种统计损失(t *testing.T) {
	dead := func(id string, alive bool) battle.Attacker {
		return battle.Attacker{Fighter: battle.Fighter{Base: battle.Base{Alive: alive}, TroopID: id}}
	}
	rep := battle.Report{
		Buildings: buildings(true),
		Attackers: []battle.Attacker{dead("warrior", false), dead("warrior", false), dead("archer", true), dead("giant", false)},
	}
	want := map[string]int{"warrior": 2, "giant": 1}
	if got := Resolve(rep, loot.For(1)).TroopLosses; !reflect.DeepEqual(got, want) {
		t.Fatalf("期望 %v，got=%v", want, got)
	}
}
