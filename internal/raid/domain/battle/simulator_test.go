package battle

import (
	"math/rand"
	"reflect"
	"testing"

	"VillageRaid/internal/raid/domain/deploy"
	"VillageRaid/internal/raid/domain/village"
	"VillageRaid/internal/shared/gameconfig/building"
	"VillageRaid/internal/shared/gameconfig/troop"
)

func attacker(id string, x, y float64, hp, atk int) Attacker {
	return Attacker{Fighter: Fighter{
		Base:    Base{ID: id, Pos: Vec{X: x, Y: y}, HP: hp, MaxHP: hp, Alive: true},
		TroopID: "warrior",
		Atk:     atk,
		Range:   1,
		Target:  -1,
	}}
}

func target(id string, x, y float64, hp int) Building {
	return Building{Base: Base{ID: id, Pos: Vec{X: x, Y: y}, HP: hp, MaxHP: hp, Alive: true}}
}

// tower 放在 (5,5)，脚下是一座打不掉的建筑。
func tower(damage int, rng, splash float64, mode SpecialMode) ([]Structure, []Building) {
	st := Structure{
		ID:         "b0",
		Pos:        Vec{X: 5, Y: 5},
		Building:   0,
		Damage:     damage,
		Range:      rng,
		FireRate:   10,
		Splash:     splash,
		Mode:       mode,
		Color:      "#fff",
		ChainColor: "#b388ff",
	}
	return []Structure{st}, []Building{target("b0", 5, 5, 1_000_000)}
}

func TestSimulate_没有进攻兵时零帧结束(t *testing.T) {
	rep := Simulate(Input{Buildings: []Building{target("b0", 5, 5, 100)}, CoreIndex: 0})
	if len(rep.Ticks) != 0 {
		t.Fatalf("期望 0 帧，got=%d", len(rep.Ticks))
	}
	if d, total := rep.Destroyed(); d != 0 || total != 1 || rep.CoreDestroyed() {
		t.Fatalf("期望无破坏，d=%d total=%d", d, total)
	}
}

func TestSimulate_高攻击兵几帧内拆掉主堡(t *testing.T) {
	in := Input{
		Attackers: []Attacker{attacker("a0", 10.5, 11.5, 1000, 1000)},
		Buildings: []Building{target("b0", 11.5, 11.5, 50)},
		CoreIndex: 0,
	}
	rep := Simulate(in)
	if len(rep.Ticks) != 1 {
		t.Fatalf("期望 1 帧打掉主堡后结束，got=%d", len(rep.Ticks))
	}
	if !rep.CoreDestroyed() || rep.Buildings[0].HP != 0 {
		t.Fatalf("期望主堡被摧毁且血量归零，hp=%d", rep.Buildings[0].HP)
	}
	ev := rep.Ticks[0]
	if len(ev.Deaths) != 1 || ev.Deaths[0] != (Death{ID: "b0", Type: DeathBuilding}) {
		t.Fatalf("期望一条 building 死亡事件，got=%v", ev.Deaths)
	}
	if len(ev.Attacks) != 1 || ev.Attacks[0].Kind != KindMelee || ev.Attacks[0].Damage != 1000 {
		t.Fatalf("期望一次近战攻击，got=%v", ev.Attacks)
	}
	if in.Buildings[0].HP != 50 || !in.Buildings[0].Alive {
		t.Fatalf("期望 Simulate 不修改入参")
	}
}

func TestSimulate_远处的兵先走再打(t *testing.T) {
	a := attacker("a0", 0.5, 0.5, 1000, 1000)
	a.Speed = 1
	rep := Simulate(Input{
		Attackers: []Attacker{a},
		Buildings: []Building{target("b0", 11.5, 11.5, 50)},
	})
	if rep.Buildings[0].Alive {
		t.Fatalf("期望最终拆掉建筑")
	}
	// 对角距离约 15.56，每帧走 0.15，走 98 帧进射程，第 99 帧出手
	if n := len(rep.Ticks); n != 99 {
		t.Fatalf("期望 99 帧，got=%d", n)
	}
	first, last := rep.Ticks[0].Positions[0], rep.Ticks[1].Positions[0]
	step := Vec{X: first.X, Y: first.Y}.Dist(Vec{X: last.X, Y: last.Y})
	if step < 0.1499 || step > 0.1501 {
		t.Fatalf("期望每帧位移 0.15，got=%v", step)
	}
	for _, ev := range rep.Ticks[:len(rep.Ticks)-1] {
		if len(ev.Attacks) != 0 {
			t.Fatalf("期望走到射程内之前不出手，tick=%d", ev.Tick)
		}
	}
}

func TestSimulate_兵每三帧出手一次(t *testing.T) {
	rep := Simulate(Input{
		Attackers: []Attacker{attacker("a0", 10, 10, 100, 1)},
		Buildings: []Building{target("b0", 10.5, 10, 100)},
	}, WithMaxTicks(7))
	var fired []int
	for _, ev := range rep.Ticks {
		if len(ev.Attacks) > 0 {
			fired = append(fired, ev.Tick)
		}
	}
	if !reflect.DeepEqual(fired, []int{0, 3, 6}) {
		t.Fatalf("期望在第 0/3/6 帧出手，got=%v", fired)
	}
}

func TestSimulate_达到帧数上限后停止(t *testing.T) {
	rep := Simulate(Input{
		Attackers: []Attacker{attacker("a0", 10, 10, 100, 0)},
		Buildings: []Building{target("b0", 10.5, 10, 100)},
	})
	if len(rep.Ticks) != MaxTicks {
		t.Fatalf("期望正好 %d 帧，got=%d", MaxTicks, len(rep.Ticks))
	}
	if rep.Ticks[len(rep.Ticks)-1].Tick != MaxTicks-1 {
		t.Fatalf("期望帧号连续")
	}
}

func TestSimulate_溅射按距离线性衰减(t *testing.T) {
	sts, bs := tower(50, 10, 2, ModeNone)
	in := Input{
		Attackers: []Attacker{
			attacker("a0", 10, 10, 500, 0),
			attacker("a1", 11, 10, 500, 0),
			attacker("a2", 10, 11.5, 500, 0),
			attacker("a3", 13, 10, 500, 0),
		},
		Structures: sts,
		Buildings:  bs,
	}
	rep := Simulate(in, WithMaxTicks(1))
	got := rep.Ticks[0].Attacks
	want := []Attack{
		{From: "b0", To: "a0", Damage: 50, Kind: KindSplash},
		{From: "b0", To: "a1", Damage: 37, Kind: KindSplash},
		{From: "b0", To: "a2", Damage: 31, Kind: KindSplash},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("期望溅射伤害 %v，got=%v", want, got)
	}
	if rep.Attackers[3].HP != 500 {
		t.Fatalf("期望半径外的兵不受伤")
	}
	if len(rep.Ticks[0].Projectiles) != 1 {
		t.Fatalf("期望一次开火一发弹道")
	}
}

func TestSimulate_连锁附近没人时只打一下(t *testing.T) {
	sts, bs := tower(40, 10, 0, ModeChain)
	rep := Simulate(Input{
		Attackers: []Attacker{
			attacker("a0", 10, 10, 500, 0),
			attacker("a1", 13.5, 10, 500, 0),
		},
		Structures: sts,
		Buildings:  bs,
	}, WithMaxTicks(1))
	ev := rep.Ticks[0]
	if len(ev.Attacks) != 1 || ev.Attacks[0].To != "a0" || ev.Attacks[0].Damage != 40 {
		t.Fatalf("期望只命中主目标一次，got=%v", ev.Attacks)
	}
	for _, p := range ev.Projectiles {
		if p.Chain {
			t.Fatalf("期望没有连锁弹道，got=%v", ev.Projectiles)
		}
	}
}

func TestSimulate_连锁最多跳两次且不重复命中(t *testing.T) {
	sts, bs := tower(40, 10, 0, ModeChain)
	rep := Simulate(Input{
		Attackers: []Attacker{
			attacker("a0", 10, 10, 500, 0),
			attacker("a1", 11, 10, 500, 0),
			attacker("a2", 12.5, 10, 500, 0),
			attacker("a3", 13.5, 10, 500, 0),
		},
		Structures: sts,
		Buildings:  bs,
	}, WithMaxTicks(1))
	ev := rep.Ticks[0]
	want := []Attack{
		{From: "b0", To: "a0", Damage: 40, Kind: KindRanged},
		{From: "b0", To: "a1", Damage: 20, Kind: KindChain},
		{From: "b0", To: "a2", Damage: 20, Kind: KindChain},
	}
	if !reflect.DeepEqual(ev.Attacks, want) {
		t.Fatalf("期望 %v，got=%v", want, ev.Attacks)
	}
	if len(ev.Projectiles) != 3 {
		t.Fatalf("期望 1 发主弹道加 2 发连锁，got=%d", len(ev.Projectiles))
	}
	hop := ev.Projectiles[2]
	if !hop.Chain || hop.From != "a1" || hop.To != "a2" || hop.Color != "#b388ff" {
		t.Fatalf("期望第二跳从 a1 到 a2 且用连锁颜色，got=%+v", hop)
	}
}

func TestSimulate_狙击塔打血最多的(t *testing.T) {
	sts, bs := tower(10, 10, 0, ModeSnipeHighest)
	rep := Simulate(Input{
		Attackers: []Attacker{
			attacker("a0", 6, 6, 100, 0),
			attacker("a1", 9, 9, 300, 0),
			attacker("a2", 10, 10, 300, 0),
			attacker("a3", 30, 30, 900, 0),
		},
		Structures: sts,
		Buildings:  bs,
	}, WithMaxTicks(1))
	if got := rep.Ticks[0].Attacks[0].To; got != "a1" {
		t.Fatalf("期望射程内血最多且先遍历到的 a1，got=%s", got)
	}
}

func TestSimulate_防御塔按射速开火(t *testing.T) {
	sts, bs := tower(1, 10, 0, ModeNone)
	sts[0].FireRate = 4
	rep := Simulate(Input{
		Attackers:  []Attacker{attacker("a0", 6, 6, 1000, 0)},
		Structures: sts,
		Buildings:  bs,
	}, WithMaxTicks(9))
	var fired []int
	for _, ev := range rep.Ticks {
		if len(ev.Projectiles) > 0 {
			fired = append(fired, ev.Tick)
		}
	}
	if !reflect.DeepEqual(fired, []int{0, 4, 8}) {
		t.Fatalf("期望在第 0/4/8 帧开火，got=%v", fired)
	}
}

func TestSimulate_建筑被拆后防御塔停火(t *testing.T) {
	sts, _ := tower(1, 10, 0, ModeNone)
	bs := []Building{target("b0", 5, 5, 1), target("b1", 20, 20, 1000)}
	a := attacker("a0", 5.5, 5, 1000, 10)
	rep := Simulate(Input{Attackers: []Attacker{a}, Structures: sts, Buildings: bs}, WithMaxTicks(5))
	if rep.Buildings[0].Alive {
		t.Fatalf("期望塔下建筑第 0 帧被拆")
	}
	for _, ev := range rep.Ticks {
		if len(ev.Projectiles) > 0 {
			t.Fatalf("期望建筑先于防御塔阶段被拆，塔不再开火，tick=%d", ev.Tick)
		}
	}
}

func TestSimulate_防守兵打死进攻兵(t *testing.T) {
	d := Defender{Fighter: Fighter{
		Base:    Base{ID: "d0", Pos: Vec{X: 10, Y: 10}, HP: 50, MaxHP: 50, Alive: true},
		TroopID: "archer",
		Atk:     1000,
		Range:   3.5,
		Target:  -1,
	}}
	rep := Simulate(Input{
		Attackers: []Attacker{attacker("a0", 12, 10, 10, 0)},
		Defenders: []Defender{d},
		Buildings: []Building{target("b0", 20, 20, 100)},
	})
	if len(rep.Ticks) != 1 {
		t.Fatalf("期望进攻兵全灭后结束，got=%d 帧", len(rep.Ticks))
	}
	ev := rep.Ticks[0]
	if len(ev.Deaths) != 1 || ev.Deaths[0].Type != DeathTroop {
		t.Fatalf("期望一条 troop 死亡事件，got=%v", ev.Deaths)
	}
	if ev.Attacks[0].Kind != KindRanged {
		t.Fatalf("期望射程 3.5 记为 ranged，got=%s", ev.Attacks[0].Kind)
	}
	if len(ev.Positions) != 1 || ev.Positions[0].ID != "d0" || ev.Positions[0].Type != "defender" {
		t.Fatalf("期望快照只剩存活的防守兵，got=%v", ev.Positions)
	}
	if got := rep.Losses(); !reflect.DeepEqual(got, map[string]int{"warrior": 1}) {
		t.Fatalf("期望损失 warrior=1，got=%v", got)
	}
}

func TestSetup_由村庄和部署构造战斗(t *testing.T) {
	troops, buildings := troop.MustLoad(), building.MustLoad()
	v := village.NewGenerator(troops, buildings).Generate(6, rand.New(rand.NewSource(11)))
	units := []deploy.Unit{{TroopID: "warrior", X: 0, Y: 0}, {TroopID: "ghost", X: 1, Y: 1}, {TroopID: "archer", X: 23, Y: 22}}

	in := Setup(v, units, troops, buildings, rand.New(rand.NewSource(1)))
	if len(in.Buildings) != len(v.Buildings) || in.CoreIndex != v.CoreIndex {
		t.Fatalf("期望建筑一一对应，got=%d core=%d", len(in.Buildings), in.CoreIndex)
	}
	if !in.Buildings[in.CoreIndex].IsCore {
		t.Fatalf("期望主堡标记 IsCore")
	}
	if len(in.Structures) != v.CountByCategory(building.CategoryDefense) {
		t.Fatalf("期望每座防御建筑一个武器实体，got=%d", len(in.Structures))
	}
	for _, st := range in.Structures {
		if in.Buildings[st.Building].ID != st.ID || st.FireRate < 1 || st.Damage <= 0 {
			t.Fatalf("武器实体数据异常 %+v", st)
		}
	}
	if len(in.Attackers) != 2 || in.Attackers[1].Pos != (Vec{X: 23.5, Y: 22.5}) {
		t.Fatalf("期望跳过未知兵种并以格子中心落点，got=%+v", in.Attackers)
	}
	core := in.Buildings[in.CoreIndex].Pos
	if len(in.Defenders) != len(v.Defenders) {
		t.Fatalf("期望防守兵数量一致")
	}
	for _, d := range in.Defenders {
		if d.Pos.X < core.X-2 || d.Pos.X > core.X+2 || d.Pos.Y < core.Y-2 || d.Pos.Y > core.Y+2 {
			t.Fatalf("期望防守兵在主堡 ±2 范围内，got=%+v", d.Pos)
		}
	}
}

func TestSimulate_同一输入结果一致且帧数有上限(t *testing.T) {
	troops, buildings := troop.MustLoad(), building.MustLoad()
	for d := village.MinDifficulty; d <= village.MaxDifficulty; d++ {
		v := village.NewGenerator(troops, buildings).Generate(d, rand.New(rand.NewSource(int64(d))))
		var units []deploy.Unit
		for i, id := range []string{"warrior", "archer", "giant", "wizard", "dragon"} {
			units = append(units, deploy.Unit{TroopID: id, X: i, Y: 0}, deploy.Unit{TroopID: id, X: 23, Y: 20 - i})
		}
		in := Setup(v, units, troops, buildings, rand.New(rand.NewSource(5)))

		a, b := Simulate(in), Simulate(in)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("d=%d 期望同一输入结果一致", d)
		}
		if len(a.Ticks) > MaxTicks {
			t.Fatalf("d=%d 帧数超上限 %d", d, len(a.Ticks))
		}
		destroyed, total := a.Destroyed()
		if destroyed < 0 || destroyed > total {
			t.Fatalf("d=%d 摧毁数异常 %d/%d", d, destroyed, total)
		}
		for _, ev := range a.Ticks {
			for _, p := range ev.Positions {
				if p.HP <= 0 {
					t.Fatalf("d=%d 快照里出现死亡实体 %+v", d, p)
				}
			}
		}
	}
}
