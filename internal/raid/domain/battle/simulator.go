// Package battle 是逐帧推进的战斗模拟器。
//
// Simulate 是纯函数：复制入参后在自己的工作集上推进，不做 I/O，不读全局状态，
// 同一份 Input 永远得到同一份 Report。
package battle

import "math"

const (
	TicksPerSecond = 20
	// MaxTicks 两分钟模拟时间
	MaxTicks = 2400
	// UnitCooldown 兵的攻击间隔（帧）
	UnitCooldown = 3
	// SpeedScale 把兵种 speed 换算成每帧位移
	SpeedScale = 0.15

	ChainHops   = 2
	ChainRange  = 3.0
	ChainFactor = 0.5
	// SplashFalloff 溅射半径边缘处的伤害衰减比例
	SplashFalloff = 0.5
)

type Input struct {
	Attackers  []Attacker
	Defenders  []Defender
	Structures []Structure
	Buildings  []Building
	// CoreIndex 是主堡在 Buildings 中的下标，-1 表示没有主堡
	CoreIndex int
}

// Report 是模拟结束时的全部产物：帧日志加上各实体的最终状态。
type Report struct {
	Ticks     []TickEvent `json:"ticks"`
	Attackers []Attacker  `json:"-"`
	Defenders []Defender  `json:"-"`
	Buildings []Building  `json:"-"`
	CoreIndex int         `json:"core_index"`
}

// Destroyed 返回被摧毁的建筑数和建筑总数。
func (r *Report) Destroyed() (destroyed, total int) {
	for _, b := range r.Buildings {
		if !b.Alive {
			destroyed++
		}
	}
	return destroyed, len(r.Buildings)
}

func (r *Report) CoreDestroyed() bool {
	if r.CoreIndex < 0 || r.CoreIndex >= len(r.Buildings) {
		return false
	}
	return !r.Buildings[r.CoreIndex].Alive
}

// Losses 按兵种统计阵亡的进攻兵。
func (r *Report) Losses() map[string]int {
	out := make(map[string]int)
	for _, a := range r.Attackers {
		if !a.Alive {
			out[a.TroopID]++
		}
	}
	return out
}

type options struct {
	maxTicks int
}

type Option func(*options)

// WithMaxTicks 调低帧数上限，只接受 (0, MaxTicks]。
func WithMaxTicks(n int) Option {
	return func(o *options) {
		if n > 0 && n <= MaxTicks {
			o.maxTicks = n
		}
	}
}

type sim struct {
	attackers  []Attacker
	defenders  []Defender
	structures []Structure
	buildings  []Building
}

// Simulate 一次性跑完整场战斗。每帧开始前检查结束条件：
// 没有存活的进攻兵、没有存活的建筑，或达到帧数上限。
func Simulate(in Input, opts ...Option) Report {
	o := options{maxTicks: MaxTicks}
	for _, fn := range opts {
		fn(&o)
	}

	s := &sim{
		attackers:  append([]Attacker(nil), in.Attackers...),
		defenders:  append([]Defender(nil), in.Defenders...),
		structures: append([]Structure(nil), in.Structures...),
		buildings:  append([]Building(nil), in.Buildings...),
	}

	var ticks []TickEvent
	for tick := 0; tick < o.maxTicks; tick++ {
		if !s.anyAttacker() || !s.anyBuilding() {
			break
		}
		ev := TickEvent{Tick: tick}
		s.attackerPhase(&ev)
		s.defenderPhase(&ev)
		s.structurePhase(&ev)
		s.record(&ev)
		ticks = append(ticks, ev)
	}

	return Report{
		Ticks:     ticks,
		Attackers: s.attackers,
		Defenders: s.defenders,
		Buildings: s.buildings,
		CoreIndex: in.CoreIndex,
	}
}

func (s *sim) anyAttacker() bool {
	for i := range s.attackers {
		if s.attackers[i].Alive {
			return true
		}
	}
	return false
}

func (s *sim) anyBuilding() bool {
	for i := range s.buildings {
		if s.buildings[i].Alive {
			return true
		}
	}
	return false
}

// attackerPhase 进攻兵只打建筑（城墙也算），找最近的存活建筑，够不着就走，够得着就打。
func (s *sim) attackerPhase(ev *TickEvent) {
	for i := range s.attackers {
		a := &s.attackers[i]
		if !a.Alive {
			continue
		}
		a.Target = s.nearestBuilding(a.Pos)
		if a.Target >= 0 {
			b := &s.buildings[a.Target]
			s.engage(ev, &a.Fighter, b, &b.Base)
		}
		a.Cooldown = max(a.Cooldown-1, 0)
	}
}

// defenderPhase 防守兵只打进攻兵，防守兵本身不会被打。
func (s *sim) defenderPhase(ev *TickEvent) {
	for i := range s.defenders {
		d := &s.defenders[i]
		if !d.Alive {
			continue
		}
		d.Target = s.nearestAttacker(d.Pos, math.Inf(1), nil)
		if d.Target >= 0 {
			a := &s.attackers[d.Target]
			s.engage(ev, &d.Fighter, a, &a.Base)
		}
		d.Cooldown = max(d.Cooldown-1, 0)
	}
}

// engage 一帧内要么移动要么攻击。
func (s *sim) engage(ev *TickEvent, f *Fighter, target Entity, tb *Base) {
	if f.Pos.Dist(tb.Pos) > f.Range {
		f.Pos = f.Pos.Toward(tb.Pos, f.Speed*SpeedScale)
		return
	}
	if f.Cooldown > 0 {
		return
	}
	s.hit(ev, f.ID, target, tb, f.Atk, attackKind(f.Range))
	f.Cooldown = UnitCooldown
}

// structurePhase 防御塔冷却好了才索敌；射程内没有目标就不开火，冷却保持不变。
func (s *sim) structurePhase(ev *TickEvent) {
	for i := range s.structures {
		st := &s.structures[i]
		if !s.structureAlive(st) {
			continue
		}
		if st.Cooldown <= 0 {
			if t := s.pickTarget(st); t >= 0 {
				s.fire(ev, st, t)
				st.Cooldown = st.FireRate
			}
		}
		st.Cooldown = max(st.Cooldown-1, 0)
	}
}

func (s *sim) structureAlive(st *Structure) bool {
	if st.Building < 0 || st.Building >= len(s.buildings) {
		return false
	}
	return s.buildings[st.Building].Alive
}

func (s *sim) pickTarget(st *Structure) int {
	if st.Mode != ModeSnipeHighest {
		return s.nearestAttacker(st.Pos, st.Range, nil)
	}
	best, bestHP := -1, 0
	for i := range s.attackers {
		a := &s.attackers[i]
		if !a.Alive || st.Pos.Dist(a.Pos) > st.Range {
			continue
		}
		if best < 0 || a.HP > bestHP {
			best, bestHP = i, a.HP
		}
	}
	return best
}

func (s *sim) fire(ev *TickEvent, st *Structure, target int) {
	primary := &s.attackers[target]
	ev.Projectiles = append(ev.Projectiles, projectile(st.ID, st.Pos, primary.ID, primary.Pos, st.Color, false))

	if st.Splash > 0 {
		center := primary.Pos
		for i := range s.attackers {
			a := &s.attackers[i]
			if !a.Alive {
				continue
			}
			d := a.Pos.Dist(center)
			if d > st.Splash {
				continue
			}
			dmg := int(math.Floor(float64(st.Damage) * (1 - (d/st.Splash)*SplashFalloff)))
			s.hit(ev, st.ID, a, &a.Base, dmg, KindSplash)
		}
	} else {
		s.hit(ev, st.ID, primary, &primary.Base, st.Damage, attackKind(st.Range))
	}

	if st.Mode == ModeChain {
		s.chain(ev, st, target)
	}
}

// chain 从上一跳出发找 ChainRange 内最近的、本次还没被打过的存活进攻兵，找不到就提前结束。
func (s *sim) chain(ev *TickEvent, st *Structure, first int) {
	touched := map[int]bool{first: true}
	prev := first
	dmg := int(math.Floor(float64(st.Damage) * ChainFactor))
	for hop := 0; hop < ChainHops; hop++ {
		from := &s.attackers[prev]
		next := s.nearestAttacker(from.Pos, ChainRange, touched)
		if next < 0 {
			return
		}
		to := &s.attackers[next]
		ev.Projectiles = append(ev.Projectiles, projectile(from.ID, from.Pos, to.ID, to.Pos, st.ChainColor, true))
		s.hit(ev, st.ID, to, &to.Base, dmg, KindChain)
		touched[next] = true
		prev = next
	}
}

// hit 结算一次伤害：记攻击事件，打死则记死亡事件。
func (s *sim) hit(ev *TickEvent, from string, target Entity, tb *Base, dmg int, kind string) {
	if !tb.Alive {
		return
	}
	killed := tb.damage(dmg)
	ev.Attacks = append(ev.Attacks, Attack{From: from, To: tb.ID, Damage: dmg, Kind: kind})
	if killed {
		ev.Deaths = append(ev.Deaths, Death{ID: tb.ID, Type: deathType(target)})
	}
}

// nearestBuilding 距离相同取先遍历到的。
func (s *sim) nearestBuilding(p Vec) int {
	best, bestD := -1, math.Inf(1)
	for i := range s.buildings {
		b := &s.buildings[i]
		if !b.Alive {
			continue
		}
		if d := p.Dist(b.Pos); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// nearestAttacker 在 reach 范围内找最近的存活进攻兵，skip 里的下标跳过。
func (s *sim) nearestAttacker(p Vec, reach float64, skip map[int]bool) int {
	best, bestD := -1, math.Inf(1)
	for i := range s.attackers {
		a := &s.attackers[i]
		if !a.Alive || skip[i] {
			continue
		}
		d := p.Dist(a.Pos)
		if d > reach {
			continue
		}
		if d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// record 帧末为所有存活的兵记位置。
func (s *sim) record(ev *TickEvent) {
	for i := range s.attackers {
		if p, ok := snapshot(&s.attackers[i]); ok {
			ev.Positions = append(ev.Positions, p)
		}
	}
	for i := range s.defenders {
		if p, ok := snapshot(&s.defenders[i]); ok {
			ev.Positions = append(ev.Positions, p)
		}
	}
}

func projectile(from string, fp Vec, to string, tp Vec, color string, chain bool) Projectile {
	return Projectile{
		From:  from,
		To:    to,
		FromX: fp.X,
		FromY: fp.Y,
		ToX:   tp.X,
		ToY:   tp.Y,
		Color: color,
		Chain: chain,
	}
}
