package battle

const (
	KindMelee  = "melee"
	KindRanged = "ranged"
	KindSplash = "splash"
	KindChain  = "chain"

	DeathBuilding = "building"
	DeathTroop    = "troop"

	// 超过这个射程的普通攻击记为 ranged
	meleeReach = 1.5
)

// TickEvent 是一帧的只读记录，渲染端只靠它就能还原整场战斗。
type TickEvent struct {
	Tick        int          `json:"tick"`
	Positions   []Position   `json:"positions"`
	Attacks     []Attack     `json:"attacks,omitempty"`
	Deaths      []Death      `json:"deaths,omitempty"`
	Projectiles []Projectile `json:"projectiles,omitempty"`
}

type Position struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	HP    int     `json:"hp"`
	MaxHP int     `json:"max_hp"`
	Type  string  `json:"type"`
	Icon  string  `json:"icon"`
}

type Attack struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Damage int    `json:"damage"`
	Kind   string `json:"kind"`
}

type Death struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type Projectile struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	FromX float64 `json:"from_x"`
	FromY float64 `json:"from_y"`
	ToX   float64 `json:"to_x"`
	ToY   float64 `json:"to_y"`
	Color string  `json:"color"`
	Chain bool    `json:"chain,omitempty"`
}

func attackKind(reach float64) string {
	if reach > meleeReach {
		return KindRanged
	}
	return KindMelee
}

// snapshot 只给会移动的兵出位置，建筑和防御塔不动，不进快照。
func snapshot(e Entity) (Position, bool) {
	var f *Fighter
	switch v := e.(type) {
	case *Attacker:
		f = &v.Fighter
	case *Defender:
		f = &v.Fighter
	case *Structure, *Building:
		return Position{}, false
	default:
		return Position{}, false
	}
	if !f.Alive {
		return Position{}, false
	}
	return Position{
		ID:    f.ID,
		X:     f.Pos.X,
		Y:     f.Pos.Y,
		HP:    f.HP,
		MaxHP: f.MaxHP,
		Type:  e.Role().String(),
		Icon:  f.Icon,
	}, true
}

// deathType 建筑死亡记 building，兵死亡记 troop。
func deathType(e Entity) string {
	switch e.(type) {
	case *Building, *Structure:
		return DeathBuilding
	default:
		return DeathTroop
	}
}
