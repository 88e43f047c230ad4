package battle

import "math"

// Role 区分战斗实体的四种角色。
type Role uint8

const (
	RoleAttacker Role = iota + 1
	RoleDefender
	RoleStructure
	RoleBuilding
)

func (r Role) String() string {
	switch r {
	case RoleAttacker:
		return "attacker"
	case RoleDefender:
		return "defender"
	case RoleStructure:
		return "structure"
	case RoleBuilding:
		return "building"
	default:
		return "unknown"
	}
}

// SpecialMode 防御塔的特殊索敌/伤害方式。
type SpecialMode uint8

const (
	ModeNone SpecialMode = iota
	ModeSnipeHighest
	ModeChain
)

// ParseMode 把配置里的 special 字符串转成 SpecialMode，未知值按 none 处理。
func ParseMode(s string) SpecialMode {
	switch s {
	case "snipe_highest":
		return ModeSnipeHighest
	case "chain":
		return ModeChain
	default:
		return ModeNone
	}
}

type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec) Dist(o Vec) float64 {
	return math.Hypot(o.X-v.X, o.Y-v.Y)
}

// Toward 朝 o 直线移动 step，不会越过 o。
func (v Vec) Toward(o Vec, step float64) Vec {
	d := v.Dist(o)
	if d <= step || d == 0 {
		return o
	}
	k := step / d
	return Vec{X: v.X + (o.X-v.X)*k, Y: v.Y + (o.Y-v.Y)*k}
}

// Entity 是封闭的角色联合，只有本包的四种类型实现它。
type Entity interface {
	Role() Role
	sealed()
}

// Base 是可被攻击实体的公共字段。
type Base struct {
	ID    string
	Pos   Vec
	HP    int
	MaxHP int
	Alive bool
}

// Fighter 是会移动的兵（进攻方和防守方）共用的字段。
// Target 是对方集合里的下标，-1 表示没有目标。
type Fighter struct {
	Base
	TroopID  string
	Icon     string
	Atk      int
	Speed    float64
	Range    float64
	Cooldown int
	Target   int
}

type Attacker struct{ Fighter }

type Defender struct{ Fighter }

// Structure 是带武器的建筑，存活与否取决于 Building 下标指向的建筑。
type Structure struct {
	ID         string
	Pos        Vec
	Building   int
	TypeID     string
	Damage     int
	Range      float64
	FireRate   int
	Splash     float64
	Mode       SpecialMode
	Color      string
	ChainColor string
	Cooldown   int
}

type Building struct {
	Base
	Index  int
	TypeID string
	IsCore bool
}

func (*Attacker) Role() Role  { return RoleAttacker }
func (*Defender) Role() Role  { return RoleDefender }
func (*Structure) Role() Role { return RoleStructure }
func (*Building) Role() Role  { return RoleBuilding }

func (*Attacker) sealed()  {}
func (*Defender) sealed()  {}
func (*Structure) sealed() {}
func (*Building) sealed()  {}

// damage 扣血并在归零时标记死亡，返回这次是否打死。
func (b *Base) damage(n int) bool {
	if !b.Alive {
		return false
	}
	b.HP = max(b.HP-n, 0)
	if b.HP == 0 {
		b.Alive = false
		return true
	}
	return false
}
