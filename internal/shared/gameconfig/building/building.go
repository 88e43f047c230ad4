package building

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed buildings.yml
var defaultTable []byte

type Category string

const (
	CategoryCore     Category = "core"
	CategoryDefense  Category = "defense"
	CategoryWall     Category = "wall"
	CategoryResource Category = "resource"
	CategoryMilitary Category = "military"
)

const (
	SpecialNone         = "none"
	SpecialSnipeHighest = "snipe_highest"
	SpecialChain        = "chain"
)

// Level 是防御塔的一级数据。
type Level struct {
	HP            int     `yaml:"hp" json:"hp"`
	Damage        int     `yaml:"damage" json:"damage"`
	FireRateTicks int     `yaml:"fire_rate_ticks" json:"fire_rate_ticks"`
	Range         float64 `yaml:"range" json:"range"`
}

type Building struct {
	ID               string   `yaml:"id" json:"id"`
	Name             string   `yaml:"name" json:"name"`
	Category         Category `yaml:"category" json:"category"`
	Size             int      `yaml:"size" json:"size"`
	MaxLevel         int      `yaml:"max_level" json:"max_level"`
	UnlockDifficulty int      `yaml:"unlock_difficulty" json:"unlock_difficulty"`
	SplashRadius     float64  `yaml:"splash_radius" json:"splash_radius"`
	Special          string   `yaml:"special" json:"special"`
	ProjectileColor  string   `yaml:"projectile_color" json:"projectile_color"`
	ChainColor       string   `yaml:"chain_color" json:"chain_color"`
	Levels           []Level  `yaml:"levels" json:"levels"`
	CoreHP           []int    `yaml:"core_hp" json:"core_hp"`
}

// ClampLevel 把等级压到 [1, MaxLevel]。
func (b Building) ClampLevel(level int) int {
	return min(max(level, 1), max(b.MaxLevel, 1))
}

// HP 按类别取血量：防御塔查等级表，主堡查固定血量表，其余 100+level*20。
func (b Building) HP(level int) int {
	level = b.ClampLevel(level)
	switch b.Category {
	case CategoryDefense:
		if len(b.Levels) >= level {
			return b.Levels[level-1].HP
		}
	case CategoryCore:
		if len(b.CoreHP) >= level {
			return b.CoreHP[level-1]
		}
	}
	return 100 + level*20
}

// Weapon 返回防御塔在该等级的武器数据。
func (b Building) Weapon(level int) (Level, bool) {
	if b.Category != CategoryDefense || len(b.Levels) == 0 {
		return Level{}, false
	}
	level = min(b.ClampLevel(level), len(b.Levels))
	return b.Levels[level-1], true
}

type file struct {
	Buildings []Building `yaml:"buildings"`
}

// Table 只读建筑表。
type Table struct {
	byID map[string]Building
	core Building
	// 按类别分组，组内按 (unlock_difficulty, id) 排序
	byCategory map[Category][]Building
}

func Load() (*Table, error) {
	return Parse(defaultTable)
}

func MustLoad() *Table {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

func Parse(data []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse building table: %w", err)
	}
	t := &Table{
		byID:       make(map[string]Building, len(f.Buildings)),
		byCategory: make(map[Category][]Building),
	}
	cores := 0
	for _, b := range f.Buildings {
		if err := validate(b); err != nil {
			return nil, err
		}
		if _, dup := t.byID[b.ID]; dup {
			return nil, fmt.Errorf("building table: duplicate id %q", b.ID)
		}
		if b.Special == "" {
			b.Special = SpecialNone
		}
		t.byID[b.ID] = b
		t.byCategory[b.Category] = append(t.byCategory[b.Category], b)
		if b.Category == CategoryCore {
			t.core = b
			cores++
		}
	}
	if cores != 1 {
		return nil, fmt.Errorf("building table: want exactly one core building, got %d", cores)
	}
	for _, list := range t.byCategory {
		sort.Slice(list, func(i, j int) bool {
			if list[i].UnlockDifficulty != list[j].UnlockDifficulty {
				return list[i].UnlockDifficulty < list[j].UnlockDifficulty
			}
			return list[i].ID < list[j].ID
		})
	}
	return t, nil
}

func validate(b Building) error {
	if b.ID == "" {
		return fmt.Errorf("building table: empty id")
	}
	if b.Size <= 0 || b.MaxLevel <= 0 {
		return fmt.Errorf("building table: %q has non-positive size/max_level", b.ID)
	}
	switch b.Category {
	case CategoryCore, CategoryWall, CategoryResource, CategoryMilitary:
	case CategoryDefense:
		if len(b.Levels) == 0 {
			return fmt.Errorf("building table: defense %q has no levels", b.ID)
		}
	default:
		return fmt.Errorf("building table: %q has unknown category %q", b.ID, b.Category)
	}
	switch b.Special {
	case "", SpecialNone, SpecialSnipeHighest, SpecialChain:
	default:
		return fmt.Errorf("building table: %q has unknown special %q", b.ID, b.Special)
	}
	return nil
}

func (t *Table) Get(id string) (Building, bool) {
	b, ok := t.byID[id]
	return b, ok
}

func (t *Table) Core() Building {
	return t.core
}

func (t *Table) ByCategory(c Category) []Building {
	return append([]Building(nil), t.byCategory[c]...)
}

// DefensePool 返回该难度已解锁的防御塔。
func (t *Table) DefensePool(difficulty int) []Building {
	var out []Building
	for _, b := range t.byCategory[CategoryDefense] {
		if b.UnlockDifficulty <= difficulty {
			out = append(out, b)
		}
	}
	return out
}
