package troop

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed troops.yml
var defaultTable []byte

type Troop struct {
	ID      string  `yaml:"id" json:"id"`
	Name    string  `yaml:"name" json:"name"`
	Tier    int     `yaml:"tier" json:"tier"`
	HP      int     `yaml:"hp" json:"hp"`
	Atk     int     `yaml:"atk" json:"atk"`
	Speed   float64 `yaml:"speed" json:"speed"`
	Range   float64 `yaml:"range" json:"range"`
	Housing int     `yaml:"housing" json:"housing"`
	Icon    string  `yaml:"icon" json:"icon"`
}

type file struct {
	HousingCapacity int     `yaml:"housing_capacity"`
	Troops          []Troop `yaml:"troops"`
}

// Table 是只读兵种表，按 id 排序保存，遍历顺序稳定。
type Table struct {
	housingCapacity int
	ordered         []Troop
	byID            map[string]Troop
}

// Load 解析内置兵种表。
func Load() (*Table, error) {
	return Parse(defaultTable)
}

// MustLoad 内置表解析失败说明打包有问题，直接 panic。
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
		return nil, fmt.Errorf("parse troop table: %w", err)
	}
	t := &Table{
		housingCapacity: f.HousingCapacity,
		byID:            make(map[string]Troop, len(f.Troops)),
	}
	for _, tr := range f.Troops {
		if tr.ID == "" {
			return nil, fmt.Errorf("troop table: empty id")
		}
		if _, dup := t.byID[tr.ID]; dup {
			return nil, fmt.Errorf("troop table: duplicate id %q", tr.ID)
		}
		if tr.HP <= 0 || tr.Tier <= 0 || tr.Housing <= 0 {
			return nil, fmt.Errorf("troop table: %q has non-positive hp/tier/housing", tr.ID)
		}
		t.byID[tr.ID] = tr
		t.ordered = append(t.ordered, tr)
	}
	sort.Slice(t.ordered, func(i, j int) bool { return t.ordered[i].ID < t.ordered[j].ID })
	return t, nil
}

func (t *Table) Get(id string) (Troop, bool) {
	tr, ok := t.byID[id]
	return tr, ok
}

// All 按 id 升序。
func (t *Table) All() []Troop {
	return append([]Troop(nil), t.ordered...)
}

// UpToTier 返回 tier <= maxTier 的兵种，按 id 升序。
func (t *Table) UpToTier(maxTier int) []Troop {
	var out []Troop
	for _, tr := range t.ordered {
		if tr.Tier <= maxTier {
			out = append(out, tr)
		}
	}
	return out
}

func (t *Table) HousingCapacity() int {
	return t.housingCapacity
}

// Housing 计算一支军队占用的人口，未知兵种返回 false。
func (t *Table) Housing(army map[string]int) (int, bool) {
	total := 0
	for id, n := range army {
		tr, ok := t.byID[id]
		if !ok {
			return 0, false
		}
		total += tr.Housing * n
	}
	return total, true
}
