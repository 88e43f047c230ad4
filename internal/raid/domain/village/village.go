package village

import "VillageRaid/internal/shared/gameconfig/building"

const (
	MinDifficulty = 1
	MaxDifficulty = 10
)

// Building 是村庄里的一座建筑实例，(X,Y) 为占地左上角。
type Building struct {
	Index    int               `json:"index"`
	TypeID   string            `json:"type_id"`
	Category building.Category `json:"category"`
	Level    int               `json:"level"`
	X        int               `json:"x"`
	Y        int               `json:"y"`
	Size     int               `json:"size"`
	HP       int               `json:"hp"`
	MaxHP    int               `json:"max_hp"`
}

// Center 返回占地中心的世界坐标。
func (b Building) Center() (float64, float64) {
	half := float64(b.Size) / 2
	return float64(b.X) + half, float64(b.Y) + half
}

// Village 生成后只读，战斗中的血量变化只发生在战斗实体副本上。
type Village struct {
	Difficulty int        `json:"difficulty"`
	Name       string     `json:"name"`
	Seed       int64      `json:"seed"`
	Buildings  []Building `json:"buildings"`
	// Defenders 是防守兵种 id，可重复
	Defenders []string `json:"defenders"`
	CoreIndex int      `json:"core_index"`
	Grid      *Grid    `json:"-"`
}

func (v *Village) Core() Building {
	return v.Buildings[v.CoreIndex]
}

// CountByCategory 统计某类建筑数量。
func (v *Village) CountByCategory(c building.Category) int {
	n := 0
	for _, b := range v.Buildings {
		if b.Category == c {
			n++
		}
	}
	return n
}

// ClampDifficulty 把难度压到 [1,10]。
func ClampDifficulty(d int) int {
	return min(max(d, MinDifficulty), MaxDifficulty)
}
