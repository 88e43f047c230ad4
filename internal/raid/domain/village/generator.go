package village

import (
	"math"
	"math/rand"

	"VillageRaid/internal/shared/gameconfig/building"
	"VillageRaid/internal/shared/gameconfig/troop"
)

const (
	DefaultGridSize = 24
	minGridSize     = 12

	placeAttempts   = 40
	defenseRadius   = 5.0
	wallMinRadius   = 4.0
	wallMaxRadius   = 6.0
	outerMinRadius  = 6.0
	outerMaxRadius  = 8.0
	maxDefenses     = 8
	maxWalls        = 30
	militaryCount   = 2
	minDefenderSize = 3
)

// Generator 根据难度生成敌方村庄，所有随机数都来自调用方传入的 rng。
type Generator struct {
	troops    *troop.Table
	buildings *building.Table
	gridSize  int
}

type Option func(*Generator)

func WithGridSize(size int) Option {
	return func(g *Generator) {
		if size >= minGridSize {
			g.gridSize = size
		}
	}
}

func NewGenerator(troops *troop.Table, buildings *building.Table, opts ...Option) *Generator {
	g := &Generator{troops: troops, buildings: buildings, gridSize: DefaultGridSize}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) GridSize() int {
	return g.gridSize
}

// Generate 生成一座村庄。放置失败的建筑直接跳过，不会返回错误。
func (g *Generator) Generate(difficulty int, rng *rand.Rand) *Village {
	d := ClampDifficulty(difficulty)
	v := &Village{
		Difficulty: d,
		Grid:       NewGrid(g.gridSize),
		CoreIndex:  -1,
	}

	core := g.buildings.Core()
	coreX := (g.gridSize - core.Size) / 2
	g.place(v, core, coreX, coreX, g.rollLevel(core, d, rng))
	v.CoreIndex = 0
	cx, cy := v.Core().Center()

	pool := g.buildings.DefensePool(d)
	if len(pool) > 0 {
		n := min(maxDefenses, 2+d*4/5)
		for i := 0; i < n; i++ {
			bt := pool[i%len(pool)]
			g.placeInWindow(v, bt, cx, cy, g.rollLevel(bt, d, rng), rng)
		}
	}

	if walls := g.buildings.ByCategory(building.CategoryWall); len(walls) > 0 {
		g.placeWallRing(v, walls[0], min(maxWalls, d*4), cx, cy, d, rng)
	}

	resources := g.buildings.ByCategory(building.CategoryResource)
	for i := 0; i < 3+d/2 && len(resources) > 0; i++ {
		bt := resources[i%len(resources)]
		g.placeOnRing(v, bt, cx, cy, g.rollLevel(bt, d, rng), rng)
	}
	military := g.buildings.ByCategory(building.CategoryMilitary)
	for i := 0; i < militaryCount && len(military) > 0; i++ {
		bt := military[i%len(military)]
		g.placeOnRing(v, bt, cx, cy, g.rollLevel(bt, d, rng), rng)
	}

	v.Defenders = g.rollDefenders(d, rng)
	v.Name = randomName(rng)
	return v
}

// rollLevel = clamp(floor(d*0.8) + rand[0,2], 1, maxLevel)
func (g *Generator) rollLevel(bt building.Building, d int, rng *rand.Rand) int {
	return bt.ClampLevel(d*4/5 + rng.Intn(3))
}

// placeInWindow 在主堡中心 ±5 格的窗口内随机尝试。
func (g *Generator) placeInWindow(v *Village, bt building.Building, cx, cy float64, level int, rng *rand.Rand) bool {
	half := float64(bt.Size) / 2
	for i := 0; i < placeAttempts; i++ {
		x := int(math.Floor(cx + (rng.Float64()*2-1)*defenseRadius - half))
		y := int(math.Floor(cy + (rng.Float64()*2-1)*defenseRadius - half))
		if g.place(v, bt, x, y, level) {
			return true
		}
	}
	return false
}

// placeOnRing 在半径 6~8 的环带上随机尝试。
func (g *Generator) placeOnRing(v *Village, bt building.Building, cx, cy float64, level int, rng *rand.Rand) bool {
	half := float64(bt.Size) / 2
	for i := 0; i < placeAttempts; i++ {
		angle := rng.Float64() * 2 * math.Pi
		r := outerMinRadius + rng.Float64()*(outerMaxRadius-outerMinRadius)
		x := int(math.Floor(cx + r*math.Cos(angle) - half))
		y := int(math.Floor(cy + r*math.Sin(angle) - half))
		if g.place(v, bt, x, y, level) {
			return true
		}
	}
	return false
}

// placeWallRing 按角度均分放置单格城墙，每段只尝试一次，被占就跳过。
func (g *Generator) placeWallRing(v *Village, wall building.Building, n int, cx, cy float64, d int, rng *rand.Rand) {
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		r := wallMinRadius + rng.Float64()*(wallMaxRadius-wallMinRadius)
		x := int(math.Floor(cx + r*math.Cos(angle)))
		y := int(math.Floor(cy + r*math.Sin(angle)))
		g.place(v, wall, x, y, g.rollLevel(wall, d, rng))
	}
}

func (g *Generator) place(v *Village, bt building.Building, x, y, level int) bool {
	if !v.Grid.Fits(x, y, bt.Size, bt.Size) {
		return false
	}
	idx := len(v.Buildings)
	v.Grid.mark(x, y, bt.Size, bt.Size, idx)
	hp := bt.HP(level)
	v.Buildings = append(v.Buildings, Building{
		Index:    idx,
		TypeID:   bt.ID,
		Category: bt.Category,
		Level:    level,
		X:        x,
		Y:        y,
		Size:     bt.Size,
		HP:       hp,
		MaxHP:    hp,
	})
	return true
}

// rollDefenders 从 tier <= ceil(d/2) 的兵种里均匀抽取 max(3, 2d) 个。
func (g *Generator) rollDefenders(d int, rng *rand.Rand) []string {
	pool := g.troops.UpToTier((d + 1) / 2)
	if len(pool) == 0 {
		return nil
	}
	n := max(minDefenderSize, d*2)
	out := make([]string, n)
	for i := range out {
		out[i] = pool[rng.Intn(len(pool))].ID
	}
	return out
}
