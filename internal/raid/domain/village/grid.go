package village

// Grid 是占用网格，每格记录覆盖它的建筑下标，-1 表示空地。
type Grid struct {
	size  int
	cells []int
}

func NewGrid(size int) *Grid {
	cells := make([]int, size*size)
	for i := range cells {
		cells[i] = -1
	}
	return &Grid{size: size, cells: cells}
}

func (g *Grid) Size() int {
	return g.size
}

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.size && y < g.size
}

// Occupied 越界视为占用。
func (g *Grid) Occupied(x, y int) bool {
	if !g.InBounds(x, y) {
		return true
	}
	return g.cells[y*g.size+x] >= 0
}

// At 返回覆盖 (x,y) 的建筑下标。
func (g *Grid) At(x, y int) (int, bool) {
	if !g.InBounds(x, y) {
		return -1, false
	}
	idx := g.cells[y*g.size+x]
	return idx, idx >= 0
}

// Fits 判断 w*h 的占地以 (x,y) 为左上角能否放下：全部在界内且全部空闲。
func (g *Grid) Fits(x, y, w, h int) bool {
	if x < 0 || y < 0 || x+w > g.size || y+h > g.size {
		return false
	}
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			if g.cells[(y+dy)*g.size+x+dx] >= 0 {
				return false
			}
		}
	}
	return true
}

func (g *Grid) mark(x, y, w, h, idx int) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			g.cells[(y+dy)*g.size+x+dx] = idx
		}
	}
}
