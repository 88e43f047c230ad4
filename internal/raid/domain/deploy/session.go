// Package deploy 实现开战前的部署阶段：Idle -> Deploying -> Finalized，取消回到 Idle。
//
// Session 不加锁，由持有它的 actor 串行访问；所有时间相关操作都显式传入 now。
package deploy

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultBudget = 30 * time.Second
	// BorderWidth 是可部署边缘带的宽度（格）
	BorderWidth = 2
)

type State int

const (
	Idle State = iota
	Deploying
	Finalized
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Deploying:
		return "deploying"
	case Finalized:
		return "finalized"
	default:
		return "unknown"
	}
}

var (
	ErrAlreadyStarted  = errors.New("deploy: session already started")
	ErrNotDeploying    = errors.New("deploy: session is not deploying")
	ErrExpired         = errors.New("deploy: countdown expired")
	ErrOutsideBorder   = errors.New("deploy: tile is outside the border band")
	ErrTileBlocked     = errors.New("deploy: tile is covered by a building")
	ErrNoTroopsLeft    = errors.New("deploy: no troops of this type left")
	ErrNothingDeployed = errors.New("deploy: nothing deployed yet")
	ErrFinalized       = errors.New("deploy: session already finalized")
)

// Occupancy 是部署需要的最小地图视图。
type Occupancy interface {
	Size() int
	Occupied(x, y int) bool
}

type Unit struct {
	TroopID string `json:"troop_id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

type Tile struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Session struct {
	id       string
	state    State
	budget   time.Duration
	deadline time.Time
	grid     Occupancy
	rng      *rand.Rand
	left     map[string]int
	deployed []Unit
	auto     bool
}

func NewSession(grid Occupancy, rng *rand.Rand, budget time.Duration) *Session {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Session{
		id:     uuid.NewString(),
		state:  Idle,
		budget: budget,
		grid:   grid,
		rng:    rng,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State { return s.state }

func (s *Session) Deadline() time.Time { return s.deadline }

// AutoDeployed 表示部队是倒计时结束时自动铺上去的。
func (s *Session) AutoDeployed() bool { return s.auto }

// Start 快照兵力并开始倒计时。
func (s *Session) Start(roster map[string]int, now time.Time) error {
	if s.state != Idle {
		return ErrAlreadyStarted
	}
	s.left = make(map[string]int, len(roster))
	for id, n := range roster {
		if n > 0 {
			s.left[id] = n
		}
	}
	s.deployed = nil
	s.auto = false
	s.deadline = now.Add(s.budget)
	s.state = Deploying
	return nil
}

// Place 在边缘带放下一个兵。非法放置返回错误，会话保持打开。
func (s *Session) Place(troopID string, x, y int, now time.Time) (Unit, error) {
	if s.state != Deploying {
		return Unit{}, ErrNotDeploying
	}
	if !now.Before(s.deadline) {
		return Unit{}, ErrExpired
	}
	if !s.IsBorder(x, y) {
		return Unit{}, ErrOutsideBorder
	}
	if s.grid.Occupied(x, y) {
		return Unit{}, ErrTileBlocked
	}
	if s.left[troopID] <= 0 {
		return Unit{}, ErrNoTroopsLeft
	}
	s.left[troopID]--
	u := Unit{TroopID: troopID, X: x, Y: y}
	s.deployed = append(s.deployed, u)
	return u, nil
}

// Begin 手动开战。Finalized 之后重复调用返回同一批部署结果。
// 到点后调用等同于倒计时结束。
func (s *Session) Begin(now time.Time) ([]Unit, error) {
	switch s.state {
	case Finalized:
		return s.Deployed(), nil
	case Idle:
		return nil, ErrNotDeploying
	}
	if s.Expire(now) {
		return s.Deployed(), nil
	}
	if len(s.deployed) == 0 {
		return nil, ErrNothingDeployed
	}
	s.state = Finalized
	return s.Deployed(), nil
}

// Expire 检查倒计时，到点则结束部署；一个兵都没放时把剩余兵力全部自动部署。
// 已放过兵的不会补齐剩余兵力。返回本次调用是否触发了结束。
func (s *Session) Expire(now time.Time) bool {
	if s.state != Deploying || now.Before(s.deadline) {
		return false
	}
	if len(s.deployed) == 0 {
		s.autoDeploy()
	}
	s.state = Finalized
	return true
}

// Cancel 放弃本次部署，回到 Idle。
func (s *Session) Cancel() error {
	switch s.state {
	case Finalized:
		return ErrFinalized
	case Idle:
		return ErrNotDeploying
	}
	s.state = Idle
	s.left = nil
	s.deployed = nil
	s.deadline = time.Time{}
	return nil
}

// Remaining 剩余部署时间，非 Deploying 状态为 0。
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.state != Deploying {
		return 0
	}
	return max(s.deadline.Sub(now), 0)
}

func (s *Session) Deployed() []Unit {
	return append([]Unit(nil), s.deployed...)
}

// Left 剩余未部署兵力。
func (s *Session) Left() map[string]int {
	out := make(map[string]int, len(s.left))
	for id, n := range s.left {
		if n > 0 {
			out[id] = n
		}
	}
	return out
}

// IsBorder 判断是否落在最外两圈。
func (s *Session) IsBorder(x, y int) bool {
	size := s.grid.Size()
	if x < 0 || y < 0 || x >= size || y >= size {
		return false
	}
	return x < BorderWidth || y < BorderWidth || x >= size-BorderWidth || y >= size-BorderWidth
}

// BorderTiles 按行优先返回所有可部署的边缘格。
func (s *Session) BorderTiles() []Tile {
	size := s.grid.Size()
	var out []Tile
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if s.IsBorder(x, y) && !s.grid.Occupied(x, y) {
				out = append(out, Tile{X: x, Y: y})
			}
		}
	}
	return out
}

// autoDeploy 打乱边缘格后按兵种 id 顺序轮流放置，格子不够时回绕复用。
func (s *Session) autoDeploy() {
	tiles := s.BorderTiles()
	if len(tiles) == 0 {
		return
	}
	s.rng.Shuffle(len(tiles), func(i, j int) { tiles[i], tiles[j] = tiles[j], tiles[i] })

	ids := make([]string, 0, len(s.left))
	for id := range s.left {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	k := 0
	for _, id := range ids {
		for ; s.left[id] > 0; s.left[id]-- {
			t := tiles[k%len(tiles)]
			s.deployed = append(s.deployed, Unit{TroopID: id, X: t.X, Y: t.Y})
			k++
		}
	}
	s.auto = true
}
