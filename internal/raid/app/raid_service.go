package app

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"VillageRaid/internal/raid/domain/battle"
	"VillageRaid/internal/raid/domain/deploy"
	"VillageRaid/internal/raid/domain/loot"
	"VillageRaid/internal/raid/domain/outcome"
	"VillageRaid/internal/raid/domain/village"
	"VillageRaid/internal/shared/gameconfig/building"
	"VillageRaid/internal/shared/gameconfig/troop"
	"VillageRaid/internal/shared/utils"
	"VillageRaid/modules/kit/logx"

	"go.uber.org/zap"
)

const DefaultHistoryLimit = 20

type Options struct {
	GridSize        int
	DeployBudget    time.Duration
	MaxTicks        int
	HistoryLimit    int
	HousingCapacity int
}

type RaidService struct {
	roster    RosterRepo
	history   HistoryRepo
	troops    *troop.Table
	buildings *building.Table
	gen       *village.Generator
	ids       IDGenerator
	log       logx.Logger
	opts      Options
}

func NewRaidService(roster RosterRepo, history HistoryRepo, troops *troop.Table, buildings *building.Table, ids IDGenerator, log logx.Logger, opts Options) *RaidService {
	if log == nil {
		log = logx.Nop()
	}
	if opts.DeployBudget <= 0 {
		opts.DeployBudget = deploy.DefaultBudget
	}
	if opts.MaxTicks <= 0 {
		opts.MaxTicks = battle.MaxTicks
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if opts.HousingCapacity <= 0 {
		opts.HousingCapacity = troops.HousingCapacity()
	}
	var genOpts []village.Option
	if opts.GridSize > 0 {
		genOpts = append(genOpts, village.WithGridSize(opts.GridSize))
	}
	return &RaidService{
		roster:    roster,
		history:   history,
		troops:    troops,
		buildings: buildings,
		gen:       village.NewGenerator(troops, buildings, genOpts...),
		ids:       ids,
		log:       log,
		opts:      opts,
	}
}

func (s *RaidService) Options() Options { return s.opts }

// Start 读取玩家兵力，生成敌方村庄并进入部署倒计时。seed 为 0 时随机。
func (s *RaidService) Start(ctx context.Context, playerID int64, seed int64, now time.Time) (*Raid, error) {
	army, err := s.roster.LoadArmy(ctx, playerID)
	if err != nil {
		if errors.Is(err, ErrArmyNotFound) {
			return nil, ErrEmptyArmy
		}
		return nil, ErrUnavailable.WithReason(ReasonRosterReadFail).WithCause(err)
	}
	roster, err := s.checkRoster(army.Troops, false)
	if err != nil {
		return nil, err
	}

	d := village.ClampDifficulty(army.RaidLevel)
	rng, seed := utils.NewRand(seed)
	v := s.gen.Generate(d, rng)
	v.Seed = seed

	sess := deploy.NewSession(v.Grid, rng, s.opts.DeployBudget)
	if err := sess.Start(roster, now); err != nil {
		return nil, ErrInternalServer.WithCause(err)
	}

	r := &Raid{
		ID:        s.ids.NextID(),
		PlayerID:  playerID,
		Seed:      seed,
		Village:   v,
		Loot:      loot.For(d),
		Army:      roster,
		Session:   sess,
		StartedAt: now,
		rng:       rng,
	}
	s.log.WithContext(ctx).Info("raid started",
		zap.Int64("raid_id", r.ID),
		zap.Int64("player_id", playerID),
		zap.Int("difficulty", d),
		zap.Int64("seed", seed),
		zap.Int("buildings", len(v.Buildings)),
	)
	return r, nil
}

// Place 部署一个兵，非法位置返回业务错误，部署继续。
func (s *RaidService) Place(ctx context.Context, r *Raid, troopID string, x, y int, now time.Time) (deploy.Unit, error) {
	if r.Settled() {
		return deploy.Unit{}, ErrRaidFinished
	}
	if _, ok := s.troops.Get(troopID); !ok {
		return deploy.Unit{}, ErrUnknownTroop.WithData("troop_id", troopID)
	}
	u, err := r.Session.Place(troopID, x, y, now)
	if err != nil {
		s.log.WithContext(ctx).Debug("placement rejected",
			zap.Int64("raid_id", r.ID),
			zap.String("troop_id", troopID),
			zap.Int("x", x),
			zap.Int("y", y),
			zap.Error(err),
		)
		return deploy.Unit{}, placementError(err).WithData("x", x).WithData("y", y)
	}
	return u, nil
}

// Begin 手动开战。已经结算过的突袭直接返回原结果。
func (s *RaidService) Begin(ctx context.Context, r *Raid, now time.Time) (*Settlement, error) {
	if r.Settled() {
		return s.apply(ctx, r)
	}
	units, err := r.Session.Begin(now)
	switch {
	case err == nil:
	case errors.Is(err, deploy.ErrNothingDeployed):
		return nil, ErrNothingDeployed
	default:
		return nil, ErrRaidNotStarted.WithCause(err)
	}
	return s.settle(ctx, r, units, now)
}

// Expire 检查倒计时，到点就自动开战。第二个返回值表示本次是否触发了结算。
func (s *RaidService) Expire(ctx context.Context, r *Raid, now time.Time) (*Settlement, bool, error) {
	if r.Settled() || !r.Session.Expire(now) {
		return nil, false, nil
	}
	st, err := s.settle(ctx, r, r.Session.Deployed(), now)
	return st, true, err
}

// Cancel 放弃部署，不会触发战斗。
func (s *RaidService) Cancel(ctx context.Context, r *Raid) error {
	if r.Settled() {
		return ErrRaidFinished.WithReason(ReasonCancelSettled)
	}
	if err := r.Session.Cancel(); err != nil {
		if errors.Is(err, deploy.ErrFinalized) {
			return ErrRaidFinished.WithReason(ReasonCancelSettled)
		}
		return ErrRaidNotStarted
	}
	s.log.WithContext(ctx).Info("raid cancelled", zap.Int64("raid_id", r.ID), zap.Int64("player_id", r.PlayerID))
	return nil
}

// History 最近的战报，limit 超出配置上限时截断。
func (s *RaidService) History(ctx context.Context, playerID int64, limit int) ([]RaidRecord, error) {
	if limit <= 0 || limit > s.opts.HistoryLimit {
		limit = s.opts.HistoryLimit
	}
	recs, err := s.history.List(ctx, playerID, limit)
	if err != nil {
		return nil, ErrUnavailable.WithReason(ReasonHistoryReadFail).WithCause(err)
	}
	return recs, nil
}

func (s *RaidService) LootEstimate(difficulty int) loot.Estimate {
	return loot.For(village.ClampDifficulty(difficulty))
}

type SimulateReq struct {
	Difficulty int
	Seed       int64
	// Army 为空时按 Units 统计兵力
	Army map[string]int
	// Units 为空时倒计时结束自动部署
	Units []deploy.Unit
}

// Simulate 无状态地跑一场战斗，不读写经济数据也不记战报。
func (s *RaidService) Simulate(ctx context.Context, req SimulateReq) (*Settlement, error) {
	army := req.Army
	if len(army) == 0 {
		army = make(map[string]int, len(req.Units))
		for _, u := range req.Units {
			army[u.TroopID]++
		}
	}
	// 零兵是合法的一场战斗，直接判负
	roster, err := s.checkRoster(army, true)
	if err != nil {
		return nil, err
	}

	d := village.ClampDifficulty(req.Difficulty)
	rng, seed := utils.NewRand(req.Seed)
	v := s.gen.Generate(d, rng)
	v.Seed = seed

	var t0 time.Time
	sess := deploy.NewSession(v.Grid, rng, s.opts.DeployBudget)
	if err := sess.Start(roster, t0); err != nil {
		return nil, ErrInternalServer.WithCause(err)
	}
	for _, u := range req.Units {
		if _, err := sess.Place(u.TroopID, u.X, u.Y, t0); err != nil {
			return nil, placementError(err).WithData("troop_id", u.TroopID).WithData("x", u.X).WithData("y", u.Y)
		}
	}
	var units []deploy.Unit
	if len(req.Units) == 0 {
		sess.Expire(sess.Deadline())
		units = sess.Deployed()
	} else if units, err = sess.Begin(t0); err != nil {
		return nil, ErrNothingDeployed
	}

	res := s.fight(v, units, rng, loot.For(d))
	st := &Settlement{
		RaidID:       s.ids.NextID(),
		Difficulty:   d,
		VillageName:  v.Name,
		Seed:         seed,
		AutoDeployed: sess.AutoDeployed(),
		Units:        units,
		SettledAt:    time.Now(),
		Result:       res,
	}
	s.log.WithContext(ctx).Info("raid simulated",
		zap.Int64("raid_id", st.RaidID),
		zap.Int("difficulty", d),
		zap.Int64("seed", seed),
		zap.Int("stars", st.Stars),
		zap.Int("ticks", len(st.Ticks)),
		zap.Float64("destruction_pct", st.DestructionPct),
	)
	return st, nil
}

// checkRoster 过滤掉数量为 0 的兵种并校验兵种与人口。
func (s *RaidService) checkRoster(army map[string]int, allowEmpty bool) (map[string]int, error) {
	roster := make(map[string]int, len(army))
	for id, n := range army {
		if n < 0 {
			return nil, ErrInvalidParam.WithData("troop_id", id)
		}
		if n > 0 {
			roster[id] = n
		}
	}
	if len(roster) == 0 && !allowEmpty {
		return nil, ErrEmptyArmy
	}
	housing, ok := s.troops.Housing(roster)
	if !ok {
		return nil, ErrUnknownTroop
	}
	if housing > s.opts.HousingCapacity {
		return nil, ErrHousingExceeded.WithData("housing", housing).WithData("capacity", s.opts.HousingCapacity)
	}
	return roster, nil
}

func (s *RaidService) fight(v *village.Village, units []deploy.Unit, rng *rand.Rand, est loot.Estimate) outcome.Result {
	in := battle.Setup(v, units, s.troops, s.buildings, rng)
	rep := battle.Simulate(in, battle.WithMaxTicks(s.opts.MaxTicks))
	return outcome.Resolve(rep, est)
}

// settle 只跑一次战斗；回写失败时保留结果，下次 Begin 重试回写。
func (s *RaidService) settle(ctx context.Context, r *Raid, units []deploy.Unit, now time.Time) (*Settlement, error) {
	if r.result == nil {
		r.result = &Settlement{
			RaidID:       r.ID,
			PlayerID:     r.PlayerID,
			Difficulty:   r.Village.Difficulty,
			VillageName:  r.Village.Name,
			Seed:         r.Seed,
			AutoDeployed: r.Session.AutoDeployed(),
			Units:        units,
			SettledAt:    now,
			Result:       s.fight(r.Village, units, r.rng, r.Loot),
		}
		st := r.result
		s.log.WithContext(ctx).Info("raid settled",
			zap.Int64("raid_id", r.ID),
			zap.Int64("player_id", r.PlayerID),
			zap.Int("stars", st.Stars),
			zap.Int("ticks", len(st.Ticks)),
			zap.Float64("destruction_pct", st.DestructionPct),
			zap.Bool("auto_deployed", st.AutoDeployed),
		)
	}
	return s.apply(ctx, r)
}

// ApplyPending 补做上一次失败的回写，没有待回写的结算时什么也不做。
func (s *RaidService) ApplyPending(ctx context.Context, r *Raid) error {
	if r == nil || !r.Settled() || r.applied {
		return nil
	}
	_, err := s.apply(ctx, r)
	return err
}

func (s *RaidService) apply(ctx context.Context, r *Raid) (*Settlement, error) {
	st := r.result
	if r.applied {
		return st, nil
	}
	out := RaidOutcome{Losses: st.TroopLosses, Loot: st.Loot, Won: st.Won()}
	if err := s.roster.ApplyRaid(ctx, r.PlayerID, out); err != nil {
		return nil, ErrUnavailable.WithReason(ReasonRosterWriteFail).WithCause(err)
	}
	r.applied = true

	// 战报丢失不影响结算结果
	if err := s.history.Append(ctx, r.PlayerID, st.Record(), s.opts.HistoryLimit); err != nil {
		s.log.WithContext(ctx).Error("raid history append failed",
			zap.Int64("raid_id", r.ID),
			zap.String("reason", ReasonHistoryWriteFail.Code),
			zap.Error(err),
		)
	}
	return st, nil
}

func placementError(err error) *Error {
	switch {
	case errors.Is(err, deploy.ErrOutsideBorder):
		return ErrPlacementRejected.WithReason(ReasonOutsideBorder)
	case errors.Is(err, deploy.ErrTileBlocked):
		return ErrPlacementRejected.WithReason(ReasonTileBlocked)
	case errors.Is(err, deploy.ErrNoTroopsLeft):
		return ErrPlacementRejected.WithReason(ReasonNoTroopsLeft)
	case errors.Is(err, deploy.ErrExpired):
		return ErrPlacementRejected.WithReason(ReasonDeployExpired)
	case errors.Is(err, deploy.ErrNotDeploying):
		return ErrRaidFinished
	default:
		return ErrPlacementRejected.WithCause(err)
	}
}
