package mysql

import (
	"context"
	"errors"
	"sort"
	"time"

	"VillageRaid/internal/raid/app"
	"VillageRaid/internal/raid/errs"
	"VillageRaid/internal/raid/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	OpLoadArmy  = "repo.roster.LoadArmy"
	OpApplyRaid = "repo.roster.ApplyRaid"
	OpSaveArmy  = "repo.roster.SaveArmy"
)

type RosterRepo struct {
	db *gorm.DB
}

func NewRosterRepo(db *gorm.DB) *RosterRepo {
	return &RosterRepo{db: db}
}

func (r *RosterRepo) WithTx(tx *gorm.DB) *RosterRepo {
	return &RosterRepo{db: tx}
}

// AutoMigrate 建表，只在开发环境启动时调用。
func (r *RosterRepo) AutoMigrate() error {
	return r.db.AutoMigrate(&model.RaidPlayer{}, &model.RaidTroop{})
}

func (r *RosterRepo) LoadArmy(ctx context.Context, playerID int64) (*app.Army, error) {
	var p model.RaidPlayer
	err := r.db.WithContext(ctx).Where("rid = ?", playerID).First(&p).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, app.ErrArmyNotFound
	default:
		return nil, errs.Wrap(OpLoadArmy, errs.KindInfra, err, map[string]any{"player_id": playerID})
	}

	var troops []model.RaidTroop
	if err := r.db.WithContext(ctx).Where("rid = ?", playerID).Find(&troops).Error; err != nil {
		return nil, errs.Wrap(OpLoadArmy, errs.KindInfra, err, map[string]any{"player_id": playerID})
	}
	return toArmy(&p, troops), nil
}

// ApplyRaid 在一个事务里扣兵（不低于 0），胜利时加资源并推进关卡。
func (r *RosterRepo) ApplyRaid(ctx context.Context, playerID int64, out app.RaidOutcome) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range sortedKeys(out.Losses) {
			n := out.Losses[id]
			if n <= 0 {
				continue
			}
			err := tx.Model(&model.RaidTroop{}).
				Where("rid = ? AND troop_id = ?", playerID, id).
				Update("count", gorm.Expr("GREATEST(count - ?, 0)", n)).Error
			if err != nil {
				return err
			}
		}
		if !out.Won {
			return nil
		}
		return tx.Model(&model.RaidPlayer{}).
			Where("rid = ?", playerID).
			Updates(map[string]any{
				"gold":       gorm.Expr("gold + ?", out.Loot.Gold),
				"wood":       gorm.Expr("wood + ?", out.Loot.Wood),
				"stone":      gorm.Expr("stone + ?", out.Loot.Stone),
				"raid_level": gorm.Expr("raid_level + 1"),
				"updated_at": time.Now(),
			}).Error
	})
	if err != nil {
		return errs.Wrap(OpApplyRaid, errs.KindInfra, err, map[string]any{"player_id": playerID})
	}
	return nil
}

// SaveArmy 覆盖写玩家兵力，经济系统或 GM 工具用。
func (r *RosterRepo) SaveArmy(ctx context.Context, a *app.Army) error {
	if a == nil {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p := &model.RaidPlayer{
			Rid:       a.PlayerID,
			RaidLevel: a.RaidLevel,
			Gold:      int64(a.Resources.Gold),
			Wood:      int64(a.Resources.Wood),
			Stone:     int64(a.Resources.Stone),
			UpdatedAt: time.Now(),
		}
		if err := tx.Save(p).Error; err != nil {
			return err
		}
		for _, id := range sortedKeys(a.Troops) {
			t := &model.RaidTroop{Rid: a.PlayerID, TroopID: id, Count: a.Troops[id]}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "rid"}, {Name: "troop_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"count"}),
			}).Create(t).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.Wrap(OpSaveArmy, errs.KindInfra, err, map[string]any{"player_id": a.PlayerID})
	}
	return nil
}

func toArmy(p *model.RaidPlayer, troops []model.RaidTroop) *app.Army {
	a := &app.Army{
		PlayerID:  p.Rid,
		RaidLevel: p.RaidLevel,
		Troops:    make(map[string]int, len(troops)),
	}
	a.Resources.Gold = int(p.Gold)
	a.Resources.Wood = int(p.Wood)
	a.Resources.Stone = int(p.Stone)
	for _, t := range troops {
		a.Troops[t.TroopID] = t.Count
	}
	return a
}

// 固定顺序更新，避免并发事务互相等锁
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
