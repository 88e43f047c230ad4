package model

import "time"

// RaidPlayer 玩家的突袭进度与资源
type RaidPlayer struct {
	Rid       int64     `gorm:"column:rid;type:bigint;comment:玩家id;primaryKey;not null;" json:"rid"`
	RaidLevel int       `gorm:"column:raid_level;type:int;comment:突袭关卡;not null;default:1;" json:"raid_level"`
	Gold      int64     `gorm:"column:gold;type:bigint;comment:金币;not null;default:0;" json:"gold"`
	Wood      int64     `gorm:"column:wood;type:bigint;comment:木;not null;default:0;" json:"wood"`
	Stone     int64     `gorm:"column:stone;type:bigint;comment:石头;not null;default:0;" json:"stone"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:datetime;comment:更新时间;" json:"updated_at"`
}

func (r *RaidPlayer) TableName() string {
	return "raid_player"
}

// RaidTroop 玩家每个兵种的数量
type RaidTroop struct {
	Id      uint64 `gorm:"column:id;type:bigint UNSIGNED;comment:id;primaryKey;autoIncrement;" json:"id"`
	Rid     int64  `gorm:"column:rid;type:bigint;comment:玩家id;not null;uniqueIndex:uk_rid_troop;" json:"rid"`
	TroopID string `gorm:"column:troop_id;type:varchar(32);comment:兵种;not null;uniqueIndex:uk_rid_troop;" json:"troop_id"`
	Count   int    `gorm:"column:count;type:int;comment:数量;not null;default:0;" json:"count"`
}

func (r *RaidTroop) TableName() string {
	return "raid_troop"
}
