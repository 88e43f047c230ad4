package model

import "VillageRaid/internal/raid/app"

// HistoryDoc 每个玩家一份文档，records 新的在前，长度由写入时的 $slice 控制。
type HistoryDoc struct {
	PlayerID int64            `bson:"_id"`
	Records  []app.RaidRecord `bson:"records"`
}
