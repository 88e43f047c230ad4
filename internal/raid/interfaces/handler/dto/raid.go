package dto

import "VillageRaid/internal/raid/app"

type StartReq struct {
	// Seed 为 0 时服务端随机
	Seed int64 `json:"seed,omitempty"`
}

type DeployReq struct {
	TroopID string `json:"troop_id" binding:"required"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

type LoginReq struct {
	Token string `json:"token"`
}

type LoginResp struct {
	PlayerID int64 `json:"player_id,string"`
}

type HistoryResp struct {
	Records []app.RaidRecord `json:"records"`
}
