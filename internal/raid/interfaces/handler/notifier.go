package handler

import (
	"VillageRaid/internal/raid/app"
	"VillageRaid/internal/shared/session"
	"VillageRaid/modules/kit/logx"

	"go.uber.org/zap"
)

// PushRaidResult 倒计时到点自动结算后推给客户端的消息名
const PushRaidResult = "raid.result"

// WsNotifier 把自动结算的结果推到玩家当前的 ws 连接上，玩家不在线就丢弃，客户端可以查 state 补拉。
type WsNotifier struct {
	session session.Manager
	log     logx.Logger
}

func NewWsNotifier(s session.Manager, log logx.Logger) *WsNotifier {
	if log == nil {
		log = logx.Nop()
	}
	return &WsNotifier{session: s, log: log}
}

func (n *WsNotifier) RaidSettled(playerID int64, st *app.Settlement) {
	if n == nil || n.session == nil || st == nil {
		return
	}
	conn, ok := n.session.GetConn(playerID)
	if !ok {
		n.log.Debug("raid result dropped, player offline", zap.Int64("player_id", playerID), zap.Int64("raid_id", st.RaidID))
		return
	}
	conn.Push(PushRaidResult, st)
}
