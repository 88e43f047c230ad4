package app

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{
		Code:    c,
		Message: m,
	}
}

var (
	// 业务拒绝 reason，接口层按 code 映射客户端业务码，reason 只进日志。
	ReasonOutsideBorder = NewReason("DEPLOY_OUTSIDE_BORDER", "只能部署在地图边缘两圈")
	ReasonTileBlocked   = NewReason("DEPLOY_TILE_BLOCKED", "该格子被建筑占用")
	ReasonNoTroopsLeft  = NewReason("DEPLOY_NO_TROOPS_LEFT", "该兵种已全部部署")
	ReasonDeployExpired = NewReason("DEPLOY_EXPIRED", "部署时间已结束")
	ReasonCancelSettled = NewReason("CANCEL_AFTER_SETTLE", "已开战的突袭不能取消")
)

var (
	// 技术错误 reason，用于日志与排障。
	ReasonRosterReadFail   = NewReason("ROSTER_READ_FAIL", "兵力读取失败")
	ReasonRosterWriteFail  = NewReason("ROSTER_WRITE_FAIL", "兵力回写失败")
	ReasonHistoryReadFail  = NewReason("HISTORY_READ_FAIL", "战报读取失败")
	ReasonHistoryWriteFail = NewReason("HISTORY_WRITE_FAIL", "战报写入失败")
)
