package messages

type RaidMessage interface {
	PlayerID() int64
	TraceID() string
}

type RaidBaseMessage struct {
	PlayerId int64
	// Trace 透传接口层的 trace_id，actor 内重建 ctx 用
	Trace string
}

func (m RaidBaseMessage) PlayerID() int64 {
	return m.PlayerId
}

func (m RaidBaseMessage) TraceID() string {
	return m.Trace
}

// HRStartRaid 开始一场突袭，Seed 为 0 时随机。
type HRStartRaid struct {
	RaidBaseMessage
	Seed int64
}

type HRPlaceTroop struct {
	RaidBaseMessage
	TroopID string
	X, Y    int
}

type HRBeginRaid struct {
	RaidBaseMessage
}

type HRCancelRaid struct {
	RaidBaseMessage
}

type HRRaidState struct {
	RaidBaseMessage
}
