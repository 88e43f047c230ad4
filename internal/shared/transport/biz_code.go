package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 客户端业务码，HTTP/WS 响应体里的 code 字段。
const (
	OK             = 0
	InvalidParam   = 1
	SessionInvalid = 2
	TokenInvalid   = 3

	RaidNotStarted     = 101
	RaidAlreadyRunning = 102
	PlacementRejected  = 103
	NothingDeployed    = 104
	HousingExceeded    = 105
	RaidFinished       = 106
	UnknownTroop       = 107
	EmptyArmy          = 108

	SystemError = 500
	Unavailable = 503
	Timeout     = 504
)
