package errx

// 跨服务共享的系统错误码。业务码（RAID_NOT_STARTED 之类）由各服务自己定义。
const (
	CodeInternal    Code = "INTERNAL_ERROR"
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeTimeout     Code = "TIMEOUT"
	CodeRateLimited Code = "RATE_LIMITED"
	// CodeInvalidParam 请求参数不合法，归为业务拒绝。
	CodeInvalidParam Code = "INVALID_PARAM"
	// CodeUnauthorized token 缺失或无效。
	CodeUnauthorized Code = "UNAUTHORIZED"
)

var (
	ErrInternal     = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable  = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout      = NewSys(CodeTimeout, "请求超时")
	ErrRateLimited  = NewSys(CodeRateLimited, "请求过于频繁")
	ErrInvalidParam = NewBiz(CodeInvalidParam, "请求参数错误")
	ErrUnauthorized = NewBiz(CodeUnauthorized, "登录已失效")
)
