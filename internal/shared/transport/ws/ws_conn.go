package ws

type ReqBody struct {
	Seq   int64  `json:"seq"`
	Name  string `json:"name"`
	Msg   any    `json:"msg"`
	Proxy string `json:"proxy"`
}

type RespBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Code int    `json:"code"`
	Msg  any    `json:"msg"`
}

type WsMsgReq struct {
	Body *ReqBody
	Conn WSConn
}

type WsMsgResp struct {
	Body *RespBody
}

// WSConn 是 handler 能看到的连接视图：属性存取和服务端推送。
type WSConn interface {
	SetProperty(key string, value any)
	GetProperty(key string) any
	RemoveProperty(key string)
	Addr() string
	Push(name string, data any)
	Close()
	// Done 连接关闭时该 channel 会被关闭
	Done() <-chan struct{}
}

type Handshake struct {
	Key string `json:"key"`
}

type Heartbeat struct {
	CTime int64 `json:"ctime" mapstructure:"ctime"`
	STime int64 `json:"stime" mapstructure:"stime"`
}

const (
	HandshakeMsg = "handshake"
	HeartbeatMsg = "heartbeat"
	SecretKey    = "secretKey"
	// ConnKeyPlayerID 登录成功后写入连接属性
	ConnKeyPlayerID = "pid"
)

// PlayerID 读取连接上绑定的玩家 id，未登录返回 false。
func PlayerID(conn WSConn) (int64, bool) {
	if conn == nil {
		return 0, false
	}
	pid, ok := conn.GetProperty(ConnKeyPlayerID).(int64)
	return pid, ok && pid > 0
}
