package actor

import (
	"context"
	"errors"
	"time"

	"VillageRaid/internal/raid/actors"
	"VillageRaid/internal/raid/app"
	"VillageRaid/internal/raid/domain/deploy"
	"VillageRaid/internal/shared/actor/messages"
	"VillageRaid/internal/shared/transport"
	"VillageRaid/modules/kit/tracex"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = 3 * time.Second

// RuntimeError 是 actor 通信本身的失败（超时、投递失败），业务错误原样透传。
type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

// NewRuntime 启动 actor 系统。poll 是部署倒计时的检查间隔。
func NewRuntime(svc *app.RaidService, notifier actors.Notifier, askTimeout, poll time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(svc, notifier, poll)
	})
	// manager 只做路由，每个玩家的突袭状态在各自的子 actor 里
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		r.root.Stop(r.manager)
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) Start(ctx context.Context, playerID, seed int64) (app.View, error) {
	return ask[app.View](ctx, r, messages.HRStartRaid{RaidBaseMessage: base(ctx, playerID), Seed: seed})
}

func (r *Runtime) Place(ctx context.Context, playerID int64, u deploy.Unit) (app.View, error) {
	return ask[app.View](ctx, r, messages.HRPlaceTroop{RaidBaseMessage: base(ctx, playerID), TroopID: u.TroopID, X: u.X, Y: u.Y})
}

func (r *Runtime) Begin(ctx context.Context, playerID int64) (*app.Settlement, error) {
	return ask[*app.Settlement](ctx, r, messages.HRBeginRaid{RaidBaseMessage: base(ctx, playerID)})
}

func (r *Runtime) Cancel(ctx context.Context, playerID int64) error {
	_, err := r.askRaw(ctx, messages.HRCancelRaid{RaidBaseMessage: base(ctx, playerID)})
	return err
}

func (r *Runtime) State(ctx context.Context, playerID int64) (app.View, error) {
	return ask[app.View](ctx, r, messages.HRRaidState{RaidBaseMessage: base(ctx, playerID)})
}

func base(ctx context.Context, playerID int64) messages.RaidBaseMessage {
	m := messages.RaidBaseMessage{PlayerId: playerID}
	if id, ok := tracex.TraceIDFrom(ctx); ok {
		m.Trace = id
	}
	return m
}

func ask[T any](ctx context.Context, r *Runtime, msg messages.RaidMessage) (T, error) {
	var zero T
	v, err := r.askRaw(ctx, msg)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, &RuntimeError{Code: transport.SystemError, Message: "actor 返回类型非法"}
	}
	return out, nil
}

func (r *Runtime) askRaw(ctx context.Context, msg messages.RaidMessage) (any, error) {
	res, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}
	reply, ok := res.(messages.Reply)
	if !ok {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor 返回类型非法"}
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	return reply.Value, nil
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		code := transport.SystemError
		if errors.Is(err, protoactor.ErrTimeout) {
			code = transport.Timeout
		}
		return nil, &RuntimeError{
			Code:    code,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

// CodeFromError 只识别 RuntimeError，业务错误交给接口层的 error mapper。
func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.SystemError
}
