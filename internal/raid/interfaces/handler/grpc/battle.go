package grpc

import (
	"context"
	"encoding/json"

	"VillageRaid/internal/raid/app"
	"VillageRaid/internal/raid/domain/deploy"
	"VillageRaid/internal/raid/interfaces/handler"
	"VillageRaid/modules/kit/logx"
	"VillageRaid/modules/kit/tracex"

	"github.com/go-viper/mapstructure/v2"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	BattleServiceName = "raid.BattleService"
	SimulateMethod    = "/raid.BattleService/Simulate"
)

// BattleServer 无状态的战斗模拟服务，请求和响应都是 google.protobuf.Struct。
type BattleServer interface {
	Simulate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var BattleServiceDesc = gogrpc.ServiceDesc{
	ServiceName: BattleServiceName,
	HandlerType: (*BattleServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{
			MethodName: "Simulate",
			Handler:    simulateHandler,
		},
	},
	Streams:  []gogrpc.StreamDesc{},
	Metadata: "raid/battle.proto",
}

func RegisterBattleServer(s gogrpc.ServiceRegistrar, srv BattleServer) {
	s.RegisterService(&BattleServiceDesc, srv)
}

func simulateHandler(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BattleServer).Simulate(ctx, in)
	}
	info := &gogrpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SimulateMethod,
	}
	h := func(ctx context.Context, req any) (any, error) {
		return srv.(BattleServer).Simulate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, h)
}

type SimulateReq struct {
	Difficulty int            `mapstructure:"difficulty"`
	Seed       int64          `mapstructure:"seed"`
	Army       map[string]int `mapstructure:"army"`
	Units      []UnitReq      `mapstructure:"units"`
	// IncludeTicks 为 false 时不返回逐帧日志
	IncludeTicks bool `mapstructure:"include_ticks"`
}

type UnitReq struct {
	TroopID string `mapstructure:"troop_id"`
	X       int    `mapstructure:"x"`
	Y       int    `mapstructure:"y"`
}

type Battle struct {
	svc *app.RaidService
	log logx.Logger
}

func NewBattle(svc *app.RaidService, log logx.Logger) *Battle {
	if log == nil {
		log = logx.Nop()
	}
	return &Battle{svc: svc, log: log}
}

func (b *Battle) Simulate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ctx = tracex.WithSpanID(ctx, tracex.NewSpanID())

	var req SimulateReq
	if err := decodeStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	st, err := b.svc.Simulate(ctx, app.SimulateReq{
		Difficulty: req.Difficulty,
		Seed:       req.Seed,
		Army:       req.Army,
		Units:      toUnits(req.Units),
	})
	if err != nil {
		logx.ReportSysErrorWithLoggerContext(ctx, b.log, logx.NewSysLog("battle simulate", err))
		return nil, handler.ToRPCError(err)
	}
	if !req.IncludeTicks {
		st.Ticks = nil
	}
	return encodeStruct(st)
}

func toUnits(in []UnitReq) []deploy.Unit {
	out := make([]deploy.Unit, 0, len(in))
	for _, u := range in {
		out = append(out, deploy.Unit{TroopID: u.TroopID, X: u.X, Y: u.Y})
	}
	return out
}

// decodeStruct 数字在 Struct 里都是 float64，靠 WeaklyTypedInput 转回整数；大于 2^53 的种子需要用字符串传。
func decodeStruct(in *structpb.Struct, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	if in == nil {
		return nil
	}
	return dec.Decode(in.AsMap())
}

func encodeStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// BattleClient 供其它服务调用模拟接口。
type BattleClient struct {
	cc gogrpc.ClientConnInterface
}

func NewBattleClient(cc gogrpc.ClientConnInterface) *BattleClient {
	return &BattleClient{cc: cc}
}

func (c *BattleClient) Simulate(ctx context.Context, in *structpb.Struct, opts ...gogrpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SimulateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

var _ BattleServer = (*Battle)(nil)
