package handler

import (
	"context"
	"errors"

	raidactor "VillageRaid/internal/raid/actor"
	"VillageRaid/internal/raid/app"
	"VillageRaid/internal/shared/transport"
	"VillageRaid/modules/kit/errx"
	"VillageRaid/modules/kit/logx"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const busyMsg = "系统繁忙，请稍后重试"

func mapBizCodeToClientCode(code app.Code) int {
	switch code {
	case app.CodeRaidNotStarted:
		return transport.RaidNotStarted
	case app.CodeRaidAlreadyRunning:
		return transport.RaidAlreadyRunning
	case app.CodePlacementRejected:
		return transport.PlacementRejected
	case app.CodeNothingDeployed:
		return transport.NothingDeployed
	case app.CodeHousingExceeded:
		return transport.HousingExceeded
	case app.CodeRaidFinished:
		return transport.RaidFinished
	case app.CodeUnknownTroop:
		return transport.UnknownTroop
	case app.CodeEmptyArmy:
		return transport.EmptyArmy
	case app.CodeInvalidParam:
		return transport.InvalidParam
	default:
		return transport.SystemError
	}
}

func mapSysCodeToClientCode(code app.Code) int {
	switch code {
	case app.CodeUnavailable:
		return transport.Unavailable
	case errx.CodeTimeout:
		return transport.Timeout
	default:
		return transport.SystemError
	}
}

// HandleError 把错误转换成客户端业务码和提示，并在这里统一打一次日志。
func (r *Raid) HandleError(ctx context.Context, action string, err error) (int, string) {
	if e, ok := errx.FromError(err); ok {
		transport.SetErrorReason(ctx, e.Reason())
		if e.IsBiz() {
			logx.ReportBizWithLoggerContext(ctx, r.Log, logx.NewBizLog(action, e.Reason(), e.Msg()))
			return mapBizCodeToClientCode(e.Code()), e.Msg()
		}
		logx.ReportSysErrorWithLoggerContext(ctx, r.Log, logx.NewSysLog(action, err))
		return mapSysCodeToClientCode(e.Code()), busyMsg
	}

	logx.ReportSysErrorWithLoggerContext(ctx, r.Log, logx.NewSysLog(action, err))
	code := raidactor.CodeFromError(err)
	if code == transport.Timeout {
		transport.SetErrorReason(ctx, "ACTOR_TIMEOUT")
		return code, "请求超时"
	}
	return code, busyMsg
}

// ToRPCError 供 grpc handler 使用。
func ToRPCError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, app.ErrInvalidParam),
		errors.Is(err, app.ErrPlacementRejected),
		errors.Is(err, app.ErrUnknownTroop),
		errors.Is(err, app.ErrHousingExceeded),
		errors.Is(err, app.ErrEmptyArmy),
		errors.Is(err, app.ErrNothingDeployed):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, app.ErrUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, errx.ErrTimeout):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
