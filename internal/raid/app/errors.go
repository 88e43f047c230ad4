package app

import "VillageRaid/modules/kit/errx"

// Code 表示应用层错误码。
type Code = errx.Code

const (
	CodeRaidNotStarted     Code = "RAID_NOT_STARTED"
	CodeRaidAlreadyRunning Code = "RAID_ALREADY_RUNNING"
	CodePlacementRejected  Code = "RAID_PLACEMENT_REJECTED"
	CodeNothingDeployed    Code = "RAID_NOTHING_DEPLOYED"
	CodeHousingExceeded    Code = "RAID_HOUSING_EXCEEDED"
	CodeRaidFinished       Code = "RAID_FINISHED"
	CodeUnknownTroop       Code = "RAID_UNKNOWN_TROOP"
	CodeEmptyArmy          Code = "RAID_EMPTY_ARMY"
	CodeInvalidParam       Code = errx.CodeInvalidParam
	CodeInternalServer     Code = errx.CodeInternal
	CodeUnavailable        Code = errx.CodeUnavailable
)

type Error = errx.Error

func NewError(code Code, msg string) *Error {
	return errx.NewBiz(code, msg)
}

func Wrap(code Code, msg string, cause error) *Error {
	return errx.NewSys(code, msg).WithCause(cause)
}

// 哨兵错误只读，需要附加信息时用 With* 派生。
var (
	ErrRaidNotStarted     = errx.NewBiz(CodeRaidNotStarted, "当前没有进行中的突袭")
	ErrRaidAlreadyRunning = errx.NewBiz(CodeRaidAlreadyRunning, "已有进行中的突袭")
	ErrPlacementRejected  = errx.NewBiz(CodePlacementRejected, "该位置不能部署")
	ErrNothingDeployed    = errx.NewBiz(CodeNothingDeployed, "还没有部署任何部队")
	ErrHousingExceeded    = errx.NewBiz(CodeHousingExceeded, "部队人口超过上限")
	ErrRaidFinished       = errx.NewBiz(CodeRaidFinished, "突袭已经结束")
	ErrUnknownTroop       = errx.NewBiz(CodeUnknownTroop, "未知兵种")
	ErrEmptyArmy          = errx.NewBiz(CodeEmptyArmy, "没有可出战的部队")
	ErrInvalidParam       = errx.ErrInvalidParam
	ErrInternalServer     = errx.ErrInternal
	ErrUnavailable        = errx.ErrUnavailable
)
