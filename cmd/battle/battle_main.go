package main

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"VillageRaid/internal/raid/app"
	"VillageRaid/internal/raid/infra/persistence/memory"
	raidgrpc "VillageRaid/internal/raid/interfaces/handler/grpc"
	"VillageRaid/internal/shared/gameconfig/building"
	"VillageRaid/internal/shared/gameconfig/troop"
	"VillageRaid/internal/shared/logs"
	"VillageRaid/internal/shared/serverconfig"
	transportgrpc "VillageRaid/internal/shared/transport/grpc"
	"VillageRaid/internal/shared/utils"
	"VillageRaid/modules/kit/logx"

	"go.uber.org/zap"
)

// battle 只对外提供无状态的模拟接口，不读写玩家兵力和战报。
func main() {
	if err := serverconfig.Load(); err != nil {
		panic(err)
	}
	if err := logs.Init("battle", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))

	conf := serverconfig.Conf
	host := conf.BattleServer.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, conf.BattleServer.Port)

	baseLogger := logx.NewZapLogger(logs.Logger())
	ids, err := utils.NewSnowflake(int64(conf.Raid.SnowflakeNodeID))
	if err != nil {
		logs.Fatal("init snowflake failed", zap.Error(err))
	}
	svc := app.NewRaidService(memory.NewRosterRepo(nil), memory.NewHistoryRepo(), troop.MustLoad(), building.MustLoad(), ids, baseLogger, app.Options{
		GridSize:        conf.Raid.GridSize,
		DeployBudget:    conf.Raid.DeployBudget(),
		MaxTicks:        conf.Raid.MaxTicks,
		HousingCapacity: conf.Raid.HousingCapacity,
	})

	server := transportgrpc.NewServer()
	raidgrpc.RegisterBattleServer(server, raidgrpc.NewBattle(svc, baseLogger))

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logs.Fatal("listen battle grpc failed", zap.Error(err))
	}
	defer func() {
		_ = lis.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logs.Info("battle grpc server started", zap.String("addr", addr))
		if err := server.Serve(lis); err != nil {
			errCh <- fmt.Errorf("battle grpc serve failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	stopCh := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(stopCh)
	}()
	select {
	case <-stopCh:
	case <-time.After(10 * time.Second):
		server.Stop()
	}
	_ = logs.Sync()
}
