package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	raidactor "VillageRaid/internal/raid/actor"
	"VillageRaid/internal/raid/app"
	"VillageRaid/internal/raid/infra/persistence/memory"
	raidmongo "VillageRaid/internal/raid/infra/persistence/mongodb"
	raidmysql "VillageRaid/internal/raid/infra/persistence/mysql"
	"VillageRaid/internal/raid/interfaces"
	"VillageRaid/internal/raid/interfaces/handler"
	"VillageRaid/internal/shared/gameconfig/building"
	"VillageRaid/internal/shared/gameconfig/troop"
	shareddb "VillageRaid/internal/shared/infrastructure/db"
	sharedmongo "VillageRaid/internal/shared/infrastructure/mongo"
	"VillageRaid/internal/shared/logs"
	"VillageRaid/internal/shared/serverconfig"
	"VillageRaid/internal/shared/session"
	transporthttp "VillageRaid/internal/shared/transport/http"
	"VillageRaid/internal/shared/transport/ws"
	"VillageRaid/internal/shared/utils"
	"VillageRaid/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := serverconfig.Load(); err != nil {
		panic(err)
	}
	if err := logs.Init("raid", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))

	conf := serverconfig.Conf
	host := conf.HTTPServer.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, conf.HTTPServer.Port)

	baseLogger := logx.NewZapLogger(logs.Logger())

	roster, history, closeStorage, err := openStorage(conf)
	if err != nil {
		logs.Fatal("open storage failed", zap.String("driver", conf.Storage.Driver), zap.Error(err))
	}
	defer closeStorage()

	ids, err := utils.NewSnowflake(int64(conf.Raid.SnowflakeNodeID))
	if err != nil {
		logs.Fatal("init snowflake failed", zap.Error(err))
	}

	svc := app.NewRaidService(roster, history, troop.MustLoad(), building.MustLoad(), ids, baseLogger, app.Options{
		GridSize:        conf.Raid.GridSize,
		DeployBudget:    conf.Raid.DeployBudget(),
		MaxTicks:        conf.Raid.MaxTicks,
		HistoryLimit:    conf.Raid.HistoryLimit,
		HousingCapacity: conf.Raid.HousingCapacity,
	})

	sessMgr := session.NewSessMgr()
	rt := raidactor.NewRuntime(svc, handler.NewWsNotifier(sessMgr, baseLogger), conf.Raid.AskTimeout(), conf.Raid.CountdownPoll())
	defer rt.Shutdown()

	raidModule := interfaces.New(rt, svc, sessMgr, baseLogger)

	wsRouter := ws.NewRouter(baseLogger)
	wsRouter.Register(raidModule)

	httpServer := transporthttp.NewHttpServer(addr, nil, baseLogger)
	httpServer.Register(raidModule)

	wsServer := ws.NewServer(wsRouter, baseLogger, conf.HTTPServer.NeedSecret)
	httpServer.Engine().Any("/ws", gin.WrapH(wsServer))
	httpServer.Engine().Any("/ws/*any", gin.WrapH(wsServer))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logs.Info("raid server started", zap.String("addr", addr), zap.String("storage", conf.Storage.Driver))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("raid server start failed: %w", err)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	_ = logs.Sync()
}

// openStorage 按配置选择兵力与战报的存储：memory 仅用于本地开发，persistent 走 mysql + mongodb。
func openStorage(conf serverconfig.Config) (app.RosterRepo, app.HistoryRepo, func(), error) {
	if conf.Storage.Driver != serverconfig.StoragePersistent {
		return memory.NewRosterRepo(nil), memory.NewHistoryRepo(), func() {}, nil
	}

	gdb, err := shareddb.Open(conf.MySQL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open mysql: %w", err)
	}
	roster := raidmysql.NewRosterRepo(gdb)
	if err := roster.AutoMigrate(); err != nil {
		return nil, nil, nil, fmt.Errorf("migrate roster: %w", err)
	}

	client, mdb, err := sharedmongo.Open(conf.MongoDB, logs.Logger())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open mongodb: %w", err)
	}
	closeFn := func() {
		_ = client.Disconnect(context.Background())
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return roster, raidmongo.NewHistoryRepo(mdb), closeFn, nil
}
