package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	matchactor "Warfront/internal/match/actor"
	"Warfront/internal/match/actors"
	"Warfront/internal/match/dc"
	"Warfront/internal/match/interfaces"
	"Warfront/internal/match/interfaces/handler"
	"Warfront/internal/match/rules"
	"Warfront/internal/shared/config"
	"Warfront/internal/shared/logs"
	"Warfront/internal/shared/metrics"
	"Warfront/internal/shared/serverconfig"
	"Warfront/internal/shared/transport/grpc"
	transporthttp "Warfront/internal/shared/transport/http"
	"Warfront/internal/shared/transport/ws"
	"Warfront/modules/kit/logx"
)

func main() {
	path, err := serverconfig.Load("", config.WithWatch(onConfigChange))
	if err != nil {
		panic(err)
	}
	if err := logs.Init("arena", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.String("path", path), zap.Any("conf", serverconfig.Conf))

	conf := serverconfig.Conf
	arenaHost := conf.Arena.Host
	if arenaHost == "" {
		arenaHost = "0.0.0.0"
	}
	arenaAddr := fmt.Sprintf("%s:%d", arenaHost, conf.Arena.Port)
	grpcAddr := fmt.Sprintf("%s:%d", arenaHost, conf.Arena.GRPCPort)
	baseLogger := logx.NewZapLogger(logs.Logger())
	arenaMetrics := metrics.New()

	store, closeStore, err := openStore(conf)
	if err != nil {
		logs.Fatal("open match store failed", zap.Error(err))
	}
	defer closeStore()

	archive := dc.NewArchiveDC(store,
		dc.WithLogger(baseLogger),
		dc.WithRetryDelay(time.Duration(conf.Store.RetryDelayMs)*time.Millisecond),
		dc.WithSaveTimeout(time.Duration(conf.Store.SaveTimeoutS)*time.Second),
		dc.WithErrorHook(func(error) { arenaMetrics.ArchiveFailed() }),
	)

	runtime := matchactor.NewRuntime(actors.Deps{
		Rules:       rules.FromConfig(conf.Sim),
		Archive:     archive,
		Metrics:     arenaMetrics,
		Log:         baseLogger,
		MaxSessions: conf.Arena.MaxSessions,
	}, time.Duration(conf.Arena.AskTimeoutMs)*time.Millisecond)

	seatTTL := time.Duration(conf.Auth.SeatTTLMin) * time.Minute
	matchModule := interfaces.New(handler.NewArena(runtime, store, seatTTL), baseLogger)

	wsRouter := ws.NewRouter(baseLogger)
	wsModules := []ws.Registrar{
		matchModule,
	}
	for _, m := range wsModules {
		m.WsRegister(wsRouter)
	}

	httpServer := transporthttp.NewHttpServer(arenaAddr, nil, baseLogger)
	httpModules := []transporthttp.Registrar{
		matchModule,
	}
	for _, m := range httpModules {
		m.HttpRegister(httpServer.Group())
	}

	wsServer := ws.NewServer(wsRouter, baseLogger, matchModule.WsOptions(conf.Arena.NeedSecret, conf.Auth.FrameKey, conf.Auth.FrameIV))
	httpServer.Engine().GET("/ws", gin.WrapH(wsServer))
	httpServer.Engine().GET("/metrics", gin.WrapH(arenaMetrics.Handler()))

	health, err := grpc.NewHealthServer(grpcAddr, baseLogger)
	if err != nil {
		logs.Fatal("listen grpc health failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("arena server start failed: %w", err)
			return
		}
		errCh <- nil
	}()
	go func() {
		if err := health.Start(); err != nil {
			errCh <- fmt.Errorf("grpc health server failed: %w", err)
		}
	}()
	health.SetServing(true)
	logs.Info("arena started", zap.String("http", arenaAddr), zap.String("grpc", health.Addr()))

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	// 逆序关闭：先停止对外服务，再停 actor（进行中的对局会归档），最后写完归档队列
	health.SetServing(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	health.Stop()
	runtime.Shutdown()
	if err := archive.Close(shutdownCtx); err != nil {
		logs.Error("archive close failed", zap.Error(err))
	}
}

// onConfigChange 热更只应用日志级别，其余配置需要重启。
func onConfigChange(decode func(dst any) error) {
	var next serverconfig.Config
	if err := decode(&next); err != nil {
		logs.Warn("config reload decode failed", zap.Error(err))
		return
	}
	if logs.SetLevel(next.Log.Level) {
		logs.Info("log level reloaded", zap.String("level", next.Log.Level))
	}
}
