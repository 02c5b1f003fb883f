package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"sudooom.rummy/internal/config"
	"sudooom.rummy/internal/game"
	"sudooom.rummy/internal/game/rummy"
	"sudooom.rummy/internal/game/rummy/core"
	"sudooom.rummy/internal/handler"
	"sudooom.rummy/internal/health"
	rummyNats "sudooom.rummy/internal/nats"
	"sudooom.rummy/internal/router"
	"sudooom.rummy/internal/task"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径，为空时只使用默认值和环境变量")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.App.LogLevel),
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Rummy service exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 连接 NATS，最后关闭，调度器停止前电脑回合仍会推送状态
	var (
		natsClient *rummyNats.Client
		notifier   rummy.Notifier
		natsHealth health.ConnChecker
	)
	if cfg.NATS.Enabled {
		client, err := rummyNats.NewClient(cfg.NATS, cfg.App.Name)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Drain(); err != nil {
				logger.Warn("Failed to drain NATS connection", "error", err)
				client.Close()
			}
		}()
		natsClient = client
		logger.Info("Connected to NATS", "url", cfg.NATS.URL)

		notifier = rummyNats.NewStatePublisher(natsClient.Conn())
		natsHealth = natsClient
	}

	// 启动任务调度器，电脑玩家的回合在这里执行
	scheduler := task.NewScheduler(task.Config{
		Tick:        cfg.Scheduler.Tick,
		Slots:       cfg.Scheduler.Slots,
		Workers:     cfg.Scheduler.Workers,
		TaskTimeout: cfg.Scheduler.TaskTimeout,
	})
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	// 初始化服务
	rummyService := rummy.NewService(rummyConfig(cfg.Rummy), scheduler, notifier)
	gameManager := game.NewGameManager(cfg.Rummy.MaxTables, cfg.Rummy.EvictTimeout)
	defer gameManager.Shutdown(context.Background())
	gameService := game.NewGameService(gameManager, rummyService)

	checker := health.NewChecker(natsHealth, scheduler, gameService)

	// 启动命令订阅者
	if natsClient != nil {
		subscriber := rummyNats.NewCommandSubscriber(natsClient.Conn(), handler.NewCommandHandler(gameService), rummyNats.SubscriberConfig{
			WorkerCount: cfg.NATS.WorkerCount,
			BufferSize:  cfg.NATS.BufferSize,
		})
		if err := subscriber.Start(ctx); err != nil {
			return err
		}
		defer subscriber.Stop()
		checker.WithCommandBuffer(subscriber)
	}

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router.SetupRouter(cfg.HTTP.Mode, checker, handler.NewGameHandler(gameService)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	logger.Info("Rummy service started", "name", cfg.App.Name)
	err := g.Wait()
	logger.Info("Rummy service stopped")
	return err
}

// rummyConfig 把配置文件中的牌桌参数转换为服务配置
func rummyConfig(cfg config.RummyConfig) rummy.Config {
	return rummy.Config{
		Game: core.GameConfig{
			MinPlayers:           cfg.MinPlayers,
			MaxPlayers:           cfg.MaxPlayers,
			HandSize:             cfg.HandSize,
			InitialMeldThreshold: cfg.InitialMeldThreshold,
		},
		PlayChance:    cfg.ComputerPlayChance,
		ThinkDelayMin: cfg.ThinkDelayMin,
		ThinkDelayMax: cfg.ThinkDelayMax,
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
