package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xpwu/go-cmd/arg"
	"github.com/xpwu/go-cmd/cmd"
	"github.com/xpwu/go-log/log"

	"dexbot/src/binance"
	"dexbot/src/config"
	"dexbot/src/database"
	"dexbot/src/monitor"
)

// RegisterMonitorCmd 注册信号评估循环命令
func RegisterMonitorCmd() {
	var noOptimize bool

	cmd.RegisterCmd("monitor", "run live signal evaluation loop for active trades", func(args *arg.Arg) {
		args.Bool(&noOptimize, "no-optimize", "disable the background parameter optimization worker")
		args.Parse()

		if err := runMonitor(!noOptimize); err != nil && err != context.Canceled {
			fmt.Printf("❌ Monitor failed: %v\n", err)
			os.Exit(1)
		}
	})
}

// runMonitor 连接数据库并运行评估循环，Ctrl+C优雅退出
func runMonitor(withOptimizer bool) error {
	cfg := config.AppConfig

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Monitor")

	db, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}

	client := binance.NewClient(cfg.Binance.APIKey, cfg.Binance.SecretKey, cfg.Binance.BaseURL)
	candles := database.NewCandleManager(db, client)

	mon := monitor.NewMonitor(db, candles, monitor.Options{
		Interval:            time.Duration(cfg.Monitor.IntervalSeconds) * time.Second,
		CandleLimit:         cfg.Monitor.CandleLimit,
		Timeframe:           cfg.GetTimeframe(),
		ExecutionThreshold:  cfg.Strategy.ExecutionThreshold,
		ConfidenceThreshold: cfg.Strategy.ConfidenceThreshold,
		MinFlipInterval:     time.Duration(cfg.Strategy.MinFlipIntervalMin) * time.Minute,
	})

	// Ctrl+C优雅退出
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalChan
		fmt.Println("\n🔄 Shutting down...")
		cancel()
	}()

	if withOptimizer {
		worker := monitor.NewOptimizeWorker(db, candles, monitor.OptimizeOptions{
			Interval:     time.Duration(cfg.Monitor.OptimizeIntervalDay) * 24 * time.Hour,
			LookbackDays: cfg.Backtest.LookbackDays,
			Timeframe:    cfg.GetTimeframe(),
		})

		go func() {
			if err := worker.Run(ctx); err != nil && err != context.Canceled {
				logger.Error("参数优化任务退出: " + err.Error())
			}
		}()
	}

	fmt.Println("🤖 信号评估循环已启动，Press Ctrl+C to stop...")
	return mon.Run(ctx)
}
