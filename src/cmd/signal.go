package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/xpwu/go-cmd/arg"
	"github.com/xpwu/go-cmd/cmd"

	"dexbot/src/binance"
	"dexbot/src/config"
	"dexbot/src/signal"
	"dexbot/src/timeframes"
)

// RegisterSignalCmd 注册一次性信号评估命令
func RegisterSignalCmd() {
	var symbol string
	var tfStr string
	var limit int

	cmd.RegisterCmd("signal", "evaluate composite signal for a symbol once", func(args *arg.Arg) {
		args.String(&symbol, "symbol", "trading symbol (e.g., BTCUSDT)")
		args.String(&tfStr, "t", "timeframe (default: from config)")
		args.Int(&limit, "limit", "number of candles (default: from config)")
		args.Parse()

		if symbol == "" {
			fmt.Println("❌ Error: symbol is required")
			fmt.Println("💡 Usage: ./bin/dexbot signal -symbol BTCUSDT [-t 10m] [-limit 150]")
			os.Exit(1)
		}

		if err := runSignal(symbol, tfStr, limit); err != nil {
			fmt.Printf("❌ Signal evaluation failed: %v\n", err)
			os.Exit(1)
		}
	})
}

// runSignal 拉取K线并输出一次综合评估
func runSignal(symbol, tfStr string, limit int) error {
	cfg := config.AppConfig

	tf := cfg.GetTimeframe()
	if tfStr != "" {
		parsed, err := timeframes.ParseTimeframe(tfStr)
		if err != nil {
			return err
		}
		tf = parsed
	}
	if limit <= 0 {
		limit = cfg.Monitor.CandleLimit
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client := binance.NewClient(cfg.Binance.APIKey, cfg.Binance.SecretKey, cfg.Binance.BaseURL)
	candles, err := client.GetCandles(ctx, symbol, tf, limit)
	if err != nil {
		return err
	}

	fmt.Printf("📊 %s @ %s, %d根K线\n", symbol, tf, len(candles))

	params := signal.DefaultParameterSet()
	params.ExecutionThreshold = cfg.Strategy.ExecutionThreshold
	params.ConfidenceThreshold = cfg.Strategy.ConfidenceThreshold

	if len(candles) < signal.MinCandles {
		fmt.Printf("⚠️ 决策: %s (K线不足: %d < %d)\n", signal.DecisionInsufficientData, len(candles), signal.MinCandles)
		return nil
	}

	engine := signal.NewEngine()
	eval := engine.Evaluate(candles, params)

	fmt.Println("--------------------------------")
	for _, result := range eval.Scores {
		status := ""
		if result.Err != nil {
			status = fmt.Sprintf("  (%v)", result.Err)
		}
		fmt.Printf("  %-10s %+.4f%s\n", result.Name, result.Score, status)
	}
	fmt.Println("--------------------------------")
	fmt.Printf("综合评分:   %+.4f\n", eval.Score)
	fmt.Printf("置信度:     %.4f\n", eval.Confidence)
	fmt.Printf("市场状态:   %s\n", eval.Regime)
	fmt.Printf("决策:       %s\n", signal.Decide(eval, params))

	return nil
}
