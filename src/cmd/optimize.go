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
	"dexbot/src/optimizer"
	"dexbot/src/signal"
	"dexbot/src/timeframes"
)

// RegisterOptimizeCmd 注册参数优化命令
func RegisterOptimizeCmd() {
	var symbol string
	var tfStr string
	var days int
	var accumulateQuote bool

	cmd.RegisterCmd("optimize", "grid-search strategy parameters over historical data", func(args *arg.Arg) {
		args.String(&symbol, "symbol", "trading symbol (e.g., BTCUSDT)")
		args.String(&tfStr, "t", "timeframe (default: from config)")
		args.Int(&days, "days", "lookback days (default: from config)")
		args.Bool(&accumulateQuote, "quote", "account PnL in quote currency (default: base)")
		args.Parse()

		if symbol == "" {
			fmt.Println("❌ Error: symbol is required")
			fmt.Println("💡 Usage: ./bin/dexbot optimize -symbol BTCUSDT [-t 10m] [-days 90]")
			os.Exit(1)
		}

		if err := runOptimize(symbol, tfStr, days, !accumulateQuote); err != nil {
			fmt.Printf("❌ Optimization failed: %v\n", err)
			os.Exit(1)
		}
	})
}

// runOptimize 拉取历史K线并运行一次网格搜索
func runOptimize(symbol, tfStr string, days int, accumulatingBase bool) error {
	cfg := config.AppConfig

	tf := cfg.GetTimeframe()
	if tfStr != "" {
		parsed, err := timeframes.ParseTimeframe(tfStr)
		if err != nil {
			return err
		}
		tf = parsed
	}
	if days <= 0 {
		days = cfg.Backtest.LookbackDays
	}

	points, err := tf.CalculateDataPoints(days)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	fmt.Printf("🔍 参数优化: %s @ %s, %d天, %d种组合\n", symbol, tf, days, len(optimizer.Combinations()))

	client := binance.NewClient(cfg.Binance.APIKey, cfg.Binance.SecretKey, cfg.Binance.BaseURL)
	candles, err := client.GetCandles(ctx, symbol, tf, points)
	if err != nil {
		return err
	}
	if len(candles) < signal.MinCandles {
		return fmt.Errorf("insufficient candles: %d, need %d", len(candles), signal.MinCandles)
	}

	opt := optimizer.NewOptimizer(tf)
	result, err := opt.Optimize(ctx, candles, accumulatingBase)
	if err != nil {
		return err
	}

	paramsJSON, err := result.BestParams.ToJSON()
	if err != nil {
		return err
	}

	fmt.Println("================================")
	fmt.Printf("🏆 最优适应度:   %.4f\n", result.BestScore)
	fmt.Printf("⚙️ 最优参数:     %s\n", paramsJSON)
	fmt.Println("--------------------------------")
	printBacktestResult(result.BestResult)
	return nil
}
