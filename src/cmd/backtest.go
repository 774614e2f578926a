package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/xpwu/go-cmd/arg"
	"github.com/xpwu/go-cmd/cmd"

	"dexbot/src/backtest"
	"dexbot/src/binance"
	"dexbot/src/config"
	"dexbot/src/signal"
	"dexbot/src/timeframes"
)

// RegisterBacktestCmd 注册回测命令
func RegisterBacktestCmd() {
	var symbol string
	var tfStr string
	var days int
	var accumulateQuote bool
	var execThreshold float64
	var confThreshold float64

	cmd.RegisterCmd("backtest", "run signal backtest over historical data", func(args *arg.Arg) {
		args.String(&symbol, "symbol", "trading symbol (e.g., BTCUSDT)")
		args.String(&tfStr, "t", "timeframe (default: from config)")
		args.Int(&days, "days", "lookback days (default: from config)")
		args.Bool(&accumulateQuote, "quote", "account PnL in quote currency (default: base)")
		args.Float64(&execThreshold, "exec", "execution threshold (default: from config)")
		args.Float64(&confThreshold, "conf", "confidence threshold (default: from config)")
		args.Parse()

		if symbol == "" {
			fmt.Println("❌ Error: symbol is required")
			fmt.Println("💡 Usage: ./bin/dexbot backtest -symbol BTCUSDT [-t 10m] [-days 90]")
			os.Exit(1)
		}

		if err := runBacktest(symbol, tfStr, days, !accumulateQuote, execThreshold, confThreshold); err != nil {
			fmt.Printf("❌ Backtest failed: %v\n", err)
			os.Exit(1)
		}
	})
}

// runBacktest 拉取历史K线并运行一次回测
func runBacktest(symbol, tfStr string, days int, accumulatingBase bool, execThreshold, confThreshold float64) error {
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Printf("📊 回测: %s @ %s, %d天 (%d根K线)\n", symbol, tf, days, points)

	client := binance.NewClient(cfg.Binance.APIKey, cfg.Binance.SecretKey, cfg.Binance.BaseURL)
	candles, err := client.GetCandles(ctx, symbol, tf, points)
	if err != nil {
		return err
	}
	if len(candles) < signal.MinCandles {
		return fmt.Errorf("insufficient candles: %d, need %d", len(candles), signal.MinCandles)
	}

	params := signal.DefaultParameterSet()
	params.ExecutionThreshold = cfg.Strategy.ExecutionThreshold
	params.ConfidenceThreshold = cfg.Strategy.ConfidenceThreshold
	if execThreshold > 0 {
		params.ExecutionThreshold = execThreshold
	}
	if confThreshold > 0 {
		params.ConfidenceThreshold = confThreshold
	}

	simulator := backtest.NewSimulator(tf)
	result := simulator.Run(candles, params, accumulatingBase)

	printBacktestResult(result)
	return nil
}

// printBacktestResult 打印回测结果
func printBacktestResult(result *backtest.Result) {
	side := "base"
	if !result.AccumulatingBase {
		side = "quote"
	}

	fmt.Println("================================")
	fmt.Printf("📈 总交易次数:   %d (盈 %d / 亏 %d)\n", result.TotalTrades, result.WinningTrades, result.LosingTrades)
	fmt.Printf("🎯 胜率:         %.1f%%\n", result.WinRatePercent)
	fmt.Printf("💰 总收益(%s):  %.2f%%\n", side, result.TotalReturnPercent)
	fmt.Printf("📊 夏普比率:     %.4f\n", result.SharpeRatio)
	fmt.Printf("📉 最大回撤:     %.2f%%\n", result.MaxDrawdownPercent)
	fmt.Printf("⏱️ 平均持仓:     %d分钟\n", result.AvgTradeDurationMinutes)
	fmt.Printf("🌡️ 市场状态:     %s\n", result.MarketRegime)
	fmt.Println("================================")
}
