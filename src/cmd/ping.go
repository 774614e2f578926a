package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/xpwu/go-cmd/arg"
	"github.com/xpwu/go-cmd/cmd"

	"dexbot/src/binance"
	"dexbot/src/config"
)

// RegisterPingCmd 注册ping测试命令
func RegisterPingCmd() {
	var verbose bool
	var timeout int

	cmd.RegisterCmd("ping", "test connectivity to Binance API server", func(args *arg.Arg) {
		args.Bool(&verbose, "v", "verbose output with detailed information")
		args.Int(&timeout, "t", "timeout in seconds (default: 10)")
		args.Parse()

		if timeout <= 0 {
			timeout = 10
		}

		if err := runPingTest(verbose, timeout); err != nil {
			fmt.Printf("❌ Ping test failed: %v\n", err)
			return
		}
		fmt.Println("✅ Ping test successful!")
	})
}

// runPingTest 执行ping测试
func runPingTest(verbose bool, timeoutSeconds int) error {
	if verbose {
		fmt.Println("🌐 币安API连通性测试")
		fmt.Printf("📡 目标服务器: %s\n", config.AppConfig.Binance.BaseURL)
	}

	// ping测试不需要API密钥
	client := binance.NewClient("", "", config.AppConfig.Binance.BaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	startTime := time.Now()
	err := client.Ping(ctx)
	latency := time.Since(startTime)

	if err != nil {
		return err
	}

	if verbose {
		fmt.Printf("⏱️ 响应延迟: %v\n", latency)

		serverTime, timeErr := client.GetServerTime(ctx)
		if timeErr == nil {
			fmt.Printf("🕐 服务器时间: %v\n", serverTime.Format("2006-01-02 15:04:05 MST"))
		}
	}

	return nil
}
