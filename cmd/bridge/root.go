package bridge

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/speedtest-bridge/internal/fetcher"
	"github.com/speedtest-bridge/internal/gauges"
	"github.com/speedtest-bridge/internal/selfstats"
	"github.com/speedtest-bridge/internal/server"
	"github.com/speedtest-bridge/pkg/config"
	"github.com/speedtest-bridge/pkg/logger"
	"github.com/speedtest-bridge/pkg/util"
)

var (
	cfgFile   string
	GlobalCfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "speedtest-bridge",
	Short: "Speedtest metrics bridge exposing internet speedtest results as Prometheus gauges",
	Long: "speedtest-bridge republishes internet-speedtest measurements (ping, throughput,\n" +
		"packet loss, jitter) as Prometheus gauges. Pick one ingestion variant:\n" +
		"  poll  - fetch the latest result from an upstream results API on each scrape\n" +
		"  push  - accept webhook deliveries and expose the last received values",
}

// Execute 入口，由 cmd/main.go 调用
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径 (optional YAML config file)")
	// 注册分组 flag
	initServerFlags(rootCmd)
	initUpstreamFlags(rootCmd)
	initLogFlags(rootCmd)

	rootCmd.AddCommand(pollCmd)
	rootCmd.AddCommand(pushCmd)
}

// runServer 两个变体共用的启动流程：配置 → 日志 → 注册器 → HTTP服务 → 信号监听
func runServer(cmd *cobra.Command, variant gauges.Variant) error {
	cfg, err := config.LoadConfigWithCli(cmd)
	if err != nil {
		// 统一输出错误到 stderr，不返回给 cobra
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "请检查配置文件路径或使用 -c 参数指定\n")
		os.Exit(1)
	}
	GlobalCfg = cfg

	if err := logger.Init(&cfg.Log); err != nil {
		return fmt.Errorf("日志初始化失败: %w", err)
	}
	defer logger.Sync()

	util.PrintBanner("speedtest-bridge", "ColorBlue")
	logger.SetDefaultComponent(string(variant))
	logger.Info("log initialization successful")

	// init Registry（进程指标开启，Go指标关闭）
	registry, gaugeBridge := gauges.InitPromRegistry(variant, true)
	registry.MustRegister(selfstats.NewCollector())

	opts := server.Options{
		Variant:  variant,
		Registry: registry,
		Bridge:   gaugeBridge,
	}
	if variant == gauges.VariantPoll {
		opts.Fetcher = fetcher.New(cfg.Upstream.ConfigPath)
	}

	httpServer := server.NewHTTPServer(&cfg.Server, opts)
	if err := httpServer.Start(); err != nil {
		return fmt.Errorf("start HTTP server failed: %w", err)
	}

	server.WaitForShutdown(func() error {
		if err := httpServer.Shutdown(); err != nil {
			return fmt.Errorf("shutdown HTTP server failed: %w", err)
		}
		logger.Info("all services shutdown successfully")
		return nil
	})
	return nil
}
