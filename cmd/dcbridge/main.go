// Package main 提供 dcbridge 命令行入口
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-dcbridge"
	"github.com/dep2p/go-dcbridge/config"
	"github.com/dep2p/go-dcbridge/internal/core/transport/stunprobe"
	"github.com/dep2p/go-dcbridge/pkg/lib/log"
)

var logger = log.Logger("dcbridge/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
//   命令行参数：运行时覆盖 / 快速测试
//   JSON 配置文件：持久化配置
//
// 优先级：命令行 > 环境变量（DCBRIDGE_*） > 配置文件 > 默认值
var (
	configFile  = flag.String("config", "", "配置文件路径（JSON）")
	hostAddr    = flag.String("host", "", "宿主桥接监听地址，如 127.0.0.1:8787")
	noHost      = flag.Bool("no-host", false, "不启动宿主桥接")
	namespace   = flag.String("namespace", "", "事件管道命名空间")
	metricsAddr = flag.String("metrics", "", "/metrics 监听地址")
	logFile     = flag.String("log", "", "日志文件路径")
	logLevel    = flag.String("log-level", "", "日志级别，如 info 或 core/observer=debug,info")

	loopback  = flag.Bool("loopback", false, "建立进程内回环连接并演示收发")
	probeSTUN = flag.Bool("probe-stun", false, "探测配置中的 STUN 服务器后退出")

	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(dcbridge.VersionInfo())
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *probeSTUN {
		return runProbe(ctx, cfg)
	}

	b, err := dcbridge.New(dcbridge.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("创建失败: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("close bridge", "err", err)
		}
	}()

	if err := b.Start(ctx); err != nil {
		return err
	}
	printInfo(b)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Enabled && cfg.Metrics.ListenAddr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.ListenAddr,
			Handler:           metricsMux(b),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("metrics listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if *loopback {
		g.Go(func() error {
			return runLoopback(gctx, b, cfg)
		})
	}

	fmt.Println("dcbridge 已启动，按 Ctrl+C 退出")
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Println("\n正在关闭...")
	return nil
}

// loadConfig 按优先级合并配置
func loadConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg)

	if isFlagSet("namespace") {
		cfg.Namespace = *namespace
	}
	if isFlagSet("host") && *hostAddr != "" {
		cfg.Host.Enabled = true
		cfg.Host.ListenAddr = *hostAddr
	}
	if *noHost {
		cfg.Host.Enabled = false
	}
	if isFlagSet("metrics") {
		cfg.Metrics.ListenAddr = *metricsAddr
		if *metricsAddr != "" {
			cfg.Metrics.Enabled = true
		}
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isFlagSet 检查命令行参数是否被显式设置
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func metricsMux(b *dcbridge.Bridge) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", b.MetricsHandler())
	return mux
}

// runProbe 探测 STUN 服务器并打印映射地址
func runProbe(ctx context.Context, cfg *config.Config) error {
	prober := stunprobe.New(cfg.Transport.ICEServers)
	results, err := prober.ProbeAll(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("  %-40s 失败: %v\n", r.Server, r.Err)
			continue
		}
		fmt.Printf("  %-40s %-22s %s\n", r.Server, r.Addr, r.RTT.Round(time.Millisecond))
	}
	if failed == len(results) {
		return errors.New("all STUN servers failed")
	}
	return nil
}

func printInfo(b *dcbridge.Bridge) {
	cfg := b.Config()
	fmt.Println()
	fmt.Printf("📦 %s\n", dcbridge.VersionInfo())
	fmt.Printf("  Namespace: %s\n", cfg.Namespace)
	if addr := b.HostAddr(); addr != "" {
		fmt.Printf("  Host:      ws://%s%s\n", addr, cfg.Host.Path)
	}
	if cfg.Metrics.ListenAddr != "" {
		fmt.Printf("  Metrics:   http://%s/metrics\n", cfg.Metrics.ListenAddr)
	}
	if cfg.Log.File != "" {
		fmt.Printf("  Log file:  %s\n", cfg.Log.File)
	}
	fmt.Println()
}
