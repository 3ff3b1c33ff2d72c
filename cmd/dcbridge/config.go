package main

import (
	"os"
	"strings"

	"github.com/dep2p/go-dcbridge/config"
)

// 环境变量（DCBRIDGE_ 前缀），优先级高于配置文件、低于命令行
const (
	envNamespace   = "DCBRIDGE_NAMESPACE"
	envHostAddr    = "DCBRIDGE_HOST_ADDR"
	envICEServers  = "DCBRIDGE_ICE_SERVERS"
	envMetricsAddr = "DCBRIDGE_METRICS_ADDR"
	envLogFile     = "DCBRIDGE_LOG_FILE"
)

// applyEnvOverrides 应用环境变量覆盖配置
//
// DCBRIDGE_LOG_LEVEL 由 Bridge 自己读取。
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv(envNamespace); v != "" {
		cfg.Namespace = v
	}
	if v := os.Getenv(envHostAddr); v != "" {
		cfg.Host.Enabled = true
		cfg.Host.ListenAddr = v
	}
	if v := os.Getenv(envICEServers); v != "" {
		cfg.Transport.ICEServers = splitAndTrim(v, ",")
	}
	if v := os.Getenv(envMetricsAddr); v != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddr = v
	}
	if v := os.Getenv(envLogFile); v != "" {
		cfg.Log.File = v
	}
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
