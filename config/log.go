package config

import (
	"fmt"
	"strings"

	"github.com/dep2p/go-dcbridge/pkg/lib/log"
)

// LogConfig 日志配置
type LogConfig struct {
	// Level 级别配置，格式同 DCBRIDGE_LOG_LEVEL（如 "core/observer=debug,info"）
	Level string `json:"level"`

	// Format text 或 json
	Format string `json:"format"`

	// File 日志文件路径，为空时输出到 stderr
	File string `json:"file,omitempty"`

	// FxEvents 是否输出依赖注入事件
	FxEvents bool `json:"fx_events"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate 验证日志配置
func (c LogConfig) Validate() error {
	switch strings.ToLower(c.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log format %q must be text or json", c.Format)
	}
	for _, part := range strings.Split(c.Level, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, v, ok := strings.Cut(part, "="); ok {
			part = v
		}
		if _, ok := log.ParseLevel(part); !ok {
			return fmt.Errorf("unknown log level %q", part)
		}
	}
	return nil
}
