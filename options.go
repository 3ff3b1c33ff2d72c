package dcbridge

import (
	"errors"
	"strings"

	"go.uber.org/fx"

	"github.com/dep2p/go-dcbridge/config"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	config *config.Config

	// 用户扩展
	userFxOptions []fx.Option
}

func newOptions() *options {
	return &options{config: config.NewConfig()}
}

// WithConfig 使用完整配置替换默认配置
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		c := *cfg
		o.config = &c
		return nil
	}
}

// WithNamespace 设置事件管道命名空间
func WithNamespace(ns string) Option {
	return func(o *options) error {
		o.config.Namespace = ns
		return nil
	}
}

// WithHostAddr 启用 WebSocket 宿主桥接并设置监听地址
func WithHostAddr(addr string) Option {
	return func(o *options) error {
		if addr == "" {
			return errors.New("host address is empty")
		}
		o.config.Host.Enabled = true
		o.config.Host.ListenAddr = addr
		return nil
	}
}

// WithoutHost 不启动 WebSocket 宿主桥接，只通过 Go API 使用
func WithoutHost() Option {
	return func(o *options) error {
		o.config.Host.Enabled = false
		return nil
	}
}

// WithMetrics 开关指标收集
func WithMetrics(enabled bool) Option {
	return func(o *options) error {
		o.config.Metrics.Enabled = enabled
		if !enabled {
			o.config.Metrics.ListenAddr = ""
		}
		return nil
	}
}

// WithICEServers 设置 STUN/TURN 服务器
func WithICEServers(urls ...string) Option {
	return func(o *options) error {
		o.config.Transport.ICEServers = append([]string(nil), urls...)
		return nil
	}
}

// WithMDNS 开关 mDNS 候选
func WithMDNS(enable bool) Option {
	return func(o *options) error {
		o.config.Transport.EnableMDNS = enable
		return nil
	}
}

// WithLogFile 将日志写入文件
func WithLogFile(path string) Option {
	return func(o *options) error {
		o.config.Log.File = strings.TrimSpace(path)
		return nil
	}
}

// WithLogLevel 设置日志级别，格式同 DCBRIDGE_LOG_LEVEL
func WithLogLevel(spec string) Option {
	return func(o *options) error {
		o.config.Log.Level = spec
		return nil
	}
}

// WithFxOption 追加自定义 Fx 选项
func WithFxOption(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
