package config

import (
	"errors"
	"strings"
	"time"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultWriteTimeout   = 5 * time.Second
)

// HostConfig 宿主桥接配置
//
// 宿主通过 WebSocket 连接，帧内容为 CBOR。
type HostConfig struct {
	// Enabled 是否启动宿主桥接
	Enabled bool `json:"enabled"`

	// ListenAddr 监听地址
	ListenAddr string `json:"listen_addr"`

	// Path WebSocket 路径
	Path string `json:"path"`

	// ReadLimit 单帧最大字节数
	ReadLimit int64 `json:"read_limit"`

	// SendQueueSize 每个会话的出站队列长度，队列满时丢弃事件
	SendQueueSize int `json:"send_queue_size"`

	// WriteTimeout 单帧写超时
	WriteTimeout Duration `json:"write_timeout"`

	// AllowedOrigins 允许的 Origin，为空时只允许同源或无 Origin
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
}

// DefaultHostConfig 返回默认宿主配置
func DefaultHostConfig() HostConfig {
	return HostConfig{
		Enabled:       true,
		ListenAddr:    "127.0.0.1:8787",
		Path:          "/dcbridge",
		ReadLimit:     16 * 1024 * 1024,
		SendQueueSize: 256,
		WriteTimeout:  Duration(defaultWriteTimeout),
	}
}

// Validate 验证宿主配置
func (c HostConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.ListenAddr == "" {
		return errors.New("listen_addr must not be empty")
	}
	if !strings.HasPrefix(c.Path, "/") {
		return errors.New("path must start with '/'")
	}
	if c.ReadLimit <= 0 {
		return errors.New("read_limit must be positive")
	}
	if c.SendQueueSize <= 0 {
		return errors.New("send_queue_size must be positive")
	}
	if c.WriteTimeout <= 0 {
		return errors.New("write_timeout must be positive")
	}
	return nil
}
