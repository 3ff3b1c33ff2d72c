// Package config 提供统一的配置管理
//
// 主 Config 结构体嵌入所有子配置，每个子配置在独立文件中定义，
// 支持从 JSON 加载和保存。
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Namespace = "MyPlugin"
//	cfg.Host.ListenAddr = "127.0.0.1:9000"
//
//	// 从 JSON 文件加载
//	cfg, err := config.LoadFile("dcbridge.json")
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// DefaultNamespace 默认事件管道命名空间
const DefaultNamespace = "FlutterWebRTC"

// Config 是 dcbridge 的完整配置结构
//
//   - Namespace: 事件管道命名空间（管道名为 "<namespace>/dataChannelEvent<id>"）
//   - Transport: pion 传输层
//   - Host: 宿主桥接（WebSocket + CBOR）
//   - Metrics: Prometheus 指标
//   - Log: 日志
type Config struct {
	// Namespace 事件管道命名空间
	Namespace string `json:"namespace"`

	// Transport 传输层配置
	Transport TransportConfig `json:"transport"`

	// Host 宿主桥接配置
	Host HostConfig `json:"host"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Namespace: DefaultNamespace,
		Transport: DefaultTransportConfig(),
		Host:      DefaultHostConfig(),
		Metrics:   DefaultMetricsConfig(),
		Log:       DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.Namespace) == "" {
		return errors.New("namespace must not be empty")
	}
	if strings.HasSuffix(c.Namespace, "/") {
		return fmt.Errorf("namespace %q must not end with '/'", c.Namespace)
	}
	if err := c.Transport.Validate(); err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	if err := c.Host.Validate(); err != nil {
		return fmt.Errorf("host: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return c.Log.Validate()
}

// FromJSON 从 JSON 解析配置，未出现的字段保留默认值
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadFile 从 JSON 文件加载配置
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return FromJSON(data)
}

// ToJSON 序列化配置
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
