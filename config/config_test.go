package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Valid(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultNamespace, cfg.Namespace)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"空命名空间", func(c *Config) { c.Namespace = " " }},
		{"命名空间以斜杠结尾", func(c *Config) { c.Namespace = "ns/" }},
		{"非法 ICE 地址", func(c *Config) { c.Transport.ICEServers = []string{"http://x"} }},
		{"连接超时为零", func(c *Config) { c.Transport.ConnectTimeout = 0 }},
		{"路径不以斜杠开头", func(c *Config) { c.Host.Path = "ws" }},
		{"出站队列为零", func(c *Config) { c.Host.SendQueueSize = 0 }},
		{"指标关闭却配置监听", func(c *Config) { c.Metrics.Enabled = false; c.Metrics.ListenAddr = ":9100" }},
		{"未知日志格式", func(c *Config) { c.Log.Format = "xml" }},
		{"未知日志级别", func(c *Config) { c.Log.Level = "core/codec=loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}

func TestConfig_HostDisabledSkipsChecks(t *testing.T) {
	cfg := NewConfig()
	cfg.Host.Enabled = false
	cfg.Host.ListenAddr = ""
	assert.NoError(t, cfg.Validate())
}

func TestFromJSON(t *testing.T) {
	cfg, err := FromJSON([]byte(`{
		"namespace": "MyPlugin",
		"transport": {"ice_servers": ["stun:stun.example.org:3478"]},
		"host": {"enabled": true, "listen_addr": ":9000", "path": "/ws", "read_limit": 1024, "send_queue_size": 8, "write_timeout": "2s"}
	}`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "MyPlugin", cfg.Namespace)
	assert.Equal(t, []string{"stun:stun.example.org:3478"}, cfg.Transport.ICEServers)
	assert.Equal(t, 2*time.Second, cfg.Host.WriteTimeout.Duration())
	// 未出现的字段保留默认值
	assert.Equal(t, DefaultMetricsConfig(), cfg.Metrics)
	assert.Equal(t, defaultConnectTimeout, cfg.Transport.ConnectTimeout.Duration())

	_, err = FromJSON([]byte(`{"host": {"write_timeout": "soon"}}`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dcbridge.json")
	data, err := NewConfig().ToJSON()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDuration_JSONNumber(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte("1000")))
	assert.Equal(t, time.Microsecond, d.Duration())
	assert.Equal(t, "1µs", d.String())
}
