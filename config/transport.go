package config

import (
	"errors"
	"fmt"
	"strings"
)

// TransportConfig pion 传输层配置
type TransportConfig struct {
	// ICEServers STUN/TURN 地址，如 "stun:stun.l.google.com:19302"
	ICEServers []string `json:"ice_servers,omitempty"`

	// EnableMDNS 是否启用 mDNS 候选
	EnableMDNS bool `json:"enable_mdns"`

	// ConnectTimeout 本地回环连接的超时
	ConnectTimeout Duration `json:"connect_timeout"`
}

// DefaultTransportConfig 返回默认传输配置
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		EnableMDNS:     false,
		ConnectTimeout: Duration(defaultConnectTimeout),
	}
}

// Validate 验证传输配置
func (c TransportConfig) Validate() error {
	for _, s := range c.ICEServers {
		if !strings.HasPrefix(s, "stun:") && !strings.HasPrefix(s, "stuns:") &&
			!strings.HasPrefix(s, "turn:") && !strings.HasPrefix(s, "turns:") {
			return fmt.Errorf("invalid ICE server url %q", s)
		}
	}
	if c.ConnectTimeout <= 0 {
		return errors.New("connect_timeout must be positive")
	}
	return nil
}
