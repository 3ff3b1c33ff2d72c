package pionrtc

import (
	"github.com/pion/ice/v4"
	"github.com/pion/webrtc/v4"

	"github.com/dep2p/go-dcbridge/config"
)

// API 对等连接工厂
type API struct {
	api        *webrtc.API
	iceServers []webrtc.ICEServer
}

// NewAPI 按传输配置创建 pion API
func NewAPI(cfg config.TransportConfig) *API {
	se := webrtc.SettingEngine{
		LoggerFactory: loggerFactory{},
	}
	if cfg.EnableMDNS {
		se.SetICEMulticastDNSMode(ice.MulticastDNSModeQueryAndGather)
	} else {
		se.SetICEMulticastDNSMode(ice.MulticastDNSModeDisabled)
	}

	var servers []webrtc.ICEServer
	if len(cfg.ICEServers) > 0 {
		servers = []webrtc.ICEServer{{URLs: append([]string(nil), cfg.ICEServers...)}}
	}

	return &API{
		api:        webrtc.NewAPI(webrtc.WithSettingEngine(se)),
		iceServers: servers,
	}
}

// NewPeerConnection 创建对等连接
func (a *API) NewPeerConnection() (*PeerConnection, error) {
	pc, err := a.api.NewPeerConnection(webrtc.Configuration{
		ICEServers: a.iceServers,
	})
	if err != nil {
		return nil, err
	}
	return newPeerConnection(pc), nil
}
