package pionrtc

import (
	"fmt"
	"math"
	"sync"

	"github.com/pion/webrtc/v4"

	pkgif "github.com/dep2p/go-dcbridge/pkg/interfaces"
	"github.com/dep2p/go-dcbridge/pkg/lib/log"
	"github.com/dep2p/go-dcbridge/pkg/types"
)

var logger = log.Logger("transport/pionrtc")

// ProvisionalIDBase 临时通道 ID 的起点，高于任何 SCTP 流 ID
const ProvisionalIDBase = math.MaxUint16 + 1

// PeerConnection pion 对等连接适配
type PeerConnection struct {
	pc *webrtc.PeerConnection

	mu              sync.Mutex
	nextProvisional types.ChannelID
}

var _ pkgif.PeerConnection = (*PeerConnection)(nil)

func newPeerConnection(pc *webrtc.PeerConnection) *PeerConnection {
	return &PeerConnection{
		pc:              pc,
		nextProvisional: ProvisionalIDBase,
	}
}

// Raw 返回底层 pion 连接，用于信令与远端通道处理
func (p *PeerConnection) Raw() *webrtc.PeerConnection {
	return p.pc
}

// CreateDataChannel 创建数据通道
//
// 可靠性参数原样交给 pion，由 pion 裁决（例如两个重传参数同时设置）。
func (p *PeerConnection) CreateDataChannel(label string, cfg types.ChannelConfig) (pkgif.DataChannel, error) {
	init, err := channelInit(cfg)
	if err != nil {
		return nil, err
	}

	dc, err := p.pc.CreateDataChannel(label, init)
	if err != nil {
		return nil, err
	}

	var id types.ChannelID
	if sid := dc.ID(); sid != nil {
		id = types.ChannelID(*sid)
	} else {
		p.mu.Lock()
		id = p.nextProvisional
		p.nextProvisional++
		p.mu.Unlock()
	}

	logger.Debug("pion data channel created", "label", label, "id", id, "provisional", dc.ID() == nil)
	return newDataChannel(dc, id), nil
}

// Close 关闭连接
func (p *PeerConnection) Close() error {
	return p.pc.Close()
}

// channelInit 将通道配置映射为 DataChannelInit
func channelInit(cfg types.ChannelConfig) (*webrtc.DataChannelInit, error) {
	ordered := cfg.Ordered
	protocol := cfg.Protocol
	init := &webrtc.DataChannelInit{
		Ordered:  &ordered,
		Protocol: &protocol,
	}

	if cfg.MaxRetransmitTimeMs != nil {
		v, err := toUint16("maxRetransmitTime", *cfg.MaxRetransmitTimeMs)
		if err != nil {
			return nil, err
		}
		init.MaxPacketLifeTime = &v
	}
	if cfg.MaxRetransmits != nil {
		v, err := toUint16("maxRetransmits", *cfg.MaxRetransmits)
		if err != nil {
			return nil, err
		}
		init.MaxRetransmits = &v
	}

	if cfg.Negotiated {
		negotiated := true
		init.Negotiated = &negotiated
		if cfg.ID != nil {
			v, err := toUint16("id", *cfg.ID)
			if err != nil {
				return nil, err
			}
			init.ID = &v
		}
	}
	return init, nil
}

func toUint16(field string, v int) (uint16, error) {
	if v < 0 || v > math.MaxUint16 {
		return 0, fmt.Errorf("%s %d out of range [0, %d]", field, v, math.MaxUint16)
	}
	return uint16(v), nil
}
