package codec

import (
	"fmt"

	"github.com/dep2p/go-dcbridge/pkg/types"
)

// 请求字段名
const (
	KeyID                = "id"
	KeyOrdered           = "ordered"
	KeyMaxRetransmitTime = "maxRetransmitTime"
	KeyMaxRetransmits    = "maxRetransmits"
	KeyProtocol          = "protocol"
	KeyNegotiated        = "negotiated"
	KeyLabel             = "label"
	KeyEvent             = "event"
	KeyState             = "state"
	KeyType              = "type"
	KeyData              = "data"
)

// optionalNonNegative 读取可选整数，负数视为未设置
func optionalNonNegative(m Map, key string) (*int, error) {
	n, ok, err := Int(m, key)
	if err != nil || !ok || n < 0 {
		return nil, err
	}
	return &n, nil
}

// DecodeChannelConfig 从 createDataChannel 的 dataChannelDict 解码通道配置
//
// 默认值：ordered=true，protocol 缺失或为 null 时取 "sctp"（显式空串保留），negotiated=false，
// 重传参数未设置。id 只对协商通道生效。
func DecodeChannelConfig(m Map) (types.ChannelConfig, error) {
	cfg := types.DefaultChannelConfig()

	ordered, ok, err := Bool(m, KeyOrdered)
	if err != nil {
		return cfg, err
	}
	if ok {
		cfg.Ordered = ordered
	}

	negotiated, _, err := Bool(m, KeyNegotiated)
	if err != nil {
		return cfg, err
	}
	cfg.Negotiated = negotiated

	if cfg.ID, err = optionalNonNegative(m, KeyID); err != nil {
		return cfg, err
	}
	if !cfg.Negotiated {
		cfg.ID = nil
	}

	if cfg.MaxRetransmitTimeMs, err = optionalNonNegative(m, KeyMaxRetransmitTime); err != nil {
		return cfg, err
	}
	if cfg.MaxRetransmits, err = optionalNonNegative(m, KeyMaxRetransmits); err != nil {
		return cfg, err
	}

	protocol, ok, err := String(m, KeyProtocol)
	if err != nil {
		return cfg, err
	}
	if ok {
		if len(protocol) > types.MaxProtocolLength {
			return cfg, fmt.Errorf("%w: field %q: %d bytes exceeds %d",
				types.ErrConfigDecode, KeyProtocol, len(protocol), types.MaxProtocolLength)
		}
		cfg.Protocol = protocol
	}

	return cfg, nil
}

// EncodeChannelConfig 将通道配置编码为 dataChannelDict，是 DecodeChannelConfig 的逆操作
func EncodeChannelConfig(cfg types.ChannelConfig) Map {
	m := Map{
		KeyOrdered:    cfg.Ordered,
		KeyProtocol:   cfg.Protocol,
		KeyNegotiated: cfg.Negotiated,
	}
	if cfg.ID != nil {
		m[KeyID] = *cfg.ID
	}
	if cfg.MaxRetransmitTimeMs != nil {
		m[KeyMaxRetransmitTime] = *cfg.MaxRetransmitTimeMs
	}
	if cfg.MaxRetransmits != nil {
		m[KeyMaxRetransmits] = *cfg.MaxRetransmits
	}
	return m
}

// DecodeSendPayload 按发送类型解析负载
//
// msgType 为 "binary" 且 data 为 []byte 时返回二进制负载（空切片也是二进制）；
// 否则 data 必须是字符串，按文本发送。
func DecodeSendPayload(msgType string, data any) (payload []byte, binary bool, err error) {
	if msgType == string(types.MessageTypeBinary) {
		if b, ok := data.([]byte); ok {
			if b == nil {
				b = []byte{}
			}
			return b, true, nil
		}
	}
	switch v := data.(type) {
	case string:
		return []byte(v), false, nil
	case nil:
		return nil, false, fmt.Errorf("%w: field %q is required", types.ErrConfigDecode, KeyData)
	default:
		return nil, false, typeError(KeyData, "string", data)
	}
}

// EncodeCreateResult 编码 createDataChannel 的响应
func EncodeCreateResult(info types.ChannelInfo) Map {
	return Map{
		KeyID:    int(info.ID),
		KeyLabel: info.Label,
	}
}

// EncodeStateChanged 编码状态变化事件
func EncodeStateChanged(ev types.StateChangedEvent) Map {
	return Map{
		KeyEvent: types.EventDataChannelStateChanged,
		KeyID:    int(ev.ID),
		KeyState: ev.State.String(),
	}
}

// EncodeMessage 编码消息事件
//
// 二进制负载保持为 []byte，文本负载转为 string。
func EncodeMessage(ev types.MessageEvent) Map {
	m := Map{
		KeyEvent: types.EventDataChannelReceiveMessage,
		KeyID:    int(ev.ID),
		KeyType:  ev.Type.String(),
	}
	if ev.Type == types.MessageTypeBinary {
		data := make([]byte, len(ev.Data))
		copy(data, ev.Data)
		m[KeyData] = data
	} else {
		m[KeyData] = string(ev.Data)
	}
	return m
}
