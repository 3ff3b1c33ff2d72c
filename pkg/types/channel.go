package types

// DefaultProtocol 未指定子协议时使用的协议名
const DefaultProtocol = "sctp"

// MaxProtocolLength 子协议名最大字节数（DCEP 中为 16 位长度字段）
const MaxProtocolLength = 65535

// ChannelConfig 数据通道配置
//
// 可靠性参数原样交给传输层，由传输层裁决。
// MaxRetransmitTimeMs 和 MaxRetransmits 同时设置也会被透传。
type ChannelConfig struct {
	// ID 协商通道预先指定的 ID，仅在 Negotiated 为 true 时生效
	ID *int

	// Ordered 是否保序
	Ordered bool

	// MaxRetransmitTimeMs 最大重传时间（毫秒）
	MaxRetransmitTimeMs *int

	// MaxRetransmits 最大重传次数
	MaxRetransmits *int

	// Protocol 子协议名，空串表示不带子协议
	Protocol string

	// Negotiated 是否带外协商
	Negotiated bool
}

// DefaultChannelConfig 返回默认配置：可靠、保序、非协商
func DefaultChannelConfig() ChannelConfig {
	return ChannelConfig{
		Ordered:  true,
		Protocol: DefaultProtocol,
	}
}

// IntPtr 返回 v 的指针，便于构造可选字段
func IntPtr(v int) *int {
	return &v
}

// ChannelInfo CreateDataChannel 的返回值
type ChannelInfo struct {
	ID    ChannelID
	Label string
}
