package types

// ============================================================================
//                              ChannelState - 通道状态
// ============================================================================

// ChannelState 数据通道生命周期状态
//
// Connecting -> Open -> Closing -> Closed。
// 观察者不假设转换顺序，传输层报告什么就转发什么。
type ChannelState int

const (
	// ChannelStateUnknown 未知状态
	ChannelStateUnknown ChannelState = iota
	// ChannelStateConnecting 连接中
	ChannelStateConnecting
	// ChannelStateOpen 已打开
	ChannelStateOpen
	// ChannelStateClosing 关闭中
	ChannelStateClosing
	// ChannelStateClosed 已关闭
	ChannelStateClosed
)

// String 返回宿主侧使用的状态字符串
func (s ChannelState) String() string {
	switch s {
	case ChannelStateConnecting:
		return "connecting"
	case ChannelStateOpen:
		return "open"
	case ChannelStateClosing:
		return "closing"
	case ChannelStateClosed:
		return "closed"
	default:
		return ""
	}
}

// ParseChannelState 解析状态字符串
func ParseChannelState(s string) (ChannelState, bool) {
	switch s {
	case "connecting":
		return ChannelStateConnecting, true
	case "open":
		return ChannelStateOpen, true
	case "closing":
		return ChannelStateClosing, true
	case "closed":
		return ChannelStateClosed, true
	default:
		return ChannelStateUnknown, false
	}
}

// ============================================================================
//                              MessageType - 消息类型
// ============================================================================

// MessageType 负载类型
type MessageType string

const (
	// MessageTypeText 文本负载
	MessageTypeText MessageType = "text"
	// MessageTypeBinary 二进制负载
	MessageTypeBinary MessageType = "binary"
)

// MessageTypeOf 根据传输层的二进制标志返回消息类型
func MessageTypeOf(binary bool) MessageType {
	if binary {
		return MessageTypeBinary
	}
	return MessageTypeText
}

// String 返回字符串表示
func (t MessageType) String() string {
	return string(t)
}
