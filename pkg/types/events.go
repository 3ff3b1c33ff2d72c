package types

// 推送到事件管道的事件名
const (
	// EventDataChannelStateChanged 通道状态变化
	EventDataChannelStateChanged = "dataChannelStateChanged"
	// EventDataChannelReceiveMessage 收到消息
	EventDataChannelReceiveMessage = "dataChannelReceiveMessage"
)

// StateChangedEvent 通道状态变化事件
type StateChangedEvent struct {
	ID    ChannelID
	State ChannelState
}

// MessageEvent 消息到达事件
//
// Type 来自传输层的二进制标志，不根据内容推断。
type MessageEvent struct {
	ID   ChannelID
	Type MessageType
	Data []byte
}
