// Package interfaces 定义 dcbridge 公共接口
//
// 本文件定义传输层协作者接口。
package interfaces

import "github.com/dep2p/go-dcbridge/pkg/types"

// PeerConnection 对等连接（外部协作者）
//
// 只暴露数据通道子系统需要的能力，协商与 ICE 不在此范围。
type PeerConnection interface {
	// CreateDataChannel 请求传输层创建数据通道
	//
	// 返回的通道 ID 由传输层分配，协商通道则确认预设 ID。
	CreateDataChannel(label string, cfg types.ChannelConfig) (DataChannel, error)

	// Close 关闭连接
	Close() error
}

// DataChannel 活动数据通道句柄
type DataChannel interface {
	// ID 返回通道 ID
	ID() types.ChannelID

	// Label 返回通道标签
	Label() string

	// Protocol 返回生效的子协议
	Protocol() string

	// Ordered 是否保序
	Ordered() bool

	// Negotiated 是否带外协商
	Negotiated() bool

	// State 返回当前状态
	State() types.ChannelState

	// BufferedAmount 返回发送队列中尚未发出的字节数
	BufferedAmount() uint64

	// Send 交给传输层发送队列，binary 对应二进制标志
	//
	// 返回 nil 仅表示传输层已接受，不代表对端已收到。
	Send(data []byte, binary bool) error

	// Close 关闭通道
	Close() error

	// RegisterObserver 设置唯一的原生事件处理器
	RegisterObserver(h ChannelEventHandler)

	// UnregisterObserver 移除事件处理器，之后的回调被丢弃
	UnregisterObserver()
}

// ChannelEventHandler 原生通道事件回调
//
// 回调在传输层控制的 goroutine 上触发，与调用方操作异步。
type ChannelEventHandler interface {
	// OnStateChange 状态变化
	OnStateChange(state types.ChannelState)

	// OnMessage 收到消息
	OnMessage(data []byte, binary bool)
}
