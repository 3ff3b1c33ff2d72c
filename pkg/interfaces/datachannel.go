package interfaces

import "github.com/dep2p/go-dcbridge/pkg/types"

// DataChannelService 单个连接的数据通道服务
type DataChannelService interface {
	// Namespace 返回事件管道命名空间
	Namespace() string

	// CreateDataChannel 创建通道并注册观察者
	CreateDataChannel(label string, cfg types.ChannelConfig) (types.ChannelInfo, error)

	// Send 发送 data；msgType 为 "binary" 且 data 为字节序列时走二进制路径
	Send(id types.ChannelID, msgType string, data any) error

	// Close 关闭通道并销毁注册表条目
	Close(id types.ChannelID) error

	// Resolve 查找通道
	Resolve(id types.ChannelID) (DataChannel, bool)

	// Shutdown 释放所有条目（连接拆除路径）
	Shutdown() error
}

// ConnectionManager 按连接管理数据通道服务
type ConnectionManager interface {
	// Add 登记一个对等连接，id 为空时自动生成
	Add(id types.ConnectionID, pc PeerConnection) (types.ConnectionID, error)

	// Get 获取连接的数据通道服务
	Get(id types.ConnectionID) (DataChannelService, error)

	// Remove 拆除连接的所有通道
	Remove(id types.ConnectionID) error

	// IDs 返回所有连接 ID
	IDs() []types.ConnectionID
}
