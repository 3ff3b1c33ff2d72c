package types

import "errors"

// ============================================================================
//                              数据通道错误
// ============================================================================

var (
	// ErrConfigDecode 请求字段缺失或类型错误
	ErrConfigDecode = errors.New("config decode error")

	// ErrChannelCreation 传输层拒绝创建通道
	ErrChannelCreation = errors.New("channel creation failed")

	// ErrChannelNotFound 通道 ID 不存在（也用于识别重复关闭）
	ErrChannelNotFound = errors.New("data channel not found")

	// ErrSendRejected 传输层拒绝入队
	ErrSendRejected = errors.New("send rejected")
)

// ============================================================================
//                              连接与管道错误
// ============================================================================

var (
	// ErrConnectionNotFound 连接不存在
	ErrConnectionNotFound = errors.New("peer connection not found")

	// ErrConnectionExists 连接 ID 已被占用
	ErrConnectionExists = errors.New("peer connection already exists")

	// ErrConduitNotFound 事件管道不存在
	ErrConduitNotFound = errors.New("event conduit not found")

	// ErrConduitExists 事件管道名已被占用
	ErrConduitExists = errors.New("event conduit already exists")

	// ErrBridgeClosed Bridge 已关闭
	ErrBridgeClosed = errors.New("bridge closed")
)
