package dcbridge

import "github.com/dep2p/go-dcbridge/pkg/types"

// 公共错误定义
//
// 与 pkg/types 中的哨兵错误是同一个值，可以直接用 errors.Is 判断。
var (
	// ────────────────────────────────────────────────────────────────────────
	// 数据通道错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrConfigDecode 请求字段缺失或类型错误
	ErrConfigDecode = types.ErrConfigDecode

	// ErrChannelCreation 传输层拒绝创建通道
	ErrChannelCreation = types.ErrChannelCreation

	// ErrChannelNotFound 通道不存在，重复关闭也返回它
	ErrChannelNotFound = types.ErrChannelNotFound

	// ErrSendRejected 传输层拒绝入队
	ErrSendRejected = types.ErrSendRejected

	// ────────────────────────────────────────────────────────────────────────
	// 连接与生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrConnectionNotFound 连接不存在
	ErrConnectionNotFound = types.ErrConnectionNotFound

	// ErrConnectionExists 连接 ID 已被占用
	ErrConnectionExists = types.ErrConnectionExists

	// ErrConduitNotFound 事件管道不存在
	ErrConduitNotFound = types.ErrConduitNotFound

	// ErrBridgeClosed Bridge 已关闭
	ErrBridgeClosed = types.ErrBridgeClosed
)
