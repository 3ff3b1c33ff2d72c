// Package types 定义 dcbridge 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 dcbridge 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - ids.go     - ChannelID, ConnectionID
//   - enums.go   - ChannelState, MessageType
//   - channel.go - ChannelConfig, ChannelInfo
//   - events.go  - 数据通道事件（状态变化、消息到达）
//   - errors.go  - 公共错误定义
package types
