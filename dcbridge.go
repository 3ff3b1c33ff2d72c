package dcbridge

import (
	"github.com/dep2p/go-dcbridge/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              版本信息
// ════════════════════════════════════════════════════════════════════════════

// Version 当前版本
const Version = "v0.1.0"

// BuildInfo 构建信息（通过 ldflags 注入）
var (
	// GitCommit Git 提交哈希
	GitCommit string

	// BuildDate 构建日期
	BuildDate string
)

// VersionInfo 返回完整版本信息字符串
func VersionInfo() string {
	info := "dcbridge " + Version
	if GitCommit != "" {
		info += " (" + GitCommit[:min(8, len(GitCommit))] + ")"
	}
	if BuildDate != "" {
		info += " built " + BuildDate
	}
	return info
}

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

type (
	// ChannelID 数据通道 ID
	ChannelID = types.ChannelID

	// ConnectionID 对等连接 ID
	ConnectionID = types.ConnectionID

	// ChannelConfig 数据通道配置
	ChannelConfig = types.ChannelConfig

	// ChannelInfo CreateDataChannel 的返回值
	ChannelInfo = types.ChannelInfo

	// ChannelState 通道状态
	ChannelState = types.ChannelState
)

// DefaultChannelConfig 返回默认通道配置：可靠、保序、子协议 "sctp"
func DefaultChannelConfig() ChannelConfig {
	return types.DefaultChannelConfig()
}
