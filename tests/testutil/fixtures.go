// Package testutil 提供测试辅助工具
package testutil

// 测试数据固件
//
// 提供测试中常用的常量值，确保测试一致性。

const (
	// DefaultTestNamespace 默认测试命名空间
	DefaultTestNamespace = "FlutterWebRTC"

	// DefaultTestLabel 默认测试通道标签
	DefaultTestLabel = "test"

	// DefaultTestConnection 默认测试连接 ID
	DefaultTestConnection = "pc-test"
)
