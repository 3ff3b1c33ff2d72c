// Package interfaces 定义 dcbridge 公共接口
//
// 接口分为三组：
//   - transport.go   - 传输层协作者（对等连接、数据通道、原生事件回调）
//   - conduit.go     - 宿主可寻址的事件管道（单监听者推送流）
//   - datachannel.go - 数据通道服务与连接管理
//
// 实现位于 internal/ 下，测试替身位于 tests/mocks。
package interfaces
