// Package pionrtc 基于 pion/webrtc 实现数据通道传输层
//
// PeerConnection 与 DataChannel 满足 interfaces 中的协作者接口：
//
//   - 通道配置映射为 webrtc.DataChannelInit，数值收窄为 uint16，
//     超出范围的值作为创建错误返回
//   - SCTP 流 ID 尚未分配时，通道使用 65536 起的临时 ID
//   - OnOpen/OnClose 映射为 open/closed，本地 Close 先上报 closing
//   - OnMessage 按 IsString 标志区分文本与二进制
//
// pion 内部日志通过 LoggerFactory 接入 pkg/lib/log。
package pionrtc
