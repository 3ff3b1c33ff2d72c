// Package mocks 提供统一的测试 Mock 实现
//
// # 传输 Mock
//
//   - MockPeerConnection: 模拟 interfaces.PeerConnection，按序分配通道 ID
//   - MockDataChannel: 模拟 interfaces.DataChannel，可主动触发原生回调
//
// # 宿主 Mock
//
//   - RecordingSink: 记录推送事件的 interfaces.EventSink
//
// # 设计原则
//
// 1. 函数式注入: 每个 Mock 都支持通过 XxxFunc 字段注入自定义行为
// 2. 调用记录: 关键 Mock 记录调用历史，便于验证测试行为
// 3. 并发安全: 回调可能在其他 goroutine 触发，记录均受锁保护
//
// # 使用示例
//
//	pc := mocks.NewMockPeerConnection()
//	svc := datachannel.NewService("ns", pc, hub, nil)
//	info, _ := svc.CreateDataChannel("test", types.DefaultChannelConfig())
//
//	dc := pc.Channel(info.ID)
//	dc.FireStateChange(types.ChannelStateOpen)
//	dc.FireMessage([]byte{1, 2}, true)
package mocks
