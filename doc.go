// Package dcbridge 将 WebRTC 数据通道桥接给事件驱动的宿主
//
// Bridge 为每个登记的对等连接维护数据通道注册表，把宿主的
// createDataChannel / dataChannelSend / dataChannelClose 请求落到传输层，
// 并把通道的状态变化与消息通过具名事件管道推送给宿主：
//
//	<namespace>/<connectionID>/dataChannelEvent<id>
//
// 快速开始:
//
//	b, err := dcbridge.New(dcbridge.WithHostAddr("127.0.0.1:8787"))
//	if err != nil { ... }
//	if err := b.Start(ctx); err != nil { ... }
//	defer b.Close()
//
//	connID, pc, err := b.NewPeerConnection("")
//	info, err := b.CreateDataChannel(connID, "chat", dcbridge.DefaultChannelConfig())
//	err = b.Send(connID, info.ID, "text", "hello")
//
// 宿主可以直接调用 Bridge，也可以通过 WebSocket + CBOR 帧远程接入
// （见 internal/host/wshost）。
package dcbridge
