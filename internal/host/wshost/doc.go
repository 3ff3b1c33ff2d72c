// Package wshost 通过 WebSocket 向宿主暴露数据通道操作与事件管道
//
// 每个 WebSocket 二进制消息是一帧 CBOR map，kind 字段区分帧类型：
//
//	宿主 → 桥接:
//	  {kind:"call",   seq, method, args}
//	  {kind:"listen", seq, stream}
//	  {kind:"cancel", seq, stream}
//
//	桥接 → 宿主:
//	  {kind:"result", seq, result}
//	  {kind:"error",  seq, code, message}
//	  {kind:"event",  stream, data}
//	  {kind:"endOfStream", stream}
//
// 方法：createDataChannel、dataChannelSend、dataChannelClose。
// 事件帧进入有界队列，队列满时丢弃，不阻塞传输层回调。
// 会话结束时分离它监听的所有管道。
package wshost
