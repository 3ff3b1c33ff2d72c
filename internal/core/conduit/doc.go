// Package conduit 实现宿主可寻址的事件管道
//
// 每个管道有一个名字（如 "FlutterWebRTC/dataChannelEvent3"），
// 同一时刻至多一个监听者。宿主通过 Hub.Listen / Hub.Cancel 附加或分离监听者，
// 管道把激活与失活转交给注册的 StreamHandler（通常是通道观察者）。
//
// 管道本身不缓冲事件：没有监听者时，事件由发射方直接丢弃。
//
// # 并发安全
//
// Hub 使用 sync.RWMutex 保护名字表，每个 Conduit 自带互斥锁，
// 串行化 Listen / Cancel / SetStreamHandler / close。
// 锁顺序固定为 Conduit.mu -> StreamHandler 内部锁，发射路径不获取 Conduit.mu。
package conduit
