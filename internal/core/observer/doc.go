// Package observer 实现数据通道观察者
//
// 每个通道一个 Observer：
//   - 作为通道原生事件的唯一处理器（interfaces.ChannelEventHandler）
//   - 作为事件管道的激活回调（interfaces.StreamHandler），持有当前监听者
//   - 把状态变化和消息重新编码为结构化事件推入管道
//
// 推送是尽力而为的：只在有监听者时推送，不排队、不重放。
//
// # 并发安全
//
// 监听者引用与 disposed 标志由同一把锁保护。发射在持锁状态下
// “检查并使用”监听者，因此与 OnCancel / Dispose 之间不存在半推送：
// 一个事件要么完整交给监听者，要么被完整丢弃。
// 监听者实现不得阻塞（见 interfaces.EventSink）。
package observer
