// Package datachannel 实现单个对等连接上的数据通道服务
//
// Service 把宿主侧的创建、发送、关闭请求落到传输层：
//
//   - CreateDataChannel: 向传输层申请通道，按分配到的 ID 建立事件管道
//     "<namespace>/dataChannelEvent<id>" 与观察者，并登记到注册表
//   - Send: 按类型选择二进制或文本路径，交给传输层发送队列即返回
//   - Close: 原子摘除注册表条目，关闭传输层通道，销毁观察者与管道
//   - Resolve: 只读查找
//   - Shutdown: 连接拆除时释放全部条目
//
// 所有错误都通过返回值同步报告，事件管道只承载状态与消息事件。
package datachannel
