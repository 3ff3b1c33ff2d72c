package interfaces

// EventSink 宿主侧事件接收端
//
// 发射方不持锁调用 Success，实现可以在回调中分离自己，但不得阻塞。
// 管道只承载事件与流结束，错误由触发操作同步返回。
type EventSink interface {
	// Success 推送一个事件
	Success(event any)

	// EndOfStream 管道被销毁
	EndOfStream()
}

// StreamHandler 管道激活回调
//
// 宿主附加监听者时调用 OnListen，分离时调用 OnCancel。
type StreamHandler interface {
	OnListen(sink EventSink) error
	OnCancel() error
}

// EventConduit 单个具名事件管道
type EventConduit interface {
	// Name 返回管道名
	Name() string

	// SetStreamHandler 设置激活回调，nil 表示移除
	SetStreamHandler(h StreamHandler)
}

// ConduitHub 宿主可寻址的事件管道集合
type ConduitHub interface {
	// Register 创建具名管道
	Register(name string) (EventConduit, error)

	// Unregister 销毁管道；若有监听者，向其发送 EndOfStream
	Unregister(name string)

	// Listen 将 sink 附加为管道的监听者，替换已有监听者
	Listen(name string, sink EventSink) error

	// Cancel 分离管道的监听者
	Cancel(name string) error

	// Names 返回所有管道名
	Names() []string
}
