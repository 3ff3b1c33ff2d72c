package observer

import (
	"sync"

	"github.com/dep2p/go-dcbridge/internal/core/codec"
	"github.com/dep2p/go-dcbridge/internal/core/metrics"
	pkgif "github.com/dep2p/go-dcbridge/pkg/interfaces"
	"github.com/dep2p/go-dcbridge/pkg/lib/log"
	"github.com/dep2p/go-dcbridge/pkg/types"
)

var logger = log.Logger("core/observer")

// Observer 数据通道观察者
type Observer struct {
	id          types.ChannelID
	channel     pkgif.DataChannel
	hub         pkgif.ConduitHub
	conduitName string
	metrics     *metrics.Collector

	mu       sync.Mutex
	sink     pkgif.EventSink
	disposed bool
}

var (
	_ pkgif.ChannelEventHandler = (*Observer)(nil)
	_ pkgif.StreamHandler       = (*Observer)(nil)
)

// New 创建观察者
//
// 在 hub 上注册名为 conduitName 的管道并成为其激活回调，
// 然后注册为通道原生事件的唯一处理器。
func New(ch pkgif.DataChannel, hub pkgif.ConduitHub, conduitName string, mc *metrics.Collector) (*Observer, error) {
	conduit, err := hub.Register(conduitName)
	if err != nil {
		return nil, err
	}

	o := &Observer{
		id:          ch.ID(),
		channel:     ch,
		hub:         hub,
		conduitName: conduitName,
		metrics:     mc,
	}
	conduit.SetStreamHandler(o)
	ch.RegisterObserver(o)
	return o, nil
}

// ID 返回通道 ID
func (o *Observer) ID() types.ChannelID {
	return o.id
}

// ConduitName 返回管道名
func (o *Observer) ConduitName() string {
	return o.conduitName
}

// Listening 是否有监听者
func (o *Observer) Listening() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sink != nil
}

// ============================================================================
//                              管道激活
// ============================================================================

// OnListen 设置当前监听者
func (o *Observer) OnListen(sink pkgif.EventSink) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.disposed {
		return nil
	}
	o.sink = sink
	logger.Debug("listener attached", "id", o.id, "conduit", o.conduitName)
	return nil
}

// OnCancel 清除当前监听者
func (o *Observer) OnCancel() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sink != nil {
		logger.Debug("listener detached", "id", o.id, "conduit", o.conduitName)
	}
	o.sink = nil
	return nil
}

// ============================================================================
//                              原生事件
// ============================================================================

// OnStateChange 转发状态变化
func (o *Observer) OnStateChange(state types.ChannelState) {
	o.emit(types.EventDataChannelStateChanged, codec.EncodeStateChanged(types.StateChangedEvent{
		ID:    o.id,
		State: state,
	}))
}

// OnMessage 转发消息，类型取自传输层的二进制标志
func (o *Observer) OnMessage(data []byte, binary bool) {
	msgType := types.MessageTypeOf(binary)
	o.metrics.MessageReceived(msgType, len(data))
	o.emit(types.EventDataChannelReceiveMessage, codec.EncodeMessage(types.MessageEvent{
		ID:   o.id,
		Type: msgType,
		Data: data,
	}))
}

// emit 在锁内取出监听者，在锁外推送
//
// 监听者可以在 Success 中分离自己或关闭通道。
// 与分离并发的事件要么完整送达旧监听者，要么被丢弃。
func (o *Observer) emit(event string, payload codec.Map) {
	o.mu.Lock()
	sink := o.sink
	if o.disposed {
		sink = nil
	}
	o.mu.Unlock()

	if sink == nil {
		o.metrics.EventDropped(metrics.DropNoListener)
		return
	}
	sink.Success(payload)
	o.metrics.EventEmitted(event)
}

// ============================================================================
//                              销毁
// ============================================================================

// Dispose 注销原生事件处理器并销毁管道，重复调用无副作用
func (o *Observer) Dispose() {
	o.mu.Lock()
	if o.disposed {
		o.mu.Unlock()
		return
	}
	o.disposed = true
	o.sink = nil
	o.mu.Unlock()

	// 不持锁：Unregister 会回调 OnCancel
	o.channel.UnregisterObserver()
	o.hub.Unregister(o.conduitName)
	logger.Debug("observer disposed", "id", o.id, "conduit", o.conduitName)
}
