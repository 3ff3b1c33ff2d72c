package pionrtc

import (
	"sync"

	"github.com/pion/webrtc/v4"

	pkgif "github.com/dep2p/go-dcbridge/pkg/interfaces"
	"github.com/dep2p/go-dcbridge/pkg/types"
)

// DataChannel pion 数据通道适配
type DataChannel struct {
	dc *webrtc.DataChannel
	id types.ChannelID

	mu      sync.Mutex
	handler pkgif.ChannelEventHandler
	closing bool
}

var _ pkgif.DataChannel = (*DataChannel)(nil)

func newDataChannel(dc *webrtc.DataChannel, id types.ChannelID) *DataChannel {
	d := &DataChannel{dc: dc, id: id}

	dc.OnOpen(func() {
		d.dispatchState(types.ChannelStateOpen)
	})
	dc.OnClose(func() {
		d.dispatchState(types.ChannelStateClosed)
	})
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		d.dispatchMessage(msg.Data, !msg.IsString)
	})
	dc.OnError(func(err error) {
		logger.Warn("data channel error", "id", id, "label", dc.Label(), "err", err)
	})
	return d
}

// ID 返回创建时确定的通道 ID
func (d *DataChannel) ID() types.ChannelID { return d.id }

// StreamID 返回 SCTP 流 ID，尚未分配时 ok 为 false
func (d *DataChannel) StreamID() (uint16, bool) {
	sid := d.dc.ID()
	if sid == nil {
		return 0, false
	}
	return *sid, true
}

// Label 返回标签
func (d *DataChannel) Label() string { return d.dc.Label() }

// Protocol 返回子协议
func (d *DataChannel) Protocol() string { return d.dc.Protocol() }

// Ordered 是否保序
func (d *DataChannel) Ordered() bool { return d.dc.Ordered() }

// Negotiated 是否协商
func (d *DataChannel) Negotiated() bool { return d.dc.Negotiated() }

// BufferedAmount 返回发送缓冲字节数
func (d *DataChannel) BufferedAmount() uint64 { return d.dc.BufferedAmount() }

// State 返回当前状态
func (d *DataChannel) State() types.ChannelState {
	switch d.dc.ReadyState() {
	case webrtc.DataChannelStateConnecting:
		return types.ChannelStateConnecting
	case webrtc.DataChannelStateOpen:
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.closing {
			return types.ChannelStateClosing
		}
		return types.ChannelStateOpen
	case webrtc.DataChannelStateClosing:
		return types.ChannelStateClosing
	case webrtc.DataChannelStateClosed:
		return types.ChannelStateClosed
	default:
		return types.ChannelStateUnknown
	}
}

// Send 按二进制标志选择 Send 或 SendText
func (d *DataChannel) Send(data []byte, binary bool) error {
	if binary {
		return d.dc.Send(data)
	}
	return d.dc.SendText(string(data))
}

// Close 关闭通道，先上报 closing
func (d *DataChannel) Close() error {
	d.mu.Lock()
	already := d.closing
	d.closing = true
	d.mu.Unlock()

	if !already {
		d.dispatchState(types.ChannelStateClosing)
	}
	return d.dc.Close()
}

// RegisterObserver 设置事件处理器
func (d *DataChannel) RegisterObserver(h pkgif.ChannelEventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handler = h
}

// UnregisterObserver 移除事件处理器
func (d *DataChannel) UnregisterObserver() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handler = nil
}

func (d *DataChannel) current() pkgif.ChannelEventHandler {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.handler
}

func (d *DataChannel) dispatchState(state types.ChannelState) {
	if h := d.current(); h != nil {
		h.OnStateChange(state)
	}
}

func (d *DataChannel) dispatchMessage(data []byte, binary bool) {
	if h := d.current(); h != nil {
		h.OnMessage(data, binary)
	}
}
