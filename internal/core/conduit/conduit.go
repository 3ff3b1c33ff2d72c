package conduit

import (
	"sync"

	pkgif "github.com/dep2p/go-dcbridge/pkg/interfaces"
)

// Conduit 单个具名事件管道
type Conduit struct {
	name string

	mu      sync.Mutex
	handler pkgif.StreamHandler
	sink    pkgif.EventSink
	closed  bool
}

var _ pkgif.EventConduit = (*Conduit)(nil)

func newConduit(name string) *Conduit {
	return &Conduit{name: name}
}

// Name 返回管道名
func (c *Conduit) Name() string {
	return c.name
}

// SetStreamHandler 设置激活回调
//
// 若已有监听者，新 handler 立即收到 OnListen。
func (c *Conduit) SetStreamHandler(h pkgif.StreamHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.handler != nil && c.sink != nil {
		_ = c.handler.OnCancel()
	}
	c.handler = h
	if h != nil && c.sink != nil {
		if err := h.OnListen(c.sink); err != nil {
			logger.Warn("stream handler rejected listener", "conduit", c.name, "err", err)
		}
	}
}

// Listening 是否有监听者
func (c *Conduit) Listening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sink != nil
}

// listen 附加监听者，替换已有监听者
func (c *Conduit) listen(sink pkgif.EventSink) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errConduitClosed
	}
	if c.handler != nil && c.sink != nil {
		_ = c.handler.OnCancel()
	}
	c.sink = sink
	if c.handler == nil {
		return nil
	}
	if err := c.handler.OnListen(sink); err != nil {
		c.sink = nil
		return err
	}
	return nil
}

// cancel 分离监听者，重复调用无副作用
func (c *Conduit) cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sink == nil {
		return nil
	}
	c.sink = nil
	if c.handler == nil {
		return nil
	}
	return c.handler.OnCancel()
}

// cancelSink 仅当 sink 仍是当前监听者时分离
func (c *Conduit) cancelSink(sink pkgif.EventSink) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sink == nil || c.sink != sink {
		return nil
	}
	c.sink = nil
	if c.handler == nil {
		return nil
	}
	return c.handler.OnCancel()
}

// close 销毁管道，通知监听者流已结束
func (c *Conduit) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	sink := c.sink
	c.sink = nil
	if c.handler != nil && sink != nil {
		_ = c.handler.OnCancel()
	}
	c.handler = nil
	if sink != nil {
		sink.EndOfStream()
	}
}
