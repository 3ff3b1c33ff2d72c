package conduit

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	pkgif "github.com/dep2p/go-dcbridge/pkg/interfaces"
	"github.com/dep2p/go-dcbridge/pkg/lib/log"
	"github.com/dep2p/go-dcbridge/pkg/types"
)

var logger = log.Logger("core/conduit")

var errConduitClosed = errors.New("event conduit closed")

// Hub 事件管道集合
type Hub struct {
	mu       sync.RWMutex
	conduits map[string]*Conduit
}

var _ pkgif.ConduitHub = (*Hub)(nil)

// NewHub 创建管道集合
func NewHub() *Hub {
	return &Hub{
		conduits: make(map[string]*Conduit),
	}
}

// Register 创建具名管道
func (h *Hub) Register(name string) (pkgif.EventConduit, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.conduits[name]; exists {
		return nil, fmt.Errorf("%w: %s", types.ErrConduitExists, name)
	}
	c := newConduit(name)
	h.conduits[name] = c
	logger.Debug("conduit registered", "conduit", name)
	return c, nil
}

// Unregister 销毁管道
func (h *Hub) Unregister(name string) {
	h.mu.Lock()
	c, ok := h.conduits[name]
	if ok {
		delete(h.conduits, name)
	}
	h.mu.Unlock()

	if ok {
		c.close()
		logger.Debug("conduit unregistered", "conduit", name)
	}
}

// Lookup 查找管道
func (h *Hub) Lookup(name string) (*Conduit, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.conduits[name]
	return c, ok
}

// Listen 附加监听者
func (h *Hub) Listen(name string, sink pkgif.EventSink) error {
	c, ok := h.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrConduitNotFound, name)
	}
	if err := c.listen(sink); err != nil {
		if errors.Is(err, errConduitClosed) {
			return fmt.Errorf("%w: %s", types.ErrConduitNotFound, name)
		}
		return err
	}
	return nil
}

// Cancel 分离监听者
func (h *Hub) Cancel(name string) error {
	c, ok := h.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrConduitNotFound, name)
	}
	return c.cancel()
}

// CancelSink 分离指定监听者
//
// 监听者已被替换或管道已销毁时什么也不做，会话退出时用它避免误伤新的监听者。
func (h *Hub) CancelSink(name string, sink pkgif.EventSink) error {
	c, ok := h.Lookup(name)
	if !ok {
		return nil
	}
	return c.cancelSink(sink)
}

// Names 返回所有管道名（已排序）
func (h *Hub) Names() []string {
	h.mu.RLock()
	names := make([]string, 0, len(h.conduits))
	for name := range h.conduits {
		names = append(names, name)
	}
	h.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Close 销毁所有管道
func (h *Hub) Close() error {
	h.mu.Lock()
	conduits := h.conduits
	h.conduits = make(map[string]*Conduit)
	h.mu.Unlock()

	for _, c := range conduits {
		c.close()
	}
	return nil
}
