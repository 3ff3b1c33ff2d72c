// Package registry 维护通道 ID 到（通道句柄，观察者）的映射
//
// 每个条目是一个整体：插入时同时持有句柄与观察者，
// 删除时原子地从表中摘除，再由 Entry.Release 注销观察者并释放句柄引用。
// 表结构受互斥锁保护，传输层回调与调用方操作可以并发访问。
package registry

import (
	"fmt"
	"sort"
	"sync"

	pkgif "github.com/dep2p/go-dcbridge/pkg/interfaces"
	"github.com/dep2p/go-dcbridge/pkg/lib/log"
	"github.com/dep2p/go-dcbridge/pkg/types"
)

var logger = log.Logger("core/registry")

// Disposer 随条目一起销毁的观察者
type Disposer interface {
	Dispose()
}

// Entry 注册表条目
type Entry struct {
	ID       types.ChannelID
	Channel  pkgif.DataChannel
	Observer Disposer

	releaseOnce sync.Once
}

// Release 注销观察者并释放句柄引用，重复调用无副作用
func (e *Entry) Release() {
	e.releaseOnce.Do(func() {
		if e.Observer != nil {
			e.Observer.Dispose()
		}
		e.Channel = nil
		e.Observer = nil
	})
}

// Registry 通道注册表
type Registry struct {
	mu      sync.RWMutex
	entries map[types.ChannelID]*Entry
}

// New 创建注册表
func New() *Registry {
	return &Registry{
		entries: make(map[types.ChannelID]*Entry),
	}
}

// Insert 插入条目
//
// ID 已存在时返回错误，原条目保持不变。
func (r *Registry) Insert(id types.ChannelID, ch pkgif.DataChannel, obs Disposer) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		return nil, fmt.Errorf("channel id %d already registered", id)
	}
	e := &Entry{ID: id, Channel: ch, Observer: obs}
	r.entries[id] = e
	logger.Debug("entry added", "id", id, "size", len(r.entries))
	return e, nil
}

// Resolve 查找通道句柄
func (r *Registry) Resolve(id types.ChannelID) (pkgif.DataChannel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.Channel, true
}

// Remove 原子地摘除条目
//
// 并发的两次 Remove 只有一次返回 true。调用方负责 Release。
func (r *Registry) Remove(id types.ChannelID) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	delete(r.entries, id)
	logger.Debug("entry removed", "id", id, "size", len(r.entries))
	return e, true
}

// Drain 摘除全部条目，按 ID 升序返回
func (r *Registry) Drain() []*Entry {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[types.ChannelID]*Entry)
	r.mu.Unlock()

	out := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs 返回所有通道 ID（升序）
func (r *Registry) IDs() []types.ChannelID {
	r.mu.RLock()
	ids := make([]types.ChannelID, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len 返回条目数
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
