package connection

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/multierr"

	"github.com/dep2p/go-dcbridge/internal/core/datachannel"
	"github.com/dep2p/go-dcbridge/internal/core/metrics"
	pkgif "github.com/dep2p/go-dcbridge/pkg/interfaces"
	"github.com/dep2p/go-dcbridge/pkg/lib/log"
	"github.com/dep2p/go-dcbridge/pkg/types"
)

var logger = log.Logger("core/connection")

type entry struct {
	pc      pkgif.PeerConnection
	service *datachannel.Service
}

// Manager 连接管理器
type Manager struct {
	namespace string
	hub       pkgif.ConduitHub
	metrics   *metrics.Collector

	mu     sync.RWMutex
	conns  map[types.ConnectionID]*entry
	closed bool
}

var _ pkgif.ConnectionManager = (*Manager)(nil)

// NewManager 创建连接管理器
func NewManager(namespace string, hub pkgif.ConduitHub, mc *metrics.Collector) *Manager {
	return &Manager{
		namespace: namespace,
		hub:       hub,
		metrics:   mc,
		conns:     make(map[types.ConnectionID]*entry),
	}
}

// Namespace 返回根命名空间
func (m *Manager) Namespace() string {
	return m.namespace
}

// Add 登记对等连接
//
// id 为空时生成新的 UUID。
func (m *Manager) Add(id types.ConnectionID, pc pkgif.PeerConnection) (types.ConnectionID, error) {
	if pc == nil {
		return "", fmt.Errorf("nil peer connection")
	}
	if id.IsEmpty() {
		id = types.NewConnectionID()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", types.ErrBridgeClosed
	}
	if _, exists := m.conns[id]; exists {
		return "", fmt.Errorf("%w: %s", types.ErrConnectionExists, id)
	}

	ns := m.namespace + "/" + id.String()
	m.conns[id] = &entry{
		pc:      pc,
		service: datachannel.NewService(ns, pc, m.hub, m.metrics),
	}
	logger.Info("peer connection added", "connection", id, "namespace", ns)
	return id, nil
}

// Get 获取连接的数据通道服务
func (m *Manager) Get(id types.ConnectionID) (pkgif.DataChannelService, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.conns[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrConnectionNotFound, id)
	}
	return e.service, nil
}

// Remove 拆除连接
//
// 先释放全部通道（管道收到流结束），再关闭对等连接。
func (m *Manager) Remove(id types.ConnectionID) error {
	m.mu.Lock()
	e, ok := m.conns[id]
	if ok {
		delete(m.conns, id)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", types.ErrConnectionNotFound, id)
	}
	err := teardown(e)
	logger.Info("peer connection removed", "connection", id, "err", err)
	return err
}

// IDs 返回所有连接 ID（已排序）
func (m *Manager) IDs() []types.ConnectionID {
	m.mu.RLock()
	ids := make([]types.ConnectionID, 0, len(m.conns))
	for id := range m.conns {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Close 拆除所有连接，之后 Add 返回 ErrBridgeClosed
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	conns := m.conns
	m.conns = make(map[types.ConnectionID]*entry)
	m.mu.Unlock()

	var errs error
	for id, e := range conns {
		if err := teardown(e); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("connection %s: %w", id, err))
		}
	}
	return errs
}

func teardown(e *entry) error {
	return multierr.Combine(
		e.service.Shutdown(),
		e.pc.Close(),
	)
}
