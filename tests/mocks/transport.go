package mocks

import (
	"errors"
	"sync"

	"github.com/dep2p/go-dcbridge/pkg/interfaces"
	"github.com/dep2p/go-dcbridge/pkg/types"
)

// ErrMockChannelClosed 向已关闭的 Mock 通道发送
var ErrMockChannelClosed = errors.New("mock data channel closed")

// ============================================================================
//                              MockPeerConnection
// ============================================================================

// CreateCall 记录 CreateDataChannel 调用
type CreateCall struct {
	Label  string
	Config types.ChannelConfig
}

// MockPeerConnection 模拟 PeerConnection 接口实现
type MockPeerConnection struct {
	mu sync.Mutex

	// NextID 下一个分配的通道 ID
	NextID int

	// 可覆盖的方法
	CreateDataChannelFunc func(label string, cfg types.ChannelConfig) (interfaces.DataChannel, error)
	CloseFunc             func() error

	// 调用记录
	CreateCalls []CreateCall
	CloseCalls  int

	channels map[types.ChannelID]*MockDataChannel
}

var _ interfaces.PeerConnection = (*MockPeerConnection)(nil)

// NewMockPeerConnection 创建带有默认值的 MockPeerConnection
func NewMockPeerConnection() *MockPeerConnection {
	return &MockPeerConnection{
		NextID:   1,
		channels: make(map[types.ChannelID]*MockDataChannel),
	}
}

// CreateDataChannel 创建 Mock 通道
//
// 协商通道使用预设 ID，其余按 NextID 递增分配。
func (m *MockPeerConnection) CreateDataChannel(label string, cfg types.ChannelConfig) (interfaces.DataChannel, error) {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, CreateCall{Label: label, Config: cfg})
	fn := m.CreateDataChannelFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(label, cfg)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var id types.ChannelID
	if cfg.Negotiated && cfg.ID != nil {
		id = types.ChannelID(*cfg.ID)
	} else {
		id = types.ChannelID(m.NextID)
		m.NextID++
	}

	dc := NewMockDataChannel(id, label)
	dc.ProtocolValue = cfg.Protocol
	dc.OrderedValue = cfg.Ordered
	dc.NegotiatedValue = cfg.Negotiated
	m.channels[id] = dc
	return dc, nil
}

// Channel 返回已创建的 Mock 通道
func (m *MockPeerConnection) Channel(id types.ChannelID) *MockDataChannel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channels[id]
}

// Close 关闭连接
func (m *MockPeerConnection) Close() error {
	m.mu.Lock()
	m.CloseCalls++
	fn := m.CloseFunc
	m.mu.Unlock()

	if fn != nil {
		return fn()
	}
	return nil
}

// ============================================================================
//                              MockDataChannel
// ============================================================================

// SendCall 记录 Send 调用
type SendCall struct {
	Data   []byte
	Binary bool
}

// MockDataChannel 模拟 DataChannel 接口实现
type MockDataChannel struct {
	mu sync.Mutex

	IDValue         types.ChannelID
	LabelValue      string
	ProtocolValue   string
	OrderedValue    bool
	NegotiatedValue bool
	StateValue      types.ChannelState
	BufferedValue   uint64

	// 可覆盖的方法
	SendFunc  func(data []byte, binary bool) error
	CloseFunc func() error

	// 调用记录
	SendCalls       []SendCall
	CloseCalls      int
	RegisterCalls   int
	UnregisterCalls int

	handler interfaces.ChannelEventHandler
}

var _ interfaces.DataChannel = (*MockDataChannel)(nil)

// NewMockDataChannel 创建处于 connecting 状态的 Mock 通道
func NewMockDataChannel(id types.ChannelID, label string) *MockDataChannel {
	return &MockDataChannel{
		IDValue:       id,
		LabelValue:    label,
		ProtocolValue: types.DefaultProtocol,
		OrderedValue:  true,
		StateValue:    types.ChannelStateConnecting,
	}
}

// ID 返回通道 ID
func (m *MockDataChannel) ID() types.ChannelID { return m.IDValue }

// Label 返回标签
func (m *MockDataChannel) Label() string { return m.LabelValue }

// Protocol 返回子协议
func (m *MockDataChannel) Protocol() string { return m.ProtocolValue }

// Ordered 是否保序
func (m *MockDataChannel) Ordered() bool { return m.OrderedValue }

// Negotiated 是否协商
func (m *MockDataChannel) Negotiated() bool { return m.NegotiatedValue }

// State 返回状态
func (m *MockDataChannel) State() types.ChannelState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StateValue
}

// BufferedAmount 返回缓冲字节数
func (m *MockDataChannel) BufferedAmount() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.BufferedValue
}

// Send 记录发送；已关闭的通道返回 ErrMockChannelClosed
func (m *MockDataChannel) Send(data []byte, binary bool) error {
	m.mu.Lock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.SendCalls = append(m.SendCalls, SendCall{Data: cp, Binary: binary})
	fn := m.SendFunc
	closed := m.StateValue == types.ChannelStateClosed
	m.mu.Unlock()

	if fn != nil {
		return fn(data, binary)
	}
	if closed {
		return ErrMockChannelClosed
	}
	return nil
}

// Close 记录关闭并置为 closed
func (m *MockDataChannel) Close() error {
	m.mu.Lock()
	m.CloseCalls++
	m.StateValue = types.ChannelStateClosed
	fn := m.CloseFunc
	m.mu.Unlock()

	if fn != nil {
		return fn()
	}
	return nil
}

// RegisterObserver 设置事件处理器
func (m *MockDataChannel) RegisterObserver(h interfaces.ChannelEventHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RegisterCalls++
	m.handler = h
}

// UnregisterObserver 移除事件处理器
func (m *MockDataChannel) UnregisterObserver() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UnregisterCalls++
	m.handler = nil
}

// HasObserver 是否注册了处理器
func (m *MockDataChannel) HasObserver() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handler != nil
}

// Sends 返回发送记录副本
func (m *MockDataChannel) Sends() []SendCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SendCall, len(m.SendCalls))
	copy(out, m.SendCalls)
	return out
}

// FireStateChange 模拟传输层状态回调
func (m *MockDataChannel) FireStateChange(state types.ChannelState) {
	m.mu.Lock()
	m.StateValue = state
	h := m.handler
	m.mu.Unlock()

	if h != nil {
		h.OnStateChange(state)
	}
}

// FireMessage 模拟传输层消息回调
func (m *MockDataChannel) FireMessage(data []byte, binary bool) {
	m.mu.Lock()
	h := m.handler
	m.mu.Unlock()

	if h != nil {
		h.OnMessage(data, binary)
	}
}
