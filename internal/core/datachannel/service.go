package datachannel

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/dep2p/go-dcbridge/internal/core/codec"
	"github.com/dep2p/go-dcbridge/internal/core/metrics"
	"github.com/dep2p/go-dcbridge/internal/core/registry"
	pkgif "github.com/dep2p/go-dcbridge/pkg/interfaces"
	"github.com/dep2p/go-dcbridge/pkg/lib/log"
	"github.com/dep2p/go-dcbridge/pkg/types"
)

var logger = log.Logger("core/datachannel")

// ConduitName 返回通道事件管道名
func ConduitName(namespace string, id types.ChannelID) string {
	return fmt.Sprintf("%s/dataChannelEvent%d", namespace, id)
}

// Service 单个对等连接的数据通道服务
type Service struct {
	namespace string
	pc        pkgif.PeerConnection
	hub       pkgif.ConduitHub
	metrics   *metrics.Collector
	registry  *registry.Registry

	// createMu 串行化创建流程，使 Shutdown 之后不会再有条目插入
	createMu sync.Mutex
	closed   bool
}

var _ pkgif.DataChannelService = (*Service)(nil)

// NewService 创建数据通道服务
//
// mc 可以为 nil。
func NewService(namespace string, pc pkgif.PeerConnection, hub pkgif.ConduitHub, mc *metrics.Collector) *Service {
	return &Service{
		namespace: namespace,
		pc:        pc,
		hub:       hub,
		metrics:   mc,
		registry:  registry.New(),
	}
}

// Namespace 返回事件管道命名空间
func (s *Service) Namespace() string {
	return s.namespace
}

// Resolve 查找通道
func (s *Service) Resolve(id types.ChannelID) (pkgif.DataChannel, bool) {
	return s.registry.Resolve(id)
}

// IDs 返回所有活动通道 ID
func (s *Service) IDs() []types.ChannelID {
	return s.registry.IDs()
}

// Len 返回活动通道数
func (s *Service) Len() int {
	return s.registry.Len()
}

// Send 发送消息
//
// msgType 为 "binary" 且 data 为 []byte 时置二进制标志（零长度同样），
// 其余情况 data 必须是字符串并按文本发送。
func (s *Service) Send(id types.ChannelID, msgType string, data any) error {
	ch, ok := s.registry.Resolve(id)
	if !ok {
		return notFoundError(id)
	}

	payload, binary, err := codec.DecodeSendPayload(msgType, data)
	if err != nil {
		return err
	}

	if err := ch.Send(payload, binary); err != nil {
		logger.Debug("send rejected", "id", id, "binary", binary, "err", err)
		return sendRejectedError(id, err)
	}
	s.metrics.MessageSent(types.MessageTypeOf(binary), len(payload))
	return nil
}

// Close 关闭通道
//
// 条目先被原子摘除，并发的两次 Close 只有一次成功。传输层关闭出错
// （例如已经在关闭中）不影响条目销毁。
func (s *Service) Close(id types.ChannelID) error {
	e, ok := s.registry.Remove(id)
	if !ok {
		return notFoundError(id)
	}
	s.release(e)
	logger.Debug("data channel closed", "id", id, "namespace", s.namespace)
	return nil
}

// release 关闭传输层通道并销毁条目
func (s *Service) release(e *registry.Entry) error {
	var err error
	if ch := e.Channel; ch != nil {
		if err = ch.Close(); err != nil {
			logger.Debug("transport close reported error", "id", e.ID, "err", err)
		}
	}
	e.Release()
	s.metrics.ChannelReleased()
	return err
}

// Shutdown 释放所有条目
//
// 之后的 CreateDataChannel 都会失败。返回传输层关闭错误的合集。
func (s *Service) Shutdown() error {
	s.createMu.Lock()
	s.closed = true
	s.createMu.Unlock()

	var errs error
	for _, e := range s.registry.Drain() {
		errs = multierr.Append(errs, s.release(e))
	}
	logger.Debug("data channel service shut down", "namespace", s.namespace)
	return errs
}
