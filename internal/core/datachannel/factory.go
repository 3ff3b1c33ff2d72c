package datachannel

import (
	"errors"

	"github.com/dep2p/go-dcbridge/internal/core/observer"
	"github.com/dep2p/go-dcbridge/pkg/types"
)

// CreateDataChannel 创建数据通道
//
// 传输层拒绝时返回 ErrChannelCreation，不留下注册表条目与事件管道。
func (s *Service) CreateDataChannel(label string, cfg types.ChannelConfig) (types.ChannelInfo, error) {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	if s.closed {
		s.metrics.ChannelCreateFailed()
		return types.ChannelInfo{}, creationError(label, errServiceShutdown)
	}

	ch, err := s.pc.CreateDataChannel(label, cfg)
	if err == nil && ch == nil {
		err = errors.New("transport returned no channel")
	}
	if err != nil {
		s.metrics.ChannelCreateFailed()
		logger.Warn("transport refused data channel", "label", label, "err", err)
		return types.ChannelInfo{}, creationError(label, err)
	}

	id := ch.ID()
	obs, err := observer.New(ch, s.hub, ConduitName(s.namespace, id), s.metrics)
	if err != nil {
		_ = ch.Close()
		s.metrics.ChannelCreateFailed()
		return types.ChannelInfo{}, creationError(label, err)
	}

	if _, err := s.registry.Insert(id, ch, obs); err != nil {
		obs.Dispose()
		_ = ch.Close()
		s.metrics.ChannelCreateFailed()
		return types.ChannelInfo{}, creationError(label, err)
	}

	reliability := ReliabilityLabel(ReliabilityOf(cfg))
	s.metrics.ChannelCreated(reliability)
	logger.Info("data channel created",
		"id", id,
		"label", label,
		"protocol", cfg.Protocol,
		"negotiated", cfg.Negotiated,
		"reliability", reliability,
		"conduit", obs.ConduitName())

	return types.ChannelInfo{ID: id, Label: label}, nil
}
