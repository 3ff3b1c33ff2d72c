package datachannel

import (
	"github.com/pion/datachannel"

	"github.com/dep2p/go-dcbridge/pkg/types"
)

// ReliabilityOf 按 DCEP 规则对通道配置分类
//
// 两个重传参数都未设置时为可靠通道；设置了 maxRetransmits 时按次数，
// 否则按时间。与传输层建通道时采用的优先级一致。
func ReliabilityOf(cfg types.ChannelConfig) datachannel.ChannelType {
	switch {
	case cfg.MaxRetransmits == nil && cfg.MaxRetransmitTimeMs == nil:
		if cfg.Ordered {
			return datachannel.ChannelTypeReliable
		}
		return datachannel.ChannelTypeReliableUnordered
	case cfg.MaxRetransmits != nil:
		if cfg.Ordered {
			return datachannel.ChannelTypePartialReliableRexmit
		}
		return datachannel.ChannelTypePartialReliableRexmitUnordered
	default:
		if cfg.Ordered {
			return datachannel.ChannelTypePartialReliableTimed
		}
		return datachannel.ChannelTypePartialReliableTimedUnordered
	}
}

// ReliabilityLabel 返回通道类型的指标标签
func ReliabilityLabel(t datachannel.ChannelType) string {
	switch t {
	case datachannel.ChannelTypeReliable:
		return "reliable"
	case datachannel.ChannelTypeReliableUnordered:
		return "reliable_unordered"
	case datachannel.ChannelTypePartialReliableRexmit:
		return "rexmit"
	case datachannel.ChannelTypePartialReliableRexmitUnordered:
		return "rexmit_unordered"
	case datachannel.ChannelTypePartialReliableTimed:
		return "timed"
	case datachannel.ChannelTypePartialReliableTimedUnordered:
		return "timed_unordered"
	default:
		return "unknown"
	}
}
