package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/dep2p/go-dcbridge/pkg/types"
)

// Snapshot 指标快照
type Snapshot struct {
	ChannelsActive   float64
	CreateFailures   float64
	MessagesSent     map[types.MessageType]float64
	MessagesReceived map[types.MessageType]float64
	EventsEmitted    map[string]float64
	EventsDropped    map[string]float64
}

// Snapshot 读取当前值，nil Collector 返回零值快照
func (c *Collector) Snapshot() Snapshot {
	s := Snapshot{
		MessagesSent:     make(map[types.MessageType]float64),
		MessagesReceived: make(map[types.MessageType]float64),
		EventsEmitted:    make(map[string]float64),
		EventsDropped:    make(map[string]float64),
	}
	if c == nil {
		return s
	}

	s.ChannelsActive = readGauge(c.channelsActive)
	s.CreateFailures = readCounter(c.createFailures)
	for _, t := range []types.MessageType{types.MessageTypeText, types.MessageTypeBinary} {
		s.MessagesSent[t] = readCounter(c.messagesSent.WithLabelValues(t.String()))
		s.MessagesReceived[t] = readCounter(c.messagesReceived.WithLabelValues(t.String()))
	}
	for _, ev := range []string{types.EventDataChannelStateChanged, types.EventDataChannelReceiveMessage} {
		s.EventsEmitted[ev] = readCounter(c.eventsEmitted.WithLabelValues(ev))
	}
	for _, reason := range []string{DropNoListener, DropSlowConsumer} {
		s.EventsDropped[reason] = readCounter(c.eventsDropped.WithLabelValues(reason))
	}
	return s
}

func readCounter(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func readGauge(g prometheus.Gauge) float64 {
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}
