package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-dcbridge/pkg/types"
)

// Namespace 指标命名空间
const Namespace = "dcbridge"

// 丢弃原因
const (
	// DropNoListener 管道没有监听者
	DropNoListener = "no_listener"
	// DropSlowConsumer 宿主会话出站队列已满
	DropSlowConsumer = "slow_consumer"
)

// Collector 数据通道指标
type Collector struct {
	channelsCreated  *prometheus.CounterVec
	createFailures   prometheus.Counter
	channelsActive   prometheus.Gauge
	messagesSent     *prometheus.CounterVec
	bytesSent        *prometheus.CounterVec
	messagesReceived *prometheus.CounterVec
	bytesReceived    *prometheus.CounterVec
	eventsEmitted    *prometheus.CounterVec
	eventsDropped    *prometheus.CounterVec
}

// NewCollector 创建并注册指标
//
// reg 为 nil 时只创建不注册。已注册的同名指标会被复用。
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		channelsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "channels_created_total",
			Help:      "Data channels created, by reliability class.",
		}, []string{"reliability"}),
		createFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "channel_create_failures_total",
			Help:      "Data channel creations refused by the transport.",
		}),
		channelsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "channels_active",
			Help:      "Data channels currently held in registries.",
		}),
		messagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "messages_sent_total",
			Help:      "Messages handed to the transport send queue.",
		}, []string{"type"}),
		bytesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "bytes_sent_total",
			Help:      "Payload bytes handed to the transport send queue.",
		}, []string{"type"}),
		messagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "messages_received_total",
			Help:      "Messages reported by the transport.",
		}, []string{"type"}),
		bytesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "bytes_received_total",
			Help:      "Payload bytes reported by the transport.",
		}, []string{"type"}),
		eventsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "events_emitted_total",
			Help:      "Events pushed into conduits with an attached listener.",
		}, []string{"event"}),
		eventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "events_dropped_total",
			Help:      "Events dropped before reaching the host.",
		}, []string{"reason"}),
	}

	if reg == nil {
		return c, nil
	}

	var err error
	if c.channelsCreated, err = registerOrReuse(reg, c.channelsCreated); err != nil {
		return nil, err
	}
	if c.createFailures, err = registerOrReuse(reg, c.createFailures); err != nil {
		return nil, err
	}
	if c.channelsActive, err = registerOrReuse(reg, c.channelsActive); err != nil {
		return nil, err
	}
	if c.messagesSent, err = registerOrReuse(reg, c.messagesSent); err != nil {
		return nil, err
	}
	if c.bytesSent, err = registerOrReuse(reg, c.bytesSent); err != nil {
		return nil, err
	}
	if c.messagesReceived, err = registerOrReuse(reg, c.messagesReceived); err != nil {
		return nil, err
	}
	if c.bytesReceived, err = registerOrReuse(reg, c.bytesReceived); err != nil {
		return nil, err
	}
	if c.eventsEmitted, err = registerOrReuse(reg, c.eventsEmitted); err != nil {
		return nil, err
	}
	if c.eventsDropped, err = registerOrReuse(reg, c.eventsDropped); err != nil {
		return nil, err
	}
	return c, nil
}

// registerOrReuse 注册指标，同名指标已存在时返回已注册的实例
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, col T) (T, error) {
	err := reg.Register(col)
	if err == nil {
		return col, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	return col, err
}

// ChannelCreated 记录通道创建
func (c *Collector) ChannelCreated(reliability string) {
	if c == nil {
		return
	}
	c.channelsCreated.WithLabelValues(reliability).Inc()
	c.channelsActive.Inc()
}

// ChannelCreateFailed 记录创建失败
func (c *Collector) ChannelCreateFailed() {
	if c == nil {
		return
	}
	c.createFailures.Inc()
}

// ChannelReleased 记录注册表条目释放
func (c *Collector) ChannelReleased() {
	if c == nil {
		return
	}
	c.channelsActive.Dec()
}

// MessageSent 记录发送
func (c *Collector) MessageSent(t types.MessageType, n int) {
	if c == nil {
		return
	}
	c.messagesSent.WithLabelValues(t.String()).Inc()
	c.bytesSent.WithLabelValues(t.String()).Add(float64(n))
}

// MessageReceived 记录接收
func (c *Collector) MessageReceived(t types.MessageType, n int) {
	if c == nil {
		return
	}
	c.messagesReceived.WithLabelValues(t.String()).Inc()
	c.bytesReceived.WithLabelValues(t.String()).Add(float64(n))
}

// EventEmitted 记录事件推送
func (c *Collector) EventEmitted(event string) {
	if c == nil {
		return
	}
	c.eventsEmitted.WithLabelValues(event).Inc()
}

// EventDropped 记录事件丢弃
func (c *Collector) EventDropped(reason string) {
	if c == nil {
		return
	}
	c.eventsDropped.WithLabelValues(reason).Inc()
}
