// Package metrics 提供数据通道子系统的 Prometheus 指标
//
// 指标（命名空间 dcbridge）：
//   - channels_created_total{reliability}
//   - channel_create_failures_total
//   - channels_active
//   - messages_sent_total{type} / bytes_sent_total{type}
//   - messages_received_total{type} / bytes_received_total{type}
//   - events_emitted_total{event}
//   - events_dropped_total{reason}
//
// nil *Collector 是合法值，所有记录方法都是空操作，便于测试与关闭指标。
package metrics
