package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/dep2p/go-dcbridge/config"
)

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Registry  *prometheus.Registry
	Collector *Collector
}

// Module 是 metrics 的 Fx 模块
var Module = fx.Module("metrics",
	fx.Provide(ProvideCollector),
)

// ProvideCollector 创建独立的 Registry 与 Collector
//
// 指标关闭时 Collector 为 nil，Registry 仍然可用。
func ProvideCollector(p Params) (Result, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if p.UnifiedCfg != nil && !p.UnifiedCfg.Metrics.Enabled {
		return Result{Registry: reg}, nil
	}

	c, err := NewCollector(reg)
	if err != nil {
		return Result{}, err
	}
	return Result{Registry: reg, Collector: c}, nil
}

// Handler 返回 /metrics 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
