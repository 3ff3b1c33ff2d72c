package dcbridge

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-dcbridge/internal/core/conduit"
	"github.com/dep2p/go-dcbridge/internal/core/connection"
	"github.com/dep2p/go-dcbridge/internal/core/metrics"
	"github.com/dep2p/go-dcbridge/internal/core/transport/pionrtc"
	"github.com/dep2p/go-dcbridge/internal/host/wshost"
	"github.com/dep2p/go-dcbridge/pkg/lib/log"

	"github.com/prometheus/client_golang/prometheus"
)

var fxLogger = log.Logger("dcbridge/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. conduit、metrics
//  2. connection（依赖 conduit、metrics）
//  3. pionrtc
//  4. wshost（依赖 connection、conduit）
//
// 停止时按相反顺序：先关宿主会话，再拆连接，最后销毁剩余管道。
func buildFxApp(o *options, b *Bridge) (*fx.App, error) {
	cfg := o.config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		fx.Supply(cfg),

		conduit.Module(),
		metrics.Module,
		connection.Module(),
		pionrtc.Module(),
		wshost.Module(),
	}

	if len(o.userFxOptions) > 0 {
		modules = append(modules, o.userFxOptions...)
	}

	modules = append(modules,
		fx.Invoke(injectBridgeComponents(b)),
		fx.WithLogger(func() fxevent.Logger {
			return newFxEventLogger(cfg.Log.FxEvents)
		}),
	)

	return fx.New(modules...), nil
}

// newFxEventLogger 默认丢弃 Fx 事件，FxEvents 开启时输出到 zap
func newFxEventLogger(enabled bool) fxevent.Logger {
	if !enabled {
		return &fxevent.ZapLogger{Logger: zap.NewNop()}
	}
	zl, err := zap.NewDevelopment()
	if err != nil {
		fxLogger.Warn("zap logger unavailable, fx events disabled", "err", err)
		return &fxevent.ZapLogger{Logger: zap.NewNop()}
	}
	return &fxevent.ZapLogger{Logger: zl}
}

// bridgeInjectParams Bridge 组件注入参数
type bridgeInjectParams struct {
	fx.In

	Manager  *connection.Manager
	Hub      *conduit.Hub
	API      *pionrtc.API
	Host     *wshost.Server
	Registry *prometheus.Registry

	// 指标关闭时为 nil
	Collector *metrics.Collector `optional:"true"`
}

func injectBridgeComponents(b *Bridge) interface{} {
	return func(p bridgeInjectParams) {
		b.manager = p.Manager
		b.hub = p.Hub
		b.api = p.API
		b.host = p.Host
		b.registry = p.Registry
		b.collector = p.Collector
	}
}
