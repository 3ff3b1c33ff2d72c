package wshost

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-dcbridge/config"
	"github.com/dep2p/go-dcbridge/internal/core/codec"
	"github.com/dep2p/go-dcbridge/internal/core/conduit"
	"github.com/dep2p/go-dcbridge/internal/core/metrics"
	pkgif "github.com/dep2p/go-dcbridge/pkg/interfaces"
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	Config      *config.Config
	Connections pkgif.ConnectionManager
	Hub         *conduit.Hub
	Collector   *metrics.Collector `optional:"true"`
}

// ProvideServer 提供宿主服务器
func ProvideServer(input ModuleInput) (*Server, error) {
	wire, err := codec.NewWire()
	if err != nil {
		return nil, err
	}
	return NewServer(input.Config.Host, input.Connections, input.Hub, wire, input.Collector), nil
}

// Module 返回 fx 模块配置
//
// Host.Enabled 为 false 时服务器仍被构造，但不监听端口。
func Module() fx.Option {
	return fx.Module("wshost",
		fx.Provide(ProvideServer),
		fx.Invoke(registerLifecycle),
	)
}

type lifecycleInput struct {
	fx.In
	LC     fx.Lifecycle
	Config *config.Config
	Server *Server
}

func registerLifecycle(input lifecycleInput) {
	if !input.Config.Host.Enabled {
		return
	}
	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return input.Server.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return input.Server.Stop(ctx)
		},
	})
}
