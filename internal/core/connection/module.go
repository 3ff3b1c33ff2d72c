package connection

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-dcbridge/config"
	"github.com/dep2p/go-dcbridge/internal/core/conduit"
	"github.com/dep2p/go-dcbridge/internal/core/metrics"
	pkgif "github.com/dep2p/go-dcbridge/pkg/interfaces"
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	Config    *config.Config     `optional:"true"`
	Hub       *conduit.Hub
	Collector *metrics.Collector `optional:"true"`
}

// ModuleOutput 模块输出服务
type ModuleOutput struct {
	fx.Out

	Manager           *Manager
	ConnectionManager pkgif.ConnectionManager
}

// ProvideManager 提供连接管理器
func ProvideManager(input ModuleInput) ModuleOutput {
	ns := config.DefaultNamespace
	if input.Config != nil && input.Config.Namespace != "" {
		ns = input.Config.Namespace
	}
	m := NewManager(ns, input.Hub, input.Collector)
	return ModuleOutput{
		Manager:           m,
		ConnectionManager: m,
	}
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("connection",
		fx.Provide(ProvideManager),
		fx.Invoke(registerLifecycle),
	)
}

type lifecycleInput struct {
	fx.In
	LC      fx.Lifecycle
	Manager *Manager
}

func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return input.Manager.Close()
		},
	})
}
