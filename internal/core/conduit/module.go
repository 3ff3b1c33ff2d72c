package conduit

import (
	"context"

	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-dcbridge/pkg/interfaces"
)

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Hub        *Hub
	ConduitHub pkgif.ConduitHub
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("conduit",
		fx.Provide(ProvideHub),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideHub 提供 Hub 实例
func ProvideHub() Result {
	h := NewHub()
	return Result{
		Hub:        h,
		ConduitHub: h,
	}
}

type lifecycleInput struct {
	fx.In
	LC  fx.Lifecycle
	Hub *Hub
}

func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return input.Hub.Close()
		},
	})
}
