package pionrtc

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-dcbridge/config"
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	Config *config.Config `optional:"true"`
}

// ProvideAPI 按配置提供 pion API
func ProvideAPI(input ModuleInput) *API {
	cfg := config.DefaultTransportConfig()
	if input.Config != nil {
		cfg = input.Config.Transport
	}
	return NewAPI(cfg)
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("pionrtc",
		fx.Provide(ProvideAPI),
	)
}
