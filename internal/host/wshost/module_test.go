package wshost

import (
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-dcbridge/config"
	"github.com/dep2p/go-dcbridge/internal/core/conduit"
	"github.com/dep2p/go-dcbridge/internal/core/connection"
	"github.com/dep2p/go-dcbridge/internal/core/metrics"
	"github.com/dep2p/go-dcbridge/tests/testutil"
)

func TestModule_StartStop(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Host.ListenAddr = "127.0.0.1:0"

	var server *Server
	app := fxtest.New(t,
		fx.Supply(cfg),
		conduit.Module(),
		metrics.Module,
		connection.Module(),
		Module(),
		fx.Populate(&server),
	)
	app.RequireStart()
	require.NotEmpty(t, server.Addr())

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+server.Addr()+cfg.Host.Path, nil)
	require.NoError(t, err)
	defer conn.Close()
	testutil.Eventually(t, 5*time.Second, func() bool {
		return server.SessionCount() == 1
	}, "会话应该建立")

	app.RequireStop()
	assert.Zero(t, server.SessionCount())
}

func TestModule_Disabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Host.Enabled = false

	var server *Server
	app := fxtest.New(t,
		fx.Supply(cfg),
		conduit.Module(),
		connection.Module(),
		Module(),
		fx.Populate(&server),
	)
	app.RequireStart()
	assert.Empty(t, server.Addr())
	app.RequireStop()
}
