package conduit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	pkgif "github.com/dep2p/go-dcbridge/pkg/interfaces"
	"github.com/dep2p/go-dcbridge/tests/mocks"
)

func TestModule_Load(t *testing.T) {
	var hub pkgif.ConduitHub

	app := fxtest.New(t,
		Module(),
		fx.Populate(&hub),
	)
	app.RequireStart()
	require.NotNil(t, hub)

	_, err := hub.Register("ns/a")
	require.NoError(t, err)
	sink := mocks.NewRecordingSink()
	require.NoError(t, hub.Listen("ns/a", sink))

	app.RequireStop()
	assert.Equal(t, 1, sink.EndCount(), "停止时销毁所有管道")
}

func TestModule_Lifecycle(t *testing.T) {
	app := fx.New(Module(), fx.NopLogger)
	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	require.NoError(t, app.Stop(ctx))
}
