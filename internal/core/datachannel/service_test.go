package datachannel

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pion/datachannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dcbridge/internal/core/codec"
	"github.com/dep2p/go-dcbridge/internal/core/conduit"
	"github.com/dep2p/go-dcbridge/internal/core/metrics"
	pkgif "github.com/dep2p/go-dcbridge/pkg/interfaces"
	"github.com/dep2p/go-dcbridge/pkg/types"
	"github.com/dep2p/go-dcbridge/tests/mocks"
)

const testNamespace = "FlutterWebRTC"

type fixture struct {
	svc *Service
	pc  *mocks.MockPeerConnection
	hub *conduit.Hub
	mc  *metrics.Collector
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mc, err := metrics.NewCollector(nil)
	require.NoError(t, err)
	pc := mocks.NewMockPeerConnection()
	hub := conduit.NewHub()
	return &fixture{
		svc: NewService(testNamespace, pc, hub, mc),
		pc:  pc,
		hub: hub,
		mc:  mc,
	}
}

func TestConduitName(t *testing.T) {
	assert.Equal(t, "FlutterWebRTC/dataChannelEvent3", ConduitName("FlutterWebRTC", 3))
	assert.Equal(t, "ns/conn-1/dataChannelEvent0", ConduitName("ns/conn-1", 0))
}

func TestService_Scenario(t *testing.T) {
	f := newFixture(t)

	cfg, err := codec.DecodeChannelConfig(codec.Map{
		"ordered":        true,
		"maxRetransmits": 0,
		"protocol":       nil,
		"negotiated":     false,
	})
	require.NoError(t, err)

	info, err := f.svc.CreateDataChannel("test", cfg)
	require.NoError(t, err)
	assert.Equal(t, codec.Map{"id": 1, "label": "test"}, codec.EncodeCreateResult(info))

	require.NoError(t, f.svc.Send(info.ID, "text", "hello"))
	sends := f.pc.Channel(info.ID).Sends()
	require.Len(t, sends, 1)
	assert.Equal(t, []byte("hello"), sends[0].Data)
	assert.False(t, sends[0].Binary)

	require.NoError(t, f.svc.Close(info.ID))
	assert.ErrorIs(t, f.svc.Close(info.ID), types.ErrChannelNotFound)
}

func TestService_CreateRegistersEntryAndConduit(t *testing.T) {
	f := newFixture(t)
	f.pc.NextID = 5

	info, err := f.svc.CreateDataChannel("chat", types.DefaultChannelConfig())
	require.NoError(t, err)
	assert.Equal(t, types.ChannelID(5), info.ID)
	assert.Equal(t, "chat", info.Label)

	ch, ok := f.svc.Resolve(5)
	require.True(t, ok)
	assert.Equal(t, types.ChannelID(5), ch.ID())
	assert.Equal(t, []string{"FlutterWebRTC/dataChannelEvent5"}, f.hub.Names())
	assert.True(t, f.pc.Channel(5).HasObserver())
	assert.Equal(t, 1.0, f.mc.Snapshot().ChannelsActive)
}

func TestService_NullProtocolDefaultsToSctp(t *testing.T) {
	f := newFixture(t)

	cfg, err := codec.DecodeChannelConfig(codec.Map{"protocol": nil})
	require.NoError(t, err)

	info, err := f.svc.CreateDataChannel("p", cfg)
	require.NoError(t, err)

	ch, ok := f.svc.Resolve(info.ID)
	require.True(t, ok)
	assert.Equal(t, "sctp", ch.Protocol())
	assert.Equal(t, "sctp", f.pc.CreateCalls[0].Config.Protocol)
}

func TestService_EmptyProtocolPassesThrough(t *testing.T) {
	f := newFixture(t)

	cfg, err := codec.DecodeChannelConfig(codec.Map{"protocol": ""})
	require.NoError(t, err)

	info, err := f.svc.CreateDataChannel("p", cfg)
	require.NoError(t, err)

	ch, ok := f.svc.Resolve(info.ID)
	require.True(t, ok)
	assert.Equal(t, "", ch.Protocol())
	assert.Equal(t, "", f.pc.CreateCalls[0].Config.Protocol)
}

func TestService_ReliabilityPassesThrough(t *testing.T) {
	f := newFixture(t)

	cfg := types.DefaultChannelConfig()
	cfg.MaxRetransmits = types.IntPtr(3)
	cfg.MaxRetransmitTimeMs = types.IntPtr(500)
	_, err := f.svc.CreateDataChannel("both", cfg)
	require.NoError(t, err)

	got := f.pc.CreateCalls[0].Config
	require.NotNil(t, got.MaxRetransmits)
	require.NotNil(t, got.MaxRetransmitTimeMs)
	assert.Equal(t, 3, *got.MaxRetransmits)
	assert.Equal(t, 500, *got.MaxRetransmitTimeMs)
}

func TestService_NegotiatedUsesPresetID(t *testing.T) {
	f := newFixture(t)

	cfg := types.DefaultChannelConfig()
	cfg.Negotiated = true
	cfg.ID = types.IntPtr(42)

	info, err := f.svc.CreateDataChannel("neg", cfg)
	require.NoError(t, err)
	assert.Equal(t, types.ChannelID(42), info.ID)
	assert.Equal(t, []string{"FlutterWebRTC/dataChannelEvent42"}, f.hub.Names())
}

func TestService_CreateFailureLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	f.pc.CreateDataChannelFunc = func(string, types.ChannelConfig) (pkgif.DataChannel, error) {
		return nil, errors.New("sctp association not established")
	}

	_, err := f.svc.CreateDataChannel("x", types.DefaultChannelConfig())
	assert.ErrorIs(t, err, types.ErrChannelCreation)
	assert.Zero(t, f.svc.Len())
	assert.Empty(t, f.hub.Names())
	assert.Equal(t, 1.0, f.mc.Snapshot().CreateFailures)
}

func TestService_DuplicateIDFromTransport(t *testing.T) {
	f := newFixture(t)
	dup := mocks.NewMockDataChannel(9, "dup")
	f.pc.CreateDataChannelFunc = func(label string, _ types.ChannelConfig) (pkgif.DataChannel, error) {
		return dup, nil
	}

	_, err := f.svc.CreateDataChannel("a", types.DefaultChannelConfig())
	require.NoError(t, err)

	_, err = f.svc.CreateDataChannel("b", types.DefaultChannelConfig())
	assert.ErrorIs(t, err, types.ErrChannelCreation)
	assert.Equal(t, 1, f.svc.Len())
	assert.Equal(t, []string{"FlutterWebRTC/dataChannelEvent9"}, f.hub.Names())
}

func TestService_SendEmptyBinary(t *testing.T) {
	f := newFixture(t)
	info, err := f.svc.CreateDataChannel("bin", types.DefaultChannelConfig())
	require.NoError(t, err)

	require.NoError(t, f.svc.Send(info.ID, "binary", []byte{}))
	require.NoError(t, f.svc.Send(info.ID, "binary", []byte(nil)))

	sends := f.pc.Channel(info.ID).Sends()
	require.Len(t, sends, 2)
	for _, s := range sends {
		assert.True(t, s.Binary)
		assert.Len(t, s.Data, 0)
	}
	assert.Equal(t, 2.0, f.mc.Snapshot().MessagesSent[types.MessageTypeBinary])
}

func TestService_SendTypeSelection(t *testing.T) {
	f := newFixture(t)
	info, err := f.svc.CreateDataChannel("sel", types.DefaultChannelConfig())
	require.NoError(t, err)

	// binary 类型但字符串数据：走文本路径
	require.NoError(t, f.svc.Send(info.ID, "binary", "abc"))
	// 未知类型按文本处理
	require.NoError(t, f.svc.Send(info.ID, "whatever", "def"))
	// 非 binary 类型携带字节数据是解码错误
	err = f.svc.Send(info.ID, "text", []byte{1})
	assert.ErrorIs(t, err, types.ErrConfigDecode)

	sends := f.pc.Channel(info.ID).Sends()
	require.Len(t, sends, 2)
	assert.False(t, sends[0].Binary)
	assert.False(t, sends[1].Binary)
}

func TestService_SendRejected(t *testing.T) {
	f := newFixture(t)
	info, err := f.svc.CreateDataChannel("r", types.DefaultChannelConfig())
	require.NoError(t, err)
	f.pc.Channel(info.ID).SendFunc = func([]byte, bool) error {
		return errors.New("data channel not open")
	}

	err = f.svc.Send(info.ID, "text", "x")
	assert.ErrorIs(t, err, types.ErrSendRejected)
}

func TestService_SendUnknownID(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.svc.Send(77, "text", "x"), types.ErrChannelNotFound)
}

func TestService_CloseDestroysEntryEvenOnTransportError(t *testing.T) {
	f := newFixture(t)
	info, err := f.svc.CreateDataChannel("c", types.DefaultChannelConfig())
	require.NoError(t, err)

	ch := f.pc.Channel(info.ID)
	ch.CloseFunc = func() error { return errors.New("already closing") }

	sink := mocks.NewRecordingSink()
	require.NoError(t, f.hub.Listen(ConduitName(testNamespace, info.ID), sink))

	require.NoError(t, f.svc.Close(info.ID))
	assert.Equal(t, 1, ch.CloseCalls)
	assert.False(t, ch.HasObserver())
	assert.Empty(t, f.hub.Names())
	assert.Equal(t, 1, sink.EndCount())
	assert.Equal(t, 0.0, f.mc.Snapshot().ChannelsActive)

	assert.ErrorIs(t, f.svc.Send(info.ID, "text", "late"), types.ErrChannelNotFound)
	assert.ErrorIs(t, f.svc.Close(info.ID), types.ErrChannelNotFound)
}

func TestService_ConcurrentCloseSingleWinner(t *testing.T) {
	f := newFixture(t)
	info, err := f.svc.CreateDataChannel("race", types.DefaultChannelConfig())
	require.NoError(t, err)

	var ok, notFound atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.svc.Close(info.ID)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, types.ErrChannelNotFound):
				notFound.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(15), notFound.Load())
	assert.Equal(t, 1, f.pc.Channel(info.ID).CloseCalls)
}

func TestService_EventsFlowThroughConduit(t *testing.T) {
	f := newFixture(t)
	info, err := f.svc.CreateDataChannel("ev", types.DefaultChannelConfig())
	require.NoError(t, err)

	sink := mocks.NewRecordingSink()
	require.NoError(t, f.hub.Listen(ConduitName(testNamespace, info.ID), sink))

	ch := f.pc.Channel(info.ID)
	ch.FireStateChange(types.ChannelStateOpen)
	ch.FireMessage([]byte{0x01, 0x02}, true)

	events := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, codec.Map{"event": "dataChannelStateChanged", "id": int(info.ID), "state": "open"}, events[0])
	assert.Equal(t, codec.Map{
		"event": "dataChannelReceiveMessage", "id": int(info.ID), "type": "binary", "data": []byte{0x01, 0x02},
	}, events[1])
	assert.Zero(t, sink.EndCount())
}

func TestService_Shutdown(t *testing.T) {
	f := newFixture(t)
	for _, l := range []string{"a", "b", "c"} {
		_, err := f.svc.CreateDataChannel(l, types.DefaultChannelConfig())
		require.NoError(t, err)
	}
	f.pc.Channel(2).CloseFunc = func() error { return errors.New("boom") }

	err := f.svc.Shutdown()
	assert.EqualError(t, err, "boom")
	assert.Zero(t, f.svc.Len())
	assert.Empty(t, f.hub.Names())
	for id := types.ChannelID(1); id <= 3; id++ {
		assert.Equal(t, 1, f.pc.Channel(id).CloseCalls)
	}

	_, err = f.svc.CreateDataChannel("late", types.DefaultChannelConfig())
	assert.ErrorIs(t, err, types.ErrChannelCreation)
	assert.NoError(t, f.svc.Shutdown())
}

func TestReliabilityOf(t *testing.T) {
	unordered := types.DefaultChannelConfig()
	unordered.Ordered = false

	rexmit := types.DefaultChannelConfig()
	rexmit.MaxRetransmits = types.IntPtr(0)

	timed := types.DefaultChannelConfig()
	timed.Ordered = false
	timed.MaxRetransmitTimeMs = types.IntPtr(100)

	both := types.DefaultChannelConfig()
	both.MaxRetransmits = types.IntPtr(1)
	both.MaxRetransmitTimeMs = types.IntPtr(100)

	tests := []struct {
		name  string
		cfg   types.ChannelConfig
		want  datachannel.ChannelType
		label string
	}{
		{"default", types.DefaultChannelConfig(), datachannel.ChannelTypeReliable, "reliable"},
		{"unordered", unordered, datachannel.ChannelTypeReliableUnordered, "reliable_unordered"},
		{"rexmit", rexmit, datachannel.ChannelTypePartialReliableRexmit, "rexmit"},
		{"timed unordered", timed, datachannel.ChannelTypePartialReliableTimedUnordered, "timed_unordered"},
		{"both prefers rexmit", both, datachannel.ChannelTypePartialReliableRexmit, "rexmit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReliabilityOf(tt.cfg)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.label, ReliabilityLabel(got))
		})
	}
}
