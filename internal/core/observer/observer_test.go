package observer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dcbridge/internal/core/codec"
	"github.com/dep2p/go-dcbridge/internal/core/conduit"
	"github.com/dep2p/go-dcbridge/internal/core/metrics"
	"github.com/dep2p/go-dcbridge/pkg/types"
	"github.com/dep2p/go-dcbridge/tests/mocks"
)

const testConduit = "FlutterWebRTC/dataChannelEvent7"

func newTestObserver(t *testing.T, mc *metrics.Collector) (*Observer, *mocks.MockDataChannel, *conduit.Hub) {
	t.Helper()
	hub := conduit.NewHub()
	dc := mocks.NewMockDataChannel(7, "test")
	o, err := New(dc, hub, testConduit, mc)
	require.NoError(t, err)
	return o, dc, hub
}

func TestObserver_RegistersAsSoleHandler(t *testing.T) {
	o, dc, hub := newTestObserver(t, nil)

	assert.True(t, dc.HasObserver())
	assert.Equal(t, []string{testConduit}, hub.Names())
	assert.Equal(t, types.ChannelID(7), o.ID())
	assert.Equal(t, testConduit, o.ConduitName())
}

func TestObserver_DuplicateConduit(t *testing.T) {
	_, _, hub := newTestObserver(t, nil)

	_, err := New(mocks.NewMockDataChannel(7, "again"), hub, testConduit, nil)
	assert.ErrorIs(t, err, types.ErrConduitExists)
}

func TestObserver_NoListenerDropsSilently(t *testing.T) {
	mc, err := metrics.NewCollector(nil)
	require.NoError(t, err)
	_, dc, _ := newTestObserver(t, mc)

	assert.NotPanics(t, func() {
		dc.FireStateChange(types.ChannelStateOpen)
		dc.FireMessage([]byte("x"), false)
	})

	s := mc.Snapshot()
	assert.Equal(t, 2.0, s.EventsDropped[metrics.DropNoListener])
	assert.Equal(t, 1.0, s.MessagesReceived[types.MessageTypeText])
}

func TestObserver_StateThenBinaryMessage(t *testing.T) {
	_, dc, hub := newTestObserver(t, nil)

	sink := mocks.NewRecordingSink()
	require.NoError(t, hub.Listen(testConduit, sink))

	dc.FireStateChange(types.ChannelStateOpen)
	dc.FireMessage([]byte{0x01, 0x02}, true)

	events := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, codec.Map{
		"event": "dataChannelStateChanged",
		"id":    7,
		"state": "open",
	}, events[0])
	assert.Equal(t, codec.Map{
		"event": "dataChannelReceiveMessage",
		"id":    7,
		"type":  "binary",
		"data":  []byte{0x01, 0x02},
	}, events[1])
}

func TestObserver_TextMessage(t *testing.T) {
	_, dc, hub := newTestObserver(t, nil)
	sink := mocks.NewRecordingSink()
	require.NoError(t, hub.Listen(testConduit, sink))

	// 内容看起来像文本，但类型以传输层标志为准
	dc.FireMessage([]byte("hello"), true)
	dc.FireMessage([]byte("hello"), false)

	events := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "binary", events[0].(codec.Map)["type"])
	assert.Equal(t, []byte("hello"), events[0].(codec.Map)["data"])
	assert.Equal(t, "text", events[1].(codec.Map)["type"])
	assert.Equal(t, "hello", events[1].(codec.Map)["data"])
}

func TestObserver_AnyTransitionOrderIsForwarded(t *testing.T) {
	_, dc, hub := newTestObserver(t, nil)
	sink := mocks.NewRecordingSink()
	require.NoError(t, hub.Listen(testConduit, sink))

	order := []types.ChannelState{
		types.ChannelStateClosed,
		types.ChannelStateConnecting,
		types.ChannelStateOpen,
		types.ChannelStateOpen,
	}
	for _, s := range order {
		dc.FireStateChange(s)
	}

	events := sink.Events()
	require.Len(t, events, len(order))
	for i, s := range order {
		assert.Equal(t, s.String(), events[i].(codec.Map)["state"])
	}
}

func TestObserver_NoReplayForLateListener(t *testing.T) {
	_, dc, hub := newTestObserver(t, nil)

	dc.FireStateChange(types.ChannelStateOpen)

	sink := mocks.NewRecordingSink()
	require.NoError(t, hub.Listen(testConduit, sink))
	assert.Empty(t, sink.Events())

	dc.FireMessage([]byte("a"), false)
	require.NoError(t, hub.Cancel(testConduit))
	dc.FireMessage([]byte("b"), false)

	assert.Len(t, sink.Events(), 1)
}

func TestObserver_AttachDetachIdempotent(t *testing.T) {
	o, _, _ := newTestObserver(t, nil)
	sink := mocks.NewRecordingSink()

	require.NoError(t, o.OnListen(sink))
	require.NoError(t, o.OnListen(sink))
	assert.True(t, o.Listening())

	require.NoError(t, o.OnCancel())
	require.NoError(t, o.OnCancel())
	assert.False(t, o.Listening())
}

func TestObserver_Dispose(t *testing.T) {
	o, dc, hub := newTestObserver(t, nil)
	sink := mocks.NewRecordingSink()
	require.NoError(t, hub.Listen(testConduit, sink))

	o.Dispose()
	o.Dispose()

	assert.False(t, dc.HasObserver())
	assert.Equal(t, 1, dc.UnregisterCalls)
	assert.Empty(t, hub.Names())
	assert.Equal(t, 1, sink.EndCount())

	// 销毁后的回调与激活都是安全的空操作
	o.OnStateChange(types.ChannelStateClosed)
	o.OnMessage([]byte{1}, true)
	require.NoError(t, o.OnListen(sink))
	require.NoError(t, o.OnCancel())
	assert.Empty(t, sink.Events())
	assert.False(t, o.Listening())
}

// TestObserver_EmitRacesDetach 发射与分离并发：事件要么完整送达，要么完整丢弃
func TestObserver_EmitRacesDetach(t *testing.T) {
	_, dc, hub := newTestObserver(t, nil)

	sinks := make([]*mocks.RecordingSink, 20)
	for i := range sinks {
		sinks[i] = mocks.NewRecordingSink()
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			dc.FireMessage([]byte{byte(i)}, true)
		}
	}()
	go func() {
		defer wg.Done()
		for _, s := range sinks {
			_ = hub.Listen(testConduit, s)
			_ = hub.Cancel(testConduit)
		}
	}()
	wg.Wait()

	total := 0
	for _, s := range sinks {
		for _, ev := range s.Events() {
			m := ev.(codec.Map)
			assert.Equal(t, "dataChannelReceiveMessage", m["event"])
			assert.Len(t, m["data"], 1)
			total++
		}
	}
	assert.LessOrEqual(t, total, 200)
}

// detachingSink 收到第一个事件后在回调中分离自己
type detachingSink struct {
	*mocks.RecordingSink
	detach func() error
	once   sync.Once
	err    error
}

func (s *detachingSink) Success(event any) {
	s.RecordingSink.Success(event)
	s.once.Do(func() { s.err = s.detach() })
}

func TestObserver_SinkDetachesInsideCallback(t *testing.T) {
	o, dc, hub := newTestObserver(t, nil)

	sink := &detachingSink{RecordingSink: mocks.NewRecordingSink()}
	sink.detach = func() error { return hub.Cancel(testConduit) }
	require.NoError(t, hub.Listen(testConduit, sink))

	done := make(chan struct{})
	go func() {
		defer close(done)
		dc.FireStateChange(types.ChannelStateOpen)
		dc.FireMessage([]byte("after"), false)
		o.Dispose()
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("detaching from inside Success blocked the callback")
	}

	require.NoError(t, sink.err)
	assert.Len(t, sink.Events(), 1)
	assert.False(t, o.Listening())
	assert.Equal(t, 1, dc.UnregisterCalls)
}

func TestObserver_SinkDisposesInsideCallback(t *testing.T) {
	o, dc, hub := newTestObserver(t, nil)

	sink := &detachingSink{RecordingSink: mocks.NewRecordingSink()}
	sink.detach = func() error {
		o.Dispose()
		return nil
	}
	require.NoError(t, hub.Listen(testConduit, sink))

	done := make(chan struct{})
	go func() {
		defer close(done)
		dc.FireStateChange(types.ChannelStateOpen)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("disposing from inside Success blocked the callback")
	}

	assert.Len(t, sink.Events(), 1)
	assert.Equal(t, 1, sink.EndCount())
	assert.Empty(t, hub.Names())
}
