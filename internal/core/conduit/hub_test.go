package conduit

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgif "github.com/dep2p/go-dcbridge/pkg/interfaces"
	"github.com/dep2p/go-dcbridge/pkg/types"
	"github.com/dep2p/go-dcbridge/tests/mocks"
)

// recordingHandler 记录激活回调的 StreamHandler
type recordingHandler struct {
	mu       sync.Mutex
	sink     pkgif.EventSink
	listens  int
	cancels  int
	listenFn func(pkgif.EventSink) error
}

func (h *recordingHandler) OnListen(sink pkgif.EventSink) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listens++
	if h.listenFn != nil {
		if err := h.listenFn(sink); err != nil {
			return err
		}
	}
	h.sink = sink
	return nil
}

func (h *recordingHandler) OnCancel() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancels++
	h.sink = nil
	return nil
}

func (h *recordingHandler) current() pkgif.EventSink {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sink
}

func TestHub_ImplementsInterface(t *testing.T) {
	var _ pkgif.ConduitHub = (*Hub)(nil)
}

func TestHub_Register(t *testing.T) {
	hub := NewHub()

	c, err := hub.Register("ns/dataChannelEvent1")
	require.NoError(t, err)
	assert.Equal(t, "ns/dataChannelEvent1", c.Name())

	_, err = hub.Register("ns/dataChannelEvent1")
	assert.ErrorIs(t, err, types.ErrConduitExists)

	assert.Equal(t, []string{"ns/dataChannelEvent1"}, hub.Names())
}

func TestHub_ListenAndCancel(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register("ns/a")
	require.NoError(t, err)

	h := &recordingHandler{}
	c.SetStreamHandler(h)

	sink := mocks.NewRecordingSink()
	require.NoError(t, hub.Listen("ns/a", sink))
	assert.Equal(t, sink, h.current())

	require.NoError(t, hub.Cancel("ns/a"))
	assert.Nil(t, h.current())

	// 重复分离无副作用
	require.NoError(t, hub.Cancel("ns/a"))
	assert.Equal(t, 1, h.cancels)
}

func TestHub_ListenReplacesPrevious(t *testing.T) {
	hub := NewHub()
	c, _ := hub.Register("ns/a")
	h := &recordingHandler{}
	c.SetStreamHandler(h)

	first, second := mocks.NewRecordingSink(), mocks.NewRecordingSink()
	require.NoError(t, hub.Listen("ns/a", first))
	require.NoError(t, hub.Listen("ns/a", second))

	assert.Equal(t, second, h.current())
	assert.Equal(t, 2, h.listens)
	assert.Equal(t, 1, h.cancels)
}

func TestHub_ListenBeforeHandler(t *testing.T) {
	hub := NewHub()
	c, _ := hub.Register("ns/a")

	sink := mocks.NewRecordingSink()
	require.NoError(t, hub.Listen("ns/a", sink))

	h := &recordingHandler{}
	c.SetStreamHandler(h)
	assert.Equal(t, sink, h.current())
}

func TestHub_ListenRejected(t *testing.T) {
	hub := NewHub()
	c, _ := hub.Register("ns/a")
	rejected := errors.New("rejected")
	c.SetStreamHandler(&recordingHandler{listenFn: func(pkgif.EventSink) error { return rejected }})

	err := hub.Listen("ns/a", mocks.NewRecordingSink())
	assert.ErrorIs(t, err, rejected)
	assert.False(t, c.(*Conduit).Listening())
}

func TestHub_UnknownConduit(t *testing.T) {
	hub := NewHub()

	assert.ErrorIs(t, hub.Listen("missing", mocks.NewRecordingSink()), types.ErrConduitNotFound)
	assert.ErrorIs(t, hub.Cancel("missing"), types.ErrConduitNotFound)

	// 未知管道的注销无副作用
	hub.Unregister("missing")
}

func TestHub_UnregisterSendsEndOfStream(t *testing.T) {
	hub := NewHub()
	c, _ := hub.Register("ns/a")
	h := &recordingHandler{}
	c.SetStreamHandler(h)

	sink := mocks.NewRecordingSink()
	require.NoError(t, hub.Listen("ns/a", sink))

	hub.Unregister("ns/a")
	assert.Equal(t, 1, sink.EndCount())
	assert.Nil(t, h.current())
	assert.Empty(t, hub.Names())

	// 名字可以被重新注册
	_, err := hub.Register("ns/a")
	assert.NoError(t, err)
}

func TestHub_Close(t *testing.T) {
	hub := NewHub()
	for _, name := range []string{"ns/a", "ns/b"} {
		c, _ := hub.Register(name)
		c.SetStreamHandler(&recordingHandler{})
	}
	sink := mocks.NewRecordingSink()
	require.NoError(t, hub.Listen("ns/b", sink))

	require.NoError(t, hub.Close())
	assert.Empty(t, hub.Names())
	assert.Equal(t, 1, sink.EndCount())
}

func TestHub_ConcurrentListenCancel(t *testing.T) {
	hub := NewHub()
	c, _ := hub.Register("ns/a")
	c.SetStreamHandler(&recordingHandler{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = hub.Listen("ns/a", mocks.NewRecordingSink())
		}()
		go func() {
			defer wg.Done()
			_ = hub.Cancel("ns/a")
		}()
	}
	wg.Wait()
}

func TestHub_CancelSinkOnlyDetachesOwner(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register("ns/dataChannelEvent1")
	require.NoError(t, err)
	h := &recordingHandler{}
	c.SetStreamHandler(h)

	first, second := mocks.NewRecordingSink(), mocks.NewRecordingSink()
	require.NoError(t, hub.Listen("ns/dataChannelEvent1", first))
	require.NoError(t, hub.Listen("ns/dataChannelEvent1", second))

	// first 已被替换，不能分离 second
	require.NoError(t, hub.CancelSink("ns/dataChannelEvent1", first))
	assert.Same(t, second, h.current())

	require.NoError(t, hub.CancelSink("ns/dataChannelEvent1", second))
	assert.Nil(t, h.current())

	assert.NoError(t, hub.CancelSink("ns/missing", second))
}
