package registry

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dcbridge/pkg/types"
	"github.com/dep2p/go-dcbridge/tests/mocks"
)

type countingDisposer struct {
	n atomic.Int32
}

func (d *countingDisposer) Dispose() { d.n.Add(1) }

func TestRegistry_InsertResolve(t *testing.T) {
	r := New()
	dc := mocks.NewMockDataChannel(3, "a")

	_, err := r.Insert(3, dc, &countingDisposer{})
	require.NoError(t, err)

	got, ok := r.Resolve(3)
	require.True(t, ok)
	assert.Equal(t, types.ChannelID(3), got.ID())

	_, ok = r.Resolve(4)
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_InsertDuplicate(t *testing.T) {
	r := New()
	first := mocks.NewMockDataChannel(1, "first")
	_, err := r.Insert(1, first, nil)
	require.NoError(t, err)

	_, err = r.Insert(1, mocks.NewMockDataChannel(1, "second"), nil)
	assert.Error(t, err)

	got, _ := r.Resolve(1)
	assert.Equal(t, "first", got.Label())
}

func TestRegistry_RemoveAndRelease(t *testing.T) {
	r := New()
	d := &countingDisposer{}
	_, err := r.Insert(1, mocks.NewMockDataChannel(1, "a"), d)
	require.NoError(t, err)

	e, ok := r.Remove(1)
	require.True(t, ok)
	e.Release()
	e.Release()

	assert.Equal(t, int32(1), d.n.Load())
	assert.Nil(t, e.Channel)

	_, ok = r.Remove(1)
	assert.False(t, ok)
	_, ok = r.Resolve(1)
	assert.False(t, ok)
}

func TestRegistry_ConcurrentRemoveOnlyOneWins(t *testing.T) {
	r := New()
	_, err := r.Insert(1, mocks.NewMockDataChannel(1, "a"), nil)
	require.NoError(t, err)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := r.Remove(1); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestRegistry_Drain(t *testing.T) {
	r := New()
	for _, id := range []types.ChannelID{5, 1, 3} {
		_, err := r.Insert(id, mocks.NewMockDataChannel(id, "x"), nil)
		require.NoError(t, err)
	}
	assert.Equal(t, []types.ChannelID{1, 3, 5}, r.IDs())

	entries := r.Drain()
	require.Len(t, entries, 3)
	assert.Equal(t, types.ChannelID(1), entries[0].ID)
	assert.Equal(t, types.ChannelID(5), entries[2].ID)
	assert.Equal(t, 0, r.Len())
}
