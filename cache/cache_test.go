package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/tern/shared"
	"github.com/cloudcmds/tern/stats"
	"github.com/cloudcmds/tern/value"
)

var errSentinel = errors.New("loader failed")

func listValue(items ...int64) value.Value {
	lst := value.NewList()
	for _, n := range items {
		lst.Append(value.NewInt(n))
	}
	return value.NewArrayValue(lst)
}

func TestSetGetRoundTrip(t *testing.T) {
	c := New()
	require.NoError(t, c.Set("nums", listValue(1, 2, 3)))

	got, ok := c.Get("nums")
	require.True(t, ok)
	require.Equal(t, value.KindPersistentList, got.Kind)
	require.Equal(t, 3, got.Arr.Len())
	require.Equal(t, int64(2), got.Arr.At(1).Int)
	shared.Release(got)

	_, ok = c.Get("missing")
	require.False(t, ok)
}

func TestSetPreservesSharing(t *testing.T) {
	inner := value.NewListOf(value.NewInt(9))
	iv := value.NewArrayValue(inner)
	outer := value.NewList()
	outer.Append(iv)
	outer.Append(iv)

	c := New()
	require.NoError(t, c.Set("outer", value.NewArrayValue(outer)))

	got, ok := c.Get("outer")
	require.True(t, ok)
	require.Same(t, got.Arr.At(0).Arr, got.Arr.At(1).Arr)
	shared.Release(got)
}

func TestSetRejectsUnshareable(t *testing.T) {
	c := New()
	err := c.Set("obj", value.Value{Kind: value.KindObject})
	require.Error(t, err)
	require.ErrorContains(t, err, "cannot share object value")
	require.Equal(t, 0, c.Len())
}

func TestDeleteReleases(t *testing.T) {
	stats.Create()
	defer stats.Reset()

	c := New()
	require.NoError(t, c.Set("k", listValue(1)))
	require.Equal(t, int64(1), stats.Get().LiveBlocks())

	require.True(t, c.Delete("k"))
	require.False(t, c.Delete("k"))
	require.Equal(t, int64(0), stats.Get().LiveBlocks())
}

func TestOverwriteReleasesDisplaced(t *testing.T) {
	stats.Create()
	defer stats.Reset()

	c := New()
	require.NoError(t, c.Set("k", listValue(1)))
	require.NoError(t, c.Set("k", listValue(2)))
	require.Equal(t, int64(1), stats.Get().LiveBlocks())

	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, int64(2), got.Arr.At(0).Int)
	shared.Release(got)

	c.Clear()
	require.Equal(t, int64(0), stats.Get().LiveBlocks())
}

func TestCapacityEvictsOldest(t *testing.T) {
	stats.Create()
	defer stats.Reset()

	c := New(WithCapacity(2))
	require.NoError(t, c.Set("a", listValue(1)))
	require.NoError(t, c.Set("b", listValue(2)))
	require.NoError(t, c.Set("c", listValue(3)))

	require.Equal(t, 2, c.Len())
	require.False(t, c.Contains("a"))
	require.Equal(t, []string{"b", "c"}, c.Keys())
	require.Equal(t, int64(2), stats.Get().LiveBlocks())

	c.Clear()
	require.Equal(t, int64(0), stats.Get().LiveBlocks())
}

func TestGetHoldsReferenceAcrossDelete(t *testing.T) {
	stats.Create()
	defer stats.Reset()

	c := New()
	require.NoError(t, c.Set("k", listValue(7)))
	got, ok := c.Get("k")
	require.True(t, ok)

	// Deleting releases the cache's reference; ours keeps the value alive.
	require.True(t, c.Delete("k"))
	require.Equal(t, int64(1), stats.Get().LiveBlocks())
	require.Equal(t, int64(7), got.Arr.At(0).Int)

	shared.Release(got)
	require.Equal(t, int64(0), stats.Get().LiveBlocks())
}

func TestFetchRunsLoaderOnce(t *testing.T) {
	c := New()
	var calls atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.Fetch("lazy", func() (value.Value, error) {
				calls.Add(1)
				return listValue(42), nil
			})
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, int64(42), got.Arr.At(0).Int)
			shared.Release(got)
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, 1, c.Len())
}

func TestFetchPropagatesLoaderError(t *testing.T) {
	c := New()
	_, err := c.Fetch("bad", func() (value.Value, error) {
		return value.Value{}, errSentinel
	})
	require.ErrorIs(t, err, errSentinel)
	require.Equal(t, 0, c.Len())
}

func TestConfigPassThrough(t *testing.T) {
	fn := value.NewFunc("cached_fn", true)

	c := New()
	require.Error(t, c.Set("fn", value.NewFuncValue(fn)))

	permissive := New(WithConfig(shared.Config{ShareFuncs: true}))
	require.NoError(t, permissive.Set("fn", value.NewFuncValue(fn)))
	got, ok := permissive.Get("fn")
	require.True(t, ok)
	require.Same(t, fn, got.Fn)
}

func TestConcurrentAccess(t *testing.T) {
	c := New()
	require.NoError(t, c.Set("k", listValue(1, 2, 3)))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				got, ok := c.Get("k")
				if !assert.True(t, ok) {
					return
				}
				assert.Equal(t, 3, got.Arr.Len())
				shared.Release(got)
			}
		}()
	}
	wg.Wait()
}
