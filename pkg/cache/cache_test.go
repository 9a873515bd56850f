package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegear/sitegear/pkg/cache"
)

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		_, err := c.Get(ctx, "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("stored value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[map[string]any]()
		defer c.Close()

		require.NoError(t, c.Set(ctx, "forms/contact.json", map[string]any{"method": "post"}, time.Minute))
		v, err := c.Get(ctx, "forms/contact.json")
		require.NoError(t, err)
		assert.Equal(t, "post", v["method"])
	})

	t.Run("expired value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](cache.WithSweepInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", 1, time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](cache.WithDefaultTTL(time.Millisecond), cache.WithSweepInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "forever", 1, -1))
		require.NoError(t, c.Set(ctx, "default", 2, 0))
		time.Sleep(5 * time.Millisecond)

		has, err := c.Has(ctx, "forever")
		require.NoError(t, err)
		assert.True(t, has)

		has, err = c.Has(ctx, "default")
		require.NoError(t, err)
		assert.False(t, has)
	})
}

func TestMemory_Capacity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory[string](cache.WithCapacity(2))
	defer c.Close()

	require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, c.Set(ctx, "b", "2", time.Minute))
	_, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "c", "3", time.Minute))

	for key, want := range map[string]bool{"a": true, "b": false, "c": true} {
		has, err := c.Has(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, has, key)
	}
}

func TestMemory_DeleteClearClose(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory[int]()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	require.NoError(t, c.Delete(ctx, "a"))
	require.NoError(t, c.Delete(ctx, "never-set"))
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, 0, c.Len())

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	require.ErrorIs(t, c.Set(ctx, "a", 1, 0), cache.ErrClosed)
	require.ErrorIs(t, c.Delete(ctx, "a"), cache.ErrClosed)
}

func TestMemory_Sweeper(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory[int](cache.WithSweepInterval(5 * time.Millisecond))
	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", 1, time.Millisecond))
	require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestGetOrSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("loads once under concurrency", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		var calls atomic.Int32
		release := make(chan struct{})
		load := func(context.Context) (string, time.Duration, error) {
			calls.Add(1)
			<-release
			return "loaded", time.Minute, nil
		}

		var wg sync.WaitGroup
		results := make([]string, 8)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := cache.GetOrSet(ctx, c, "key", load)
				assert.NoError(t, err)
				results[i] = v
			}()
		}
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, v := range results {
			assert.Equal(t, "loaded", v)
		}

		v, err := c.Get(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, "loaded", v)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		boom := errors.New("boom")
		_, err := cache.GetOrSet(ctx, c, "key", func(context.Context) (string, time.Duration, error) {
			return "", 0, boom
		})
		require.ErrorIs(t, err, boom)

		has, err := c.Has(ctx, "key")
		require.NoError(t, err)
		assert.False(t, has)
	})
}

func TestJSONCodec(t *testing.T) {
	t.Parallel()

	codec := cache.JSONCodec[map[string]any]{}
	data, err := codec.Encode(map[string]any{"step": 2})
	require.NoError(t, err)

	v, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, float64(2), v["step"])

	_, err = codec.Decode([]byte("{"))
	require.ErrorIs(t, err, cache.ErrCodec)
}
