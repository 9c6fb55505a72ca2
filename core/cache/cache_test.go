package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_ComputesOncePerKey(t *testing.T) {
	m := NewMemory()
	var calls atomic.Int32
	release := make(chan struct{})

	compute := func(ctx context.Context) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte("pdf"), nil
	}

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := m.GetOrCompute(context.Background(), "46750", compute)
			assert.NoError(t, err)
			results[i] = data
		}()
	}

	// let every caller join the in-flight computation
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, []byte("pdf"), r)
	}

	data, err := m.GetOrCompute(context.Background(), "46750", compute)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf"), data)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, m.Len())
}

func TestMemory_ErrorsNotCached(t *testing.T) {
	m := NewMemory()
	boom := errors.New("boom")

	_, err := m.GetOrCompute(context.Background(), "1", func(ctx context.Context) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, m.Len())

	data, err := m.GetOrCompute(context.Background(), "1", func(ctx context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), data)
}

func TestMemory_DistinctKeys(t *testing.T) {
	m := NewMemory()
	for _, key := range []string{"1", "2"} {
		_, err := m.GetOrCompute(context.Background(), key, func(ctx context.Context) ([]byte, error) {
			return []byte(key), nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, m.Len())
}

func TestMemory_CallerCancel(t *testing.T) {
	m := NewMemory()
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.GetOrCompute(ctx, "1", func(ctx context.Context) ([]byte, error) {
		<-release
		return []byte("late"), nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
