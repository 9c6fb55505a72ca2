package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return srv, NewRedis(client, ttl)
}

func countingCompute(calls *atomic.Int32, data []byte, err error) ComputeFunc {
	return func(ctx context.Context) ([]byte, error) {
		calls.Add(1)
		return data, err
	}
}

func TestRedis_Hit(t *testing.T) {
	srv, r := newTestRedis(t, time.Hour)
	require.NoError(t, srv.Set(keyPrefix+"46750", "cached pdf"))

	var calls atomic.Int32
	data, err := r.GetOrCompute(context.Background(), "46750", countingCompute(&calls, []byte("fresh"), nil))
	require.NoError(t, err)
	assert.Equal(t, "cached pdf", string(data))
	assert.Zero(t, calls.Load())
}

func TestRedis_MissStoresWithTTL(t *testing.T) {
	srv, r := newTestRedis(t, time.Hour)

	var calls atomic.Int32
	data, err := r.GetOrCompute(context.Background(), "46750", countingCompute(&calls, []byte("pdf"), nil))
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(data))

	stored, err := srv.Get(keyPrefix + "46750")
	require.NoError(t, err)
	assert.Equal(t, "pdf", stored)
	assert.Equal(t, time.Hour, srv.TTL(keyPrefix+"46750"))

	// served from redis now
	data, err = r.GetOrCompute(context.Background(), "46750", countingCompute(&calls, []byte("other"), nil))
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(data))
	assert.Equal(t, int32(1), calls.Load())
}

func TestRedis_ErrorNotStored(t *testing.T) {
	srv, r := newTestRedis(t, time.Hour)
	boom := errors.New("boom")

	var calls atomic.Int32
	_, err := r.GetOrCompute(context.Background(), "46750", countingCompute(&calls, nil, boom))
	assert.ErrorIs(t, err, boom)
	assert.False(t, srv.Exists(keyPrefix+"46750"))

	data, err := r.GetOrCompute(context.Background(), "46750", countingCompute(&calls, []byte("pdf"), nil))
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(data))
	assert.Equal(t, int32(2), calls.Load())
}

func TestRedis_OutageStillComputes(t *testing.T) {
	srv, r := newTestRedis(t, time.Hour)
	srv.Close()

	var calls atomic.Int32
	data, err := r.GetOrCompute(context.Background(), "46750", countingCompute(&calls, []byte("pdf"), nil))
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(data))
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewRedisClient(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+srv.Addr()+"/0")
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)

	addr := srv.Addr()
	srv.Close()
	_, err = NewRedisClient(context.Background(), "redis://"+addr+"/0")
	assert.Error(t, err)
}
