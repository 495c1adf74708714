package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_MemoryStore(t *testing.T) {
	ctx := context.Background()
	lim, closeFn, err := New(ctx, "2-M", "", discardLogger())
	require.NoError(t, err)
	defer closeFn()

	for i := 0; i < 2; i++ {
		res, err := lim.Get(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.False(t, res.Reached)
	}
	res, err := lim.Get(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Reached)
}

func TestNew_RedisStoreSharesCounters(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	url := "redis://" + mr.Addr()

	first, closeFirst, err := New(ctx, "1-M", url, discardLogger())
	require.NoError(t, err)
	defer closeFirst()
	second, closeSecond, err := New(ctx, "1-M", url, discardLogger())
	require.NoError(t, err)
	defer closeSecond()

	res, err := first.Get(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.False(t, res.Reached)

	res, err = second.Get(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, res.Reached, "second instance sees the first one's hit")
}

func TestNew_InvalidInput(t *testing.T) {
	_, _, err := New(context.Background(), "lots", "", discardLogger())
	assert.ErrorContains(t, err, "invalid rate limit")

	_, _, err = New(context.Background(), "1-M", "http://nope", discardLogger())
	assert.ErrorContains(t, err, "invalid redis url")
}
