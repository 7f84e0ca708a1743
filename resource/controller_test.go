package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_MemoryLimit(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(60))
	require.NoError(t, c.AcquireMemory(40))
	assert.Equal(t, int64(100), c.MemoryUsage())
	assert.Equal(t, int64(100), c.MemoryLimit())

	assert.ErrorIs(t, c.AcquireMemory(1), ErrMemoryLimitExceeded)

	c.ReleaseMemory(40)
	assert.Equal(t, int64(60), c.MemoryUsage())
	assert.NoError(t, c.AcquireMemory(40))
}

func TestController_TrackingOnly(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquireMemory(1<<40))
	assert.Equal(t, int64(1<<40), c.MemoryUsage())
	assert.Equal(t, int64(0), c.MemoryLimit())
	c.ReleaseMemory(1 << 40)
	assert.Equal(t, int64(0), c.MemoryUsage())
}

func TestController_NilSafe(t *testing.T) {
	var c *Controller

	assert.NoError(t, c.AcquireMemory(100))
	c.ReleaseMemory(100)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.Equal(t, int64(0), c.MemoryLimit())
	assert.NoError(t, c.AcquireIO(context.Background(), 100))
	assert.True(t, c.TryAcquireIO(100))
}

func TestController_ZeroAndNegative(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 10})

	assert.NoError(t, c.AcquireMemory(0))
	assert.NoError(t, c.AcquireMemory(-5))
	c.ReleaseMemory(0)
	c.ReleaseMemory(-5)
	assert.Equal(t, int64(0), c.MemoryUsage())
}

func TestController_IOLimiter(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1024})

	// Burst equals the per-second limit.
	assert.True(t, c.TryAcquireIO(1024))
	assert.False(t, c.TryAcquireIO(1024), "bucket drained")

	unlimited := NewController(Config{})
	assert.True(t, unlimited.TryAcquireIO(1<<30))
	assert.NoError(t, unlimited.AcquireIO(context.Background(), 1<<30))
}
