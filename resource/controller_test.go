package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilControllerIsNoop(t *testing.T) {
	var c *Controller

	require.NoError(t, c.AcquireWorker(context.Background()))
	c.ReleaseWorker()
	assert.True(t, c.TryAcquireMemory(1<<30))
	c.ReleaseMemory(1 << 30)
	assert.Equal(t, int64(0), c.MemoryUsage())
	require.NoError(t, c.AcquireIO(context.Background(), 1<<20))
}

func TestWorkerLimit(t *testing.T) {
	c := NewController(Config{MaxBuildWorkers: 1})
	ctx := context.Background()

	require.NoError(t, c.AcquireWorker(ctx))

	// Second acquire blocks until the slot is released.
	timeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireWorker(timeout), context.DeadlineExceeded)

	c.ReleaseWorker()
	require.NoError(t, c.AcquireWorker(ctx))
	c.ReleaseWorker()
}

func TestMemoryLimit(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	assert.True(t, c.TryAcquireMemory(60))
	assert.False(t, c.TryAcquireMemory(60))
	assert.Equal(t, int64(60), c.MemoryUsage())

	c.ReleaseMemory(60)
	assert.True(t, c.TryAcquireMemory(100))
	assert.Equal(t, int64(100), c.MemoryUsage())
}

func TestMemoryUnlimitedStillTracked(t *testing.T) {
	c := NewController(Config{})

	assert.True(t, c.TryAcquireMemory(1<<40))
	assert.Equal(t, int64(1<<40), c.MemoryUsage())
	c.ReleaseMemory(1 << 40)
	assert.Equal(t, int64(0), c.MemoryUsage())
}

func TestIOLimitSplitsLargeRequests(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	// Larger than the burst; must be split rather than rejected.
	require.NoError(t, c.AcquireIO(context.Background(), (1<<20)+1024))
}

func TestIOLimitHonorsContext(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 10})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquireIO(ctx, 1000))
}
