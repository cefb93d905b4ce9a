package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/nanocube/resource"
)

func TestGetSet(t *testing.T) {
	c := New(0, nil)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 42, 8)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestUnboundedGrowth(t *testing.T) {
	c := New(0, nil)
	for i := 0; i < 1000; i++ {
		c.Set(fmt.Sprintf("k%d", i), i, 8)
	}
	assert.Equal(t, 1000, c.Len())
}

func TestLRUEviction(t *testing.T) {
	c := New(2, nil)
	c.Set("a", 1, 8)
	c.Set("b", 2, 8)

	// Touch "a" so "b" is the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3, 8)
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestReinsertRefreshesRecency(t *testing.T) {
	c := New(2, nil)
	c.Set("a", 1, 8)
	c.Set("b", 2, 8)
	c.Set("a", 1, 8)
	c.Set("c", 3, 8)

	_, ok := c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestMemoryBudget(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	c := New(0, rc)

	c.Set("a", 1, 60)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(60), rc.MemoryUsage())

	// Over budget: the entry is dropped, not stored.
	c.Set("b", 2, 60)
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("b")
	assert.False(t, ok)
}

func TestEvictionReleasesMemory(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	c := New(1, rc)

	c.Set("a", 1, 60)
	c.Set("b", 2, 60)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(60), rc.MemoryUsage())
	_, ok := c.Get("b")
	assert.True(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	c := New(64, nil)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%32)
				c.Set(key, i, 8)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 64)
}
