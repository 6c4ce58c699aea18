package ttlcache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
}

func TestCache_SetGet(t *testing.T) {
	clk := newClock()
	c := New[string, int](time.Minute, clk.Now)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	clk := newClock()
	c := New[string, int](time.Minute, clk.Now)

	c.Set("a", 1)
	clk.Advance(59 * time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok)

	clk.Advance(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry should expire exactly at ttl")
	assert.Equal(t, 0, c.Len(), "expired entry is evicted on read")
}

func TestCache_SetWithTTL(t *testing.T) {
	clk := newClock()
	c := New[string, string](time.Hour, clk.Now)

	c.SetWithTTL("short", "x", time.Second)
	v, ok := c.Get("short")
	require.True(t, ok)
	assert.Equal(t, "x", v)

	clk.Advance(2 * time.Second)
	_, ok = c.Get("short")
	assert.False(t, ok)
}

func TestCache_Update(t *testing.T) {
	clk := newClock()
	c := New[string, int](time.Minute, clk.Now)

	incr := func(old int, _ bool) int { return old + 1 }

	assert.Equal(t, 1, c.Update("k", incr))
	assert.Equal(t, 2, c.Update("k", incr))

	clk.Advance(time.Minute)
	assert.Equal(t, 1, c.Update("k", incr), "expired counter restarts")
}

func TestCache_Purge(t *testing.T) {
	clk := newClock()
	c := New[int, int](time.Minute, clk.Now)

	c.Set(1, 1)
	c.SetWithTTL(2, 2, time.Hour)
	clk.Advance(2 * time.Minute)

	assert.Equal(t, 1, c.Purge())
	assert.Equal(t, 1, c.Len())

	clk.Advance(time.Hour)
	assert.Equal(t, 1, c.Purge())
	assert.Equal(t, 0, c.Len())
}

func TestCache_ConcurrentUpdate(t *testing.T) {
	c := New[string, int](time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Update("n", func(old int, _ bool) int { return old + 1 })
		}()
	}
	wg.Wait()

	v, ok := c.Get("n")
	require.True(t, ok)
	assert.Equal(t, 50, v)
}
