package banuid

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable millisecond clock. Reads are counted so tests can
// script a tick after a given number of reads.
type fakeClock struct {
	mu    sync.Mutex
	ms    int64
	reads int

	// after tickAfter reads the clock jumps to tickTo, if tickAfter > 0
	tickAfter int
	tickTo    int64
}

func (c *fakeClock) now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	if c.tickAfter > 0 && c.reads > c.tickAfter {
		c.ms = c.tickTo
	}
	return c.ms
}

func (c *fakeClock) set(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ms = ms
}

func newTestGenerator(shardID uint16, clock *fakeClock) *Generator {
	g := WithShardID(shardID)
	g.now = clock.now
	return g
}

func TestWithShardID(t *testing.T) {
	tests := []struct {
		name string
		in   uint16
		want uint16
	}{
		{"zero", 0, 0},
		{"max", 8191, 8191},
		{"masked", 10000, 10000 & 0x1FFF},
		{"first out of range", 8192, 0},
		{"all bits", 0xFFFF, 8191},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := WithShardID(tt.in)
			assert.Equal(t, tt.want, g.ShardID())
			assert.Equal(t, tt.want, ExtractShardID(g.NextID()))
		})
	}
}

func TestNextID_ExtractShardID(t *testing.T) {
	g := WithShardID(42)
	for range 2000 {
		require.Equal(t, uint16(42), ExtractShardID(g.NextID()))
	}
}

func TestNextID_NewMillisecondResetsSequence(t *testing.T) {
	clock := &fakeClock{ms: 10}
	g := newTestGenerator(1, clock)

	id := g.NextID()
	assert.Equal(t, Parts{Timestamp: 10, ShardID: 1, Sequence: 0}, Decode(id))

	id = g.NextID()
	assert.Equal(t, Parts{Timestamp: 10, ShardID: 1, Sequence: 1}, Decode(id))

	clock.set(11)
	id = g.NextID()
	assert.Equal(t, Parts{Timestamp: 11, ShardID: 1, Sequence: 0}, Decode(id))
}

func TestNextID_SequenceRollover(t *testing.T) {
	// 1025 reads see ms 100, every later read sees 101
	clock := &fakeClock{ms: 100, tickAfter: 1025, tickTo: 101}
	g := newTestGenerator(7, clock)

	var last uint64
	for i := range 1024 {
		id := g.NextID()
		require.Equal(t, uint64(100), ExtractTimestamp(id))
		require.Equal(t, uint16(i), ExtractSequence(id))
		require.Greater(t, id, last)
		last = id
	}

	id := g.NextID()
	assert.Equal(t, uint64(101), ExtractTimestamp(id))
	assert.Equal(t, uint16(0), ExtractSequence(id))
	assert.Equal(t, uint16(7), ExtractShardID(id))
	assert.Greater(t, id, last)
}

func TestNextID_ClockRegression(t *testing.T) {
	clock := &fakeClock{ms: 500}
	g := newTestGenerator(3, clock)

	first := g.NextID()
	assert.Equal(t, Parts{Timestamp: 500, ShardID: 3, Sequence: 0}, Decode(first))

	clock.set(400)
	second := g.NextID()
	assert.Equal(t, Parts{Timestamp: 500, ShardID: 3, Sequence: 1}, Decode(second))
	assert.Greater(t, second, first)

	// exhaust the pinned millisecond while the clock is still behind
	last := second
	for range int(MaxSequence) - 1 {
		id := g.NextID()
		require.Greater(t, id, last)
		last = id
	}
	require.Equal(t, MaxSequence, ExtractSequence(last))

	borrowed := g.NextID()
	assert.Equal(t, Parts{Timestamp: 501, ShardID: 3, Sequence: 0}, Decode(borrowed))

	// the clock recovers past the borrowed millisecond
	clock.set(600)
	id := g.NextID()
	assert.Equal(t, Parts{Timestamp: 600, ShardID: 3, Sequence: 0}, Decode(id))
}

func TestNextID_FirstIDAtEpoch(t *testing.T) {
	clock := &fakeClock{ms: 0}
	g := newTestGenerator(4, clock)

	assert.Equal(t, Parts{Timestamp: 0, ShardID: 4, Sequence: 0}, Decode(g.NextID()))
	assert.Equal(t, Parts{Timestamp: 0, ShardID: 4, Sequence: 1}, Decode(g.NextID()))
}

func TestNextID_ClockBeforeEpoch(t *testing.T) {
	// a host clock stuck before Epoch never ticks past the clamped timestamp
	clock := &fakeClock{ms: -5000}
	g := newTestGenerator(8, clock)

	var last uint64
	for i := range 1024 {
		id := g.NextID()
		require.Equal(t, Parts{Timestamp: 0, ShardID: 8, Sequence: uint16(i)}, Decode(id))
		if i > 0 {
			require.Greater(t, id, last)
		}
		last = id
	}

	done := make(chan uint64, 1)
	go func() { done <- g.NextID() }()

	var id uint64
	select {
	case id = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("NextID did not return with an exhausted sequence before Epoch")
	}
	assert.Equal(t, Parts{Timestamp: 1, ShardID: 8, Sequence: 0}, Decode(id))
	assert.Greater(t, id, last)

	id = g.NextID()
	assert.Equal(t, Parts{Timestamp: 1, ShardID: 8, Sequence: 1}, Decode(id))
}

func TestNextID_Monotonic(t *testing.T) {
	g := WithShardID(1)

	var last uint64
	for range 10000 {
		id := g.NextID()
		require.Greater(t, id, last)
		last = id
	}
}

func TestNextID_Concurrent(t *testing.T) {
	const (
		workers = 10
		perWork = 100
	)
	g := WithShardID(1)

	var (
		mu  sync.Mutex
		ids = make(map[uint64]struct{}, workers*perWork)
		wg  sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]uint64, 0, perWork)
			for range perWork {
				local = append(local, g.NextID())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				ids[id] = struct{}{}
			}
		}()
	}
	wg.Wait()

	assert.Len(t, ids, workers*perWork)
}

func TestNextID_ShardIsolation(t *testing.T) {
	// both generators read the same simulated clock, so timestamps and
	// sequences line up exactly
	clock := &fakeClock{ms: 1000}
	g5 := newTestGenerator(5, clock)
	g6 := newTestGenerator(6, clock)

	seen := make(map[uint64]struct{})
	for i := range 3000 {
		if i%500 == 0 {
			clock.set(1000 + int64(i/500))
		}
		a, b := g5.NextID(), g6.NextID()
		require.Equal(t, ExtractTimestamp(a), ExtractTimestamp(b))
		require.Equal(t, ExtractSequence(a), ExtractSequence(b))
		require.NotEqual(t, a, b)

		for _, id := range []uint64{a, b} {
			_, dup := seen[id]
			require.False(t, dup, "duplicate id %d", id)
			seen[id] = struct{}{}
		}
	}
}

func TestNextID_RecentTimestamp(t *testing.T) {
	g := WithShardID(9)
	before := uint64(nowSinceEpoch())
	id := g.NextID()
	after := uint64(nowSinceEpoch())

	ts := ExtractTimestamp(id)
	assert.GreaterOrEqual(t, ts, before)
	assert.LessOrEqual(t, ts, after)
}

func TestGenerateAlias(t *testing.T) {
	clock := &fakeClock{ms: 77}
	g := newTestGenerator(2, clock)

	a := g.NextID()
	b := g.Generate()
	assert.Equal(t, a+1, b)
}

func TestNew(t *testing.T) {
	g := New()
	assert.LessOrEqual(t, g.ShardID(), MaxShardID)
	assert.Equal(t, g.ShardID(), ExtractShardID(g.NextID()))
}

func BenchmarkNextID(b *testing.B) {
	g := WithShardID(42)
	for b.Loop() {
		g.NextID()
	}
}

func BenchmarkNextIDParallel(b *testing.B) {
	g := WithShardID(1)
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			g.NextID()
		}
	})
}

func BenchmarkNew(b *testing.B) {
	for b.Loop() {
		New()
	}
}

func BenchmarkExtract(b *testing.B) {
	id := WithShardID(123).NextID()
	b.Run("timestamp", func(b *testing.B) {
		for b.Loop() {
			ExtractTimestamp(id)
		}
	})
	b.Run("shard id", func(b *testing.B) {
		for b.Loop() {
			ExtractShardID(id)
		}
	})
	b.Run("sequence", func(b *testing.B) {
		for b.Loop() {
			ExtractSequence(id)
		}
	})
}
