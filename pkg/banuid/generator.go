package banuid

import (
	"runtime"
	"sync"
	"time"
)

// Generator produces ids for a single shard. It is safe for concurrent use.
type Generator struct {
	mu            sync.Mutex
	shardID       uint16
	lastTimestamp int64 // ms since Epoch of the last id handed out, -1 before the first
	sequence      uint16

	// now reads ms since Epoch; negative while the host clock is before Epoch.
	now func() int64
}

// New creates a Generator whose shard id is derived from the host identity
// and process id, see DeriveShardID.
func New() *Generator {
	return WithShardID(DeriveShardID())
}

// WithShardID creates a Generator for an explicit shard id. Values above
// MaxShardID are masked to their low 13 bits.
func WithShardID(shardID uint16) *Generator {
	return &Generator{
		shardID:       shardID & MaxShardID,
		lastTimestamp: -1,
		now:           nowSinceEpoch,
	}
}

// ShardID returns the shard id embedded in every id of g.
func (g *Generator) ShardID() uint16 {
	return g.shardID
}

// Generate is an alias for NextID.
func (g *Generator) Generate() uint64 {
	return g.NextID()
}

// NextID returns the next id. Ids from one Generator are strictly increasing.
// A clock that moves backwards pins the timestamp to the last one used; an
// exhausted sequence waits for the next millisecond.
func (g *Generator) NextID() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := max(g.now(), 0)
	if ts < g.lastTimestamp {
		ts = g.lastTimestamp
	}

	if ts == g.lastTimestamp {
		if g.sequence < MaxSequence {
			g.sequence++
		} else {
			g.lastTimestamp = g.nextMillisecond()
			g.sequence = 0
		}
	} else {
		g.lastTimestamp = ts
		g.sequence = 0
	}

	return Encode(uint64(g.lastTimestamp), g.shardID, g.sequence)
}

// nextMillisecond returns the first millisecond after lastTimestamp. If the
// clock is currently at lastTimestamp it spins until it ticks over. If the
// clock reads earlier than that (set back, or still before Epoch) waiting
// could take arbitrarily long, so the following millisecond is borrowed.
// Must be called with g.mu held.
func (g *Generator) nextMillisecond() int64 {
	now := g.now()
	if now < g.lastTimestamp {
		return g.lastTimestamp + 1
	}
	for now <= g.lastTimestamp {
		runtime.Gosched()
		now = g.now()
	}
	return now
}

// ExtractTimestamp returns the ms since Epoch embedded in id.
func ExtractTimestamp(id uint64) uint64 {
	return DecodeTimestamp(id)
}

// ExtractShardID returns the shard id embedded in id.
func ExtractShardID(id uint64) uint16 {
	return DecodeShardID(id)
}

// ExtractSequence returns the sequence embedded in id.
func ExtractSequence(id uint64) uint16 {
	return DecodeSequence(id)
}

// UnixMilli returns the embedded timestamp as unix milliseconds.
func UnixMilli(id uint64) int64 {
	return EpochMilli + int64(DecodeTimestamp(id))
}

// Time returns the embedded timestamp as a UTC time.
func Time(id uint64) time.Time {
	return time.UnixMilli(UnixMilli(id)).UTC()
}

func nowSinceEpoch() int64 {
	return time.Now().UnixMilli() - EpochMilli
}
