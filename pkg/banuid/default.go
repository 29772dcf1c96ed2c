package banuid

import "sync"

var (
	defaultGen  *Generator
	defaultOnce sync.Once
)

// Default returns the process generator, creating it with New on first use.
func Default() *Generator {
	defaultOnce.Do(func() {
		defaultGen = New()
	})
	return defaultGen
}

// Generate returns the next id from the process generator.
func Generate() uint64 {
	return Default().NextID()
}

// ParseTimestamp is ExtractTimestamp.
func ParseTimestamp(id uint64) uint64 { return ExtractTimestamp(id) }

// ParseShardID is ExtractShardID.
func ParseShardID(id uint64) uint16 { return ExtractShardID(id) }

// ParseSequence is ExtractSequence.
func ParseSequence(id uint64) uint16 { return ExtractSequence(id) }
