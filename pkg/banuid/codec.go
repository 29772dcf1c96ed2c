package banuid

import "time"

const (
	// EpochMilli is 2024-01-01T00:00:00Z in unix milliseconds.
	EpochMilli int64 = 1704067200000

	TimestampBits = 41
	ShardIDBits   = 13
	SequenceBits  = 10

	MaxTimestamp uint64 = (1 << TimestampBits) - 1
	MaxShardID   uint16 = (1 << ShardIDBits) - 1  // 8191
	MaxSequence  uint16 = (1 << SequenceBits) - 1 // 1023

	shardIDShift   = SequenceBits
	timestampShift = ShardIDBits + SequenceBits
)

// Epoch is the reference instant all embedded timestamps are measured from.
var Epoch = time.UnixMilli(EpochMilli).UTC()

// Parts holds the decoded fields of an id.
type Parts struct {
	Timestamp uint64 // ms since Epoch
	ShardID   uint16
	Sequence  uint16
}

// Encode packs the three fields into an id. Callers keep each field within
// its width; anything wider is truncated so it cannot spill into a
// neighbouring field.
func Encode(timestampMs uint64, shardID, sequence uint16) uint64 {
	return (timestampMs&MaxTimestamp)<<timestampShift |
		uint64(shardID&MaxShardID)<<shardIDShift |
		uint64(sequence&MaxSequence)
}

// DecodeTimestamp returns the ms since Epoch stored in id.
func DecodeTimestamp(id uint64) uint64 {
	return id >> timestampShift
}

// DecodeShardID returns the shard id stored in id.
func DecodeShardID(id uint64) uint16 {
	return uint16((id >> shardIDShift) & uint64(MaxShardID))
}

// DecodeSequence returns the sequence stored in id.
func DecodeSequence(id uint64) uint16 {
	return uint16(id & uint64(MaxSequence))
}

// Decode splits id into its fields.
func Decode(id uint64) Parts {
	return Parts{
		Timestamp: DecodeTimestamp(id),
		ShardID:   DecodeShardID(id),
		Sequence:  DecodeSequence(id),
	}
}
