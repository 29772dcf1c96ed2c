package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/weiawesome/wes-io-live/banuid/pkg/banuid"
)

// MaxBatchSize bounds a single batch request.
const MaxBatchSize = 1000

var (
	ErrInvalidCount = errors.New("invalid batch count")
	ErrMalformedID  = errors.New("malformed id")
)

// ParseResult holds the decoded fields of an id.
type ParseResult struct {
	ID          uint64    `json:"-"`
	TimestampMs uint64    `json:"timestamp_ms"` // since banuid.Epoch
	UnixMs      int64     `json:"unix_ms"`
	Time        time.Time `json:"time"`
	ShardID     uint16    `json:"shard_id"`
	Sequence    uint16    `json:"sequence"`
}

// IDService hands out and inspects banuid ids for one shard.
type IDService struct {
	gen *banuid.Generator

	// now is the validation clock; ids stamped after it are rejected.
	now func() time.Time
}

// NewIDService creates an IDService backed by gen.
func NewIDService(gen *banuid.Generator) *IDService {
	return &IDService{
		gen: gen,
		now: time.Now,
	}
}

// ShardID returns the shard of the underlying generator.
func (s *IDService) ShardID() uint16 {
	return s.gen.ShardID()
}

// NextID returns one id.
func (s *IDService) NextID() uint64 {
	return s.gen.NextID()
}

// NextIDs returns count ids in increasing order. count must be in
// [1, MaxBatchSize].
func (s *IDService) NextIDs(count int) ([]uint64, error) {
	if count < 1 || count > MaxBatchSize {
		return nil, fmt.Errorf("count must be between 1 and %d, got %d: %w", MaxBatchSize, count, ErrInvalidCount)
	}
	ids := make([]uint64, count)
	for i := range ids {
		ids[i] = s.gen.NextID()
	}
	return ids, nil
}

// Parse decodes id.
func (s *IDService) Parse(id uint64) *ParseResult {
	parts := banuid.Decode(id)
	return &ParseResult{
		ID:          id,
		TimestampMs: parts.Timestamp,
		UnixMs:      banuid.UnixMilli(id),
		Time:        banuid.Time(id),
		ShardID:     parts.ShardID,
		Sequence:    parts.Sequence,
	}
}

// ParseString decodes the decimal form of an id.
func (s *IDService) ParseString(id string) (*ParseResult, error) {
	n, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.Parse(n), nil
}

// Validate reports whether id could have been produced by now: its timestamp
// must not lie in the future. The reason is empty for valid ids.
func (s *IDService) Validate(id uint64) (bool, string) {
	if id == 0 {
		return false, "id must be non-zero"
	}
	nowMs := s.now().UnixMilli()
	if banuid.UnixMilli(id) > nowMs {
		return false, fmt.Sprintf("timestamp %d is in the future", banuid.UnixMilli(id))
	}
	return true, ""
}

// ParseID parses the decimal form of an id.
func ParseID(id string) (uint64, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", id, ErrMalformedID)
	}
	return n, nil
}

// FormatID renders id in decimal.
func FormatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
