package grpc

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/weiawesome/wes-io-live/banuid/internal/service"
)

// Client calls IDService over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// NextID fetches one id.
func (c *Client) NextID(ctx context.Context, opts ...grpc.CallOption) (uint64, error) {
	out := new(wrapperspb.UInt64Value)
	if err := c.cc.Invoke(ctx, NextIDMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}

// NextIDs fetches count ids.
func (c *Client) NextIDs(ctx context.Context, count uint32, opts ...grpc.CallOption) ([]uint64, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, NextIDsMethod, wrapperspb.UInt32(count), out, opts...); err != nil {
		return nil, err
	}

	b := out.GetValue()
	if len(b)%IDBytes != 0 {
		return nil, fmt.Errorf("batch payload of %d bytes is not a multiple of %d", len(b), IDBytes)
	}
	ids := make([]uint64, len(b)/IDBytes)
	for i := range ids {
		ids[i] = binary.BigEndian.Uint64(b[i*IDBytes:])
	}
	return ids, nil
}

// ParseID asks the server to decode id.
func (c *Client) ParseID(ctx context.Context, id uint64, opts ...grpc.CallOption) (*service.ParseResult, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ParseIDMethod, wrapperspb.UInt64(id), out, opts...); err != nil {
		return nil, err
	}

	f := out.GetFields()
	t, err := time.Parse(time.RFC3339Nano, f["time"].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("parse time field: %w", err)
	}
	return &service.ParseResult{
		ID:          id,
		TimestampMs: uint64(f["timestamp_ms"].GetNumberValue()),
		UnixMs:      int64(f["unix_ms"].GetNumberValue()),
		Time:        t,
		ShardID:     uint16(f["shard_id"].GetNumberValue()),
		Sequence:    uint16(f["sequence"].GetNumberValue()),
	}, nil
}

// ValidateID asks the server whether id is plausible.
func (c *Client) ValidateID(ctx context.Context, id uint64, opts ...grpc.CallOption) (bool, string, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ValidateIDMethod, wrapperspb.UInt64(id), out, opts...); err != nil {
		return false, "", err
	}
	f := out.GetFields()
	return f["valid"].GetBoolValue(), f["reason"].GetStringValue(), nil
}
