package grpc

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/weiawesome/wes-io-live/banuid/internal/service"
	pkglog "github.com/weiawesome/wes-io-live/banuid/pkg/log"
)

// IDBytes is the wire size of one id in a NextIDs response.
const IDBytes = 8

type idServer struct {
	svc *service.IDService
}

func (s *idServer) NextID(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.UInt64Value, error) {
	return wrapperspb.UInt64(s.svc.NextID()), nil
}

func (s *idServer) NextIDs(ctx context.Context, req *wrapperspb.UInt32Value) (*wrapperspb.BytesValue, error) {
	ids, err := s.svc.NextIDs(int(req.GetValue()))
	if err != nil {
		return nil, toStatus(err)
	}

	buf := make([]byte, len(ids)*IDBytes)
	for i, id := range ids {
		binary.BigEndian.PutUint64(buf[i*IDBytes:], id)
	}
	logger := pkglog.Ctx(ctx)
	logger.Debug().Int(pkglog.FieldCount, len(ids)).Msg("batch generated")
	return wrapperspb.Bytes(buf), nil
}

func (s *idServer) ParseID(ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.Struct, error) {
	r := s.svc.Parse(req.GetValue())
	return structpb.NewStruct(map[string]any{
		"timestamp_ms": float64(r.TimestampMs),
		"unix_ms":      float64(r.UnixMs),
		"shard_id":     float64(r.ShardID),
		"sequence":     float64(r.Sequence),
		"time":         r.Time.Format(time.RFC3339Nano),
	})
}

func (s *idServer) ValidateID(ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.Struct, error) {
	valid, reason := s.svc.Validate(req.GetValue())
	return structpb.NewStruct(map[string]any{
		"valid":  valid,
		"reason": reason,
	})
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCount), errors.Is(err, service.ErrMalformedID):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// NewServer creates a gRPC server with IDService registered.
func NewServer(svc *service.IDService, logger zerolog.Logger) *grpc.Server {
	s := grpc.NewServer(
		grpc.UnaryInterceptor(pkglog.UnaryServerInterceptor(logger)),
	)
	RegisterIDServiceServer(s, &idServer{svc: svc})
	return s
}

// StartGRPCServer creates and starts the gRPC server in a background goroutine.
func StartGRPCServer(addr string, svc *service.IDService, logger zerolog.Logger) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s := NewServer(svc, logger)

	go func() {
		logger.Info().Str("addr", addr).Msg("grpc server listening")
		if err := s.Serve(lis); err != nil {
			logger.Error().Err(err).Msg("grpc server error")
		}
	}()

	return s, nil
}
