package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service is declared by hand on top of protobuf well-known types so it
// needs no generated stubs:
//
//	service IDService {
//	  rpc NextID(google.protobuf.Empty) returns (google.protobuf.UInt64Value);
//	  rpc NextIDs(google.protobuf.UInt32Value) returns (google.protobuf.BytesValue);
//	  rpc ParseID(google.protobuf.UInt64Value) returns (google.protobuf.Struct);
//	  rpc ValidateID(google.protobuf.UInt64Value) returns (google.protobuf.Struct);
//	}
const (
	ServiceName = "banuid.v1.IDService"

	NextIDMethod     = "/" + ServiceName + "/NextID"
	NextIDsMethod    = "/" + ServiceName + "/NextIDs"
	ParseIDMethod    = "/" + ServiceName + "/ParseID"
	ValidateIDMethod = "/" + ServiceName + "/ValidateID"
)

// IDServiceServer is the server API for IDService.
type IDServiceServer interface {
	NextID(context.Context, *emptypb.Empty) (*wrapperspb.UInt64Value, error)
	NextIDs(context.Context, *wrapperspb.UInt32Value) (*wrapperspb.BytesValue, error)
	ParseID(context.Context, *wrapperspb.UInt64Value) (*structpb.Struct, error)
	ValidateID(context.Context, *wrapperspb.UInt64Value) (*structpb.Struct, error)
}

// RegisterIDServiceServer registers srv on s.
func RegisterIDServiceServer(s grpc.ServiceRegistrar, srv IDServiceServer) {
	s.RegisterService(&idServiceDesc, srv)
}

var idServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IDServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "NextID", Handler: nextIDHandler},
		{MethodName: "NextIDs", Handler: nextIDsHandler},
		{MethodName: "ParseID", Handler: parseIDHandler},
		{MethodName: "ValidateID", Handler: validateIDHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func nextIDHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IDServiceServer).NextID(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: NextIDMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(IDServiceServer).NextID(ctx, req.(*emptypb.Empty))
	})
}

func nextIDsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.UInt32Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IDServiceServer).NextIDs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: NextIDsMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(IDServiceServer).NextIDs(ctx, req.(*wrapperspb.UInt32Value))
	})
}

func parseIDHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.UInt64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IDServiceServer).ParseID(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ParseIDMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(IDServiceServer).ParseID(ctx, req.(*wrapperspb.UInt64Value))
	})
}

func validateIDHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.UInt64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IDServiceServer).ValidateID(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ValidateIDMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(IDServiceServer).ValidateID(ctx, req.(*wrapperspb.UInt64Value))
	})
}
