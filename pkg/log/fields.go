package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Service
	FieldService = "service"

	// gRPC
	FieldGRPCMethod = "grpc_method"
	FieldGRPCCode   = "grpc_code"

	// Identifiers
	FieldID           = "id"
	FieldCount        = "count"
	FieldShardID      = "shard_id"
	FieldShardSource  = "shard_source"
	FieldHostIdentity = "host_identity"
)
