package grpcserver

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Call invokes a procedure on cc. An empty token makes an anonymous call.
func Call(ctx context.Context, cc grpc.ClientConnInterface, name, token string, input json.RawMessage) (json.RawMessage, error) {
	method, err := MethodPath(name)
	if err != nil {
		return nil, err
	}
	if token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	}
	var out json.RawMessage
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}
	if err := cc.Invoke(ctx, method, input, &out, grpc.CallContentSubtype(CodecName)); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		out = json.RawMessage("null")
	}
	return out, nil
}
