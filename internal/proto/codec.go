// Package proto holds the wire contract of gatekeeper.v1.AuthService: the
// message types, the service descriptor and a client stub. Messages travel
// as JSON over gRPC using the "json" content subtype.
package proto

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	protov2 "google.golang.org/protobuf/proto"
)

// CodecName is the gRPC content subtype ("application/grpc+json").
const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec marshals plain structs with encoding/json and protobuf messages
// (such as emptypb.Empty) with protojson.
type Codec struct{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(protov2.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(protov2.Message); ok {
		if len(data) == 0 {
			return nil
		}
		return protojson.Unmarshal(data, m)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
