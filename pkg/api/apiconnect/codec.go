// Package apiconnect wires the duitraya.v1 services to Connect: procedure
// names, handler and client constructors, and the JSON codec the messages
// in package api travel with.
package apiconnect

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// codecName replaces Connect's protobuf-only "json" codec.
const codecName = "json"

// JSONCodec marshals plain Go message structs with encoding/json.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return codecName }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal treats an empty body as the zero message, which is what a
// Connect GET without a message parameter sends.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("invalid %T: %w", msg, err)
	}
	return nil
}

// WithJSON configures a handler or client to speak JSON with JSONCodec.
func WithJSON() connect.Option {
	return connect.WithCodec(JSONCodec{})
}
