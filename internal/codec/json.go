package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gasnet/calculator/internal/network"
)

// JSONCodec reads network definitions in JSON.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier.
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse decodes a network from JSON.
func (c *JSONCodec) Parse(r io.Reader) (*network.Network, error) {
	var n network.Network
	if err := json.NewDecoder(r).Decode(&n); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return normalize(&n), nil
}
