package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gasnet/calculator/internal/network"
)

// YAMLCodec reads network definitions in YAML.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier.
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse decodes a network from YAML.
func (c *YAMLCodec) Parse(r io.Reader) (*network.Network, error) {
	var n network.Network
	if err := yaml.NewDecoder(r).Decode(&n); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return normalize(&n), nil
}
