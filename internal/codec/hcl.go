package codec

import (
	"fmt"
	"io"

	"github.com/gasnet/calculator/internal/hclnet"
	"github.com/gasnet/calculator/internal/network"
)

// HCLCodec reads network definitions written as HCL segment blocks:
//
//	name = "Building A"
//
//	segment "A" "B" {
//	  flow           = 10
//	  length         = 5
//	  diameter       = 32
//	  inlet_pressure = 21
//	}
type HCLCodec struct{}

// NewHCLCodec creates a new HCL codec.
func NewHCLCodec() *HCLCodec {
	return &HCLCodec{}
}

// Format returns the codec format identifier.
func (c *HCLCodec) Format() string {
	return "hcl"
}

// Parse decodes a network from HCL.
func (c *HCLCodec) Parse(r io.Reader) (*network.Network, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read HCL: %w", err)
	}
	n, err := hclnet.Decode("network.hcl", src)
	if err != nil {
		return nil, err
	}
	return normalize(n), nil
}
