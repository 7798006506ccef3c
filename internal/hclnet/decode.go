// Package hclnet reads and writes networks as HCL documents.
package hclnet

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/gasnet/calculator/internal/network"
)

type fileSchema struct {
	Version     string          `hcl:"version,optional"`
	Name        string          `hcl:"name,optional"`
	Description string          `hcl:"description,optional"`
	Segments    []segmentSchema `hcl:"segment,block"`
}

type segmentSchema struct {
	Start         string   `hcl:"start,label"`
	End           string   `hcl:"end,label"`
	Flow          float64  `hcl:"flow"`
	Length        float64  `hcl:"length"`
	Diameter      float64  `hcl:"diameter"`
	InletPressure *float64 `hcl:"inlet_pressure,optional"`
	Material      *string  `hcl:"material,optional"`
}

// Decode parses src as an HCL network file. filename must end in .hcl and is
// only used in diagnostics.
func Decode(filename string, src []byte) (*network.Network, error) {
	var f fileSchema
	if err := hclsimple.Decode(filename, src, nil, &f); err != nil {
		return nil, fmt.Errorf("failed to parse HCL: %w", err)
	}

	n := &network.Network{
		Metadata: network.Metadata{Version: f.Version, Name: f.Name, Description: f.Description},
		Segments: make([]network.Segment, 0, len(f.Segments)),
	}
	for _, s := range f.Segments {
		seg := network.Segment{
			Start:    s.Start,
			End:      s.End,
			Flow:     s.Flow,
			Length:   s.Length,
			Diameter: s.Diameter,
		}
		if s.InletPressure != nil {
			seg.InletPressure = *s.InletPressure
		}
		if s.Material != nil {
			seg.Material = *s.Material
		}
		n.Segments = append(n.Segments, seg)
	}
	return n, nil
}
