package hclnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gasnet/calculator/internal/hydraulics"
	"github.com/gasnet/calculator/internal/network"
	"github.com/gasnet/calculator/internal/result"
)

func segments() []network.Segment {
	return []network.Segment{
		{Start: "A", End: "B", Flow: 10, Length: 5, Diameter: 32, InletPressure: 21, Material: network.DefaultMaterial},
		{Start: "B", End: "C", Flow: 5, Length: 10.5, Diameter: 25, Material: "Cobre"},
	}
}

func TestEncodeDecode(t *testing.T) {
	meta := network.Metadata{Version: "1.0", Name: "Casa 12", Description: "two floors"}
	src := Encode(meta, segments())

	assert.Contains(t, string(src), `segment "A" "B" {`)

	n, err := Decode("network.hcl", src)
	require.NoError(t, err)
	assert.Equal(t, meta, n.Metadata)
	assert.Equal(t, segments(), n.Segments)
}

func TestDecodeOptionalFields(t *testing.T) {
	n, err := Decode("network.hcl", []byte(`
segment "A" "B" {
  flow     = 1
  length   = 2
  diameter = 20
}
`))
	require.NoError(t, err)
	require.Len(t, n.Segments, 1)
	assert.Equal(t, 0.0, n.Segments[0].InletPressure)
	assert.Empty(t, n.Segments[0].Material)
	assert.Empty(t, n.Metadata.Name)
}

func TestDecodeRejectsUnknownAttributes(t *testing.T) {
	_, err := Decode("network.hcl", []byte(`colour = "red"`))
	assert.Error(t, err)
}

func TestEncodeEvaluation(t *testing.T) {
	ev := &result.Evaluation{
		Segments: []result.SegmentResult{
			{Start: "A", End: "B", Flow: 10, Length: 5, Diameter: 32, InletPressure: 21,
				EquivalentLength: 6, PressureLoss: 0.2254, OutletPressure: 20.77, Velocity: 4.52, Status: hydraulics.Approved},
		},
		Summary: &result.Summary{
			InitialPressure: 21, FinalPressure: 20.77, TotalPressureLoss: 0.2254,
			LossPercent: 1.07, MaxVelocity: 4.52, Approved: 1, Total: 1, Pass: true,
		},
		NodePressures: map[string]float64{"A": 21, "B": 20.77},
	}

	out := string(EncodeEvaluation(network.Metadata{Name: "Casa 12"}, segments()[:1], ev))
	assert.Regexp(t, `name\s+= "Casa 12"`, out)
	assert.Contains(t, out, `segment "A" "B" {`)
	assert.Contains(t, out, "result {")
	assert.Regexp(t, `status\s+= "approved"`, out)
	assert.Contains(t, out, "summary {")
	assert.Regexp(t, `pass\s+= true`, out)
	assert.Contains(t, out, "node_pressures")
}

func TestEncodeEvaluationWithoutSummary(t *testing.T) {
	out := string(EncodeEvaluation(network.Metadata{}, nil, &result.Evaluation{}))
	assert.NotContains(t, out, "summary")
}
