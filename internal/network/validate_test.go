package network

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seg(start, end string) Segment {
	return Segment{Start: start, End: end, Flow: 10, Length: 5, Diameter: 32, InletPressure: 21, Material: DefaultMaterial}
}

func TestSanitizeNodeName(t *testing.T) {
	assert.Equal(t, "A1", SanitizeNodeName("  a1 "))
	assert.Equal(t, "NODE_B-2", SanitizeNodeName(`<node_b-2>`))
	assert.Equal(t, "OBRIEN", SanitizeNodeName("o'brien"))
	assert.Equal(t, "AB", SanitizeNodeName(`a&"b`))
}

func TestSanitizeDefaultsMaterial(t *testing.T) {
	s := Sanitize(Segment{Start: "a", End: "b"})
	assert.Equal(t, "A", s.Start)
	assert.Equal(t, "B", s.End)
	assert.Equal(t, DefaultMaterial, s.Material)

	s = Sanitize(Segment{Start: "a", End: "b", Material: " Steel "})
	assert.Equal(t, "Steel", s.Material)
}

func TestValidateSegment(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Segment)
		field   string
		wantErr bool
	}{
		{"valid", func(*Segment) {}, "", false},
		{"same nodes", func(s *Segment) { s.End = s.Start }, "end", true},
		{"minimum length accepted", func(s *Segment) { s.Length = 0.01 }, "", false},
		{"short length rejected", func(s *Segment) { s.Length = 0.0099 }, "length", true},
		{"minimum diameter accepted", func(s *Segment) { s.Diameter = 0.05 }, "", false},
		{"thin diameter rejected", func(s *Segment) { s.Diameter = 0.0499 }, "diameter", true},
		{"infinite length rejected", func(s *Segment) { s.Length = math.Inf(1) }, "length", true},
		{"infinite diameter rejected", func(s *Segment) { s.Diameter = math.Inf(1) }, "diameter", true},
		{"NaN flow rejected", func(s *Segment) { s.Flow = math.NaN() }, "flow", true},
		{"infinite flow rejected", func(s *Segment) { s.Flow = math.Inf(-1) }, "flow", true},
		{"apostrophe accepted", func(s *Segment) { s.Start = "A'" }, "", false},
		{"space rejected", func(s *Segment) { s.End = "B C" }, "start", true},
		{"empty name rejected", func(s *Segment) { s.End = "" }, "start", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seg("A", "B")
			tt.mutate(&s)
			err := ValidateSegment(s)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFieldValidation))
			var fe *FieldValidationError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestValidateNonFiniteSuggestion(t *testing.T) {
	s := seg("A", "B")
	s.Flow = math.Inf(1)
	errs := Validate(&Network{Segments: []Segment{s}})
	require.Len(t, errs, 1)
	assert.Equal(t, "validation_error", errs[0].Type)
	assert.Contains(t, errs[0].Suggestion, "flow")
}

func TestValidateInlet(t *testing.T) {
	assert.NoError(t, ValidateInlet(seg("A", "B")))

	s := seg("A", "B")
	s.InletPressure = 0
	assert.ErrorIs(t, ValidateInlet(s), ErrFieldValidation)
}

func TestValidateNetwork(t *testing.T) {
	n := &Network{Segments: []Segment{
		seg("A", "B"),
		seg("B", "C"),
		seg("A", "B"),
		{Start: "C", End: "C", Length: 1, Diameter: 1},
	}}
	errs := Validate(n)
	require.Len(t, errs, 2)
	assert.Equal(t, "duplicate_edge", errs[0].Type)
	assert.Equal(t, "#3 A-B", errs[0].SegmentID)
	assert.Equal(t, "validation_error", errs[1].Type)
	assert.NotEmpty(t, errs[1].Suggestion)
}

func TestValidateNetworkRequiresFirstInlet(t *testing.T) {
	first := seg("A", "B")
	first.InletPressure = 0
	errs := Validate(&Network{Segments: []Segment{first}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Suggestion, "inlet_pressure")
}

func TestValidateNilNetwork(t *testing.T) {
	errs := Validate(nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "schema_error", errs[0].Type)
}

func TestNodesFirstAppearanceOrder(t *testing.T) {
	got := Nodes([]Segment{seg("B", "C"), seg("A", "B"), seg("C", "D")})
	assert.Equal(t, []string{"B", "C", "A", "D"}, got)
}

func TestNetworkLookups(t *testing.T) {
	a := seg("A", "B")
	a.ID = "one"
	n := &Network{Segments: []Segment{a, seg("B", "C"), seg("B", "D")}}

	require.NotNil(t, n.SegmentByID("one"))
	assert.Nil(t, n.SegmentByID("missing"))
	assert.Len(t, n.SegmentsFrom("B"), 2)
	assert.Len(t, n.SegmentsInto("B"), 1)
	assert.Equal(t, "A-B", a.Label())
	assert.True(t, a.SameEdge(seg("A", "B")))
	assert.False(t, a.SameEdge(seg("B", "A")))
}
