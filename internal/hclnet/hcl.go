package hclnet

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/gasnet/calculator/internal/network"
	"github.com/gasnet/calculator/internal/result"
)

// SegmentBlock creates a segment "start" "end" { } block; body can be filled by the caller.
func SegmentBlock(start, end string) *hclwrite.Block {
	return hclwrite.NewBlock("segment", []string{start, end})
}

// SetAttributeStr sets a string attribute on a block body.
func SetAttributeStr(body *hclwrite.Body, name, value string) {
	if value != "" {
		body.SetAttributeValue(name, cty.StringVal(value))
	}
}

// SetAttributeBool sets a bool attribute.
func SetAttributeBool(body *hclwrite.Body, name string, value bool) {
	body.SetAttributeValue(name, cty.BoolVal(value))
}

// SetAttributeInt sets an int attribute.
func SetAttributeInt(body *hclwrite.Body, name string, value int) {
	body.SetAttributeValue(name, cty.NumberIntVal(int64(value)))
}

// SetAttributeFloat sets a number attribute.
func SetAttributeFloat(body *hclwrite.Body, name string, value float64) {
	body.SetAttributeValue(name, cty.NumberFloatVal(value))
}

// SetAttributeMap sets a map(number) attribute (e.g. node pressures).
func SetAttributeMap(body *hclwrite.Body, name string, m map[string]float64) {
	if len(m) == 0 {
		return
	}
	ctyMap := make(map[string]cty.Value)
	for k, v := range m {
		ctyMap[k] = cty.NumberFloatVal(v)
	}
	body.SetAttributeValue(name, cty.MapVal(ctyMap))
}

// Encode writes the network definition, one segment block per segment in
// the given order. The output can be read back with Decode.
func Encode(meta network.Metadata, segments []network.Segment) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	SetAttributeStr(body, "version", meta.Version)
	SetAttributeStr(body, "name", meta.Name)
	SetAttributeStr(body, "description", meta.Description)

	for _, s := range segments {
		body.AppendNewline()
		block := body.AppendNewBlock("segment", []string{s.Start, s.End})
		writeSegment(block.Body(), s)
	}
	return f.Bytes()
}

// EncodeEvaluation writes the segments in evaluation order with their
// computed values in a nested result block, followed by a summary block.
func EncodeEvaluation(meta network.Metadata, segments []network.Segment, ev *result.Evaluation) []byte {
	byEdge := make(map[[2]string]network.Segment, len(segments))
	for _, s := range segments {
		byEdge[[2]string{s.Start, s.End}] = s
	}

	f := hclwrite.NewEmptyFile()
	body := f.Body()
	SetAttributeStr(body, "version", meta.Version)
	SetAttributeStr(body, "name", meta.Name)
	SetAttributeStr(body, "description", meta.Description)

	for _, r := range ev.Segments {
		body.AppendNewline()
		block := SegmentBlock(r.Start, r.End)
		sb := block.Body()
		seg, ok := byEdge[[2]string{r.Start, r.End}]
		if !ok {
			seg = network.Segment{Flow: r.Flow, Length: r.Length, Diameter: r.Diameter, Material: r.Material}
		}
		writeSegment(sb, seg)

		rb := sb.AppendNewBlock("result", nil).Body()
		SetAttributeFloat(rb, "inlet_pressure", r.InletPressure)
		SetAttributeFloat(rb, "equivalent_length", r.EquivalentLength)
		SetAttributeFloat(rb, "pressure_loss", r.PressureLoss)
		SetAttributeFloat(rb, "outlet_pressure", r.OutletPressure)
		SetAttributeFloat(rb, "velocity", r.Velocity)
		SetAttributeStr(rb, "status", string(r.Status))
		body.AppendBlock(block)
	}

	if sum := ev.Summary; sum != nil {
		body.AppendNewline()
		sb := body.AppendNewBlock("summary", nil).Body()
		SetAttributeFloat(sb, "initial_pressure", sum.InitialPressure)
		SetAttributeFloat(sb, "final_pressure", sum.FinalPressure)
		SetAttributeFloat(sb, "total_pressure_loss", sum.TotalPressureLoss)
		SetAttributeFloat(sb, "loss_percent", sum.LossPercent)
		SetAttributeFloat(sb, "max_velocity", sum.MaxVelocity)
		SetAttributeInt(sb, "approved", sum.Approved)
		SetAttributeInt(sb, "total", sum.Total)
		SetAttributeBool(sb, "pass", sum.Pass)
		SetAttributeMap(sb, "node_pressures", ev.NodePressures)
	}
	return f.Bytes()
}

func writeSegment(body *hclwrite.Body, s network.Segment) {
	SetAttributeFloat(body, "flow", s.Flow)
	SetAttributeFloat(body, "length", s.Length)
	SetAttributeFloat(body, "diameter", s.Diameter)
	if s.InletPressure != 0 {
		SetAttributeFloat(body, "inlet_pressure", s.InletPressure)
	}
	SetAttributeStr(body, "material", s.Material)
}
