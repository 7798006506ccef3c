package network

// DefaultMaterial is the pipe material used when a segment does not name one.
const DefaultMaterial = "PE AL PE"

// Network is the root structure of a gas network definition file.
type Network struct {
	Metadata Metadata  `json:"metadata" yaml:"metadata"`
	Segments []Segment `json:"segments" yaml:"segments"`
}

// Metadata holds network-level information.
type Metadata struct {
	Version     string `json:"version" yaml:"version"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Segment is a directed pipe between two named nodes.
//
// Flow is in m³/h, Length in m, Diameter in mm and InletPressure in mbar.
// InletPressure is only required on the first segment of a network; the
// pressure at every other start node is derived during evaluation.
type Segment struct {
	ID            string  `json:"id,omitempty" yaml:"id,omitempty"`
	Start         string  `json:"start" yaml:"start"`
	End           string  `json:"end" yaml:"end"`
	Flow          float64 `json:"flow" yaml:"flow"`
	Length        float64 `json:"length" yaml:"length"`
	Diameter      float64 `json:"diameter" yaml:"diameter"`
	InletPressure float64 `json:"inlet_pressure" yaml:"inlet_pressure"`
	Material      string  `json:"material,omitempty" yaml:"material,omitempty"`
}

// Label returns the "{start}-{end}" label used by tables and charts.
func (s Segment) Label() string {
	return s.Start + "-" + s.End
}

// SameEdge reports whether both segments connect the same ordered node pair.
func (s Segment) SameEdge(o Segment) bool {
	return s.Start == o.Start && s.End == o.End
}

// SegmentByID returns the segment with the given id, or nil.
func (n *Network) SegmentByID(id string) *Segment {
	for i := range n.Segments {
		if n.Segments[i].ID == id {
			return &n.Segments[i]
		}
	}
	return nil
}

// SegmentsFrom returns segments whose start is the given node.
func (n *Network) SegmentsFrom(node string) []Segment {
	var out []Segment
	for _, s := range n.Segments {
		if s.Start == node {
			out = append(out, s)
		}
	}
	return out
}

// SegmentsInto returns segments whose end is the given node.
func (n *Network) SegmentsInto(node string) []Segment {
	var out []Segment
	for _, s := range n.Segments {
		if s.End == node {
			out = append(out, s)
		}
	}
	return out
}

// Nodes returns the distinct node identifiers in first-appearance order.
func Nodes(segments []Segment) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range segments {
		for _, id := range [2]string{s.Start, s.End} {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
