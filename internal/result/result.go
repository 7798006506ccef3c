package result

import "github.com/gasnet/calculator/internal/hydraulics"

// Error represents a validation or evaluation error.
type Error struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	SegmentID  string `json:"segment_id,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Warning represents a non-fatal finding about the network.
type Warning struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	SegmentID  string `json:"segment_id,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Severity is the level of a user-facing notice.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Notice is a transient message for the user interface.
type Notice struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// SegmentResult is the computed state of one segment. It is never mutated
// after the evaluation that produced it.
type SegmentResult struct {
	SegmentID        string            `json:"segment_id"`
	Start            string            `json:"start"`
	End              string            `json:"end"`
	Flow             float64           `json:"flow"`
	Length           float64           `json:"length"`
	Diameter         float64           `json:"diameter"`
	Material         string            `json:"material"`
	InletPressure    float64           `json:"inlet_pressure"`
	EquivalentLength float64           `json:"equivalent_length"`
	PressureLoss     float64           `json:"pressure_loss"`
	OutletPressure   float64           `json:"outlet_pressure"`
	Velocity         float64           `json:"velocity"`
	Status           hydraulics.Status `json:"status"`
}

// Label returns the "{start}-{end}" label of the segment.
func (r SegmentResult) Label() string {
	return r.Start + "-" + r.End
}

// Approved reports whether the segment passed both limits.
func (r SegmentResult) Approved() bool {
	return r.Status == hydraulics.Approved
}

// Summary aggregates a whole evaluation.
type Summary struct {
	InitialPressure   float64 `json:"initial_pressure"`
	FinalPressure     float64 `json:"final_pressure"`
	TotalPressureLoss float64 `json:"total_pressure_loss"`
	LossPercent       float64 `json:"loss_percent"`
	MaxVelocity       float64 `json:"max_velocity"`
	Approved          int     `json:"approved"`
	Total             int     `json:"total"`
	Pass              bool    `json:"pass"`
}

// Evaluation is the outcome of evaluating a network. Segments are listed in
// evaluation (topological) order.
type Evaluation struct {
	Segments      []SegmentResult    `json:"segments"`
	Summary       *Summary           `json:"summary,omitempty"`
	NodePressures map[string]float64 `json:"node_pressures,omitempty"`
	NodeOrder     []string           `json:"node_order,omitempty"`
	Warnings      []Warning          `json:"warnings,omitempty"`
	// NextInletHint is the pressure suggested for the next appended segment.
	NextInletHint *float64 `json:"next_inlet_hint,omitempty"`
}

// Empty reports whether the evaluation carries no segments.
func (e *Evaluation) Empty() bool {
	return e == nil || len(e.Segments) == 0
}

// ParseResult is the result of loading and evaluating a network file.
type ParseResult struct {
	Success    bool              `json:"success"`
	Evaluation *Evaluation       `json:"evaluation,omitempty"`
	Files      map[string][]byte `json:"-"` // filename -> content
	Errors     []Error           `json:"errors,omitempty"`
	Warnings   []Warning         `json:"warnings,omitempty"`
}
