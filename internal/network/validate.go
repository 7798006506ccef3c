package network

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

const (
	// MinLength is the shortest accepted segment length in metres.
	MinLength = 0.01
	// MinDiameter is the smallest accepted inner diameter in millimetres.
	MinDiameter = 0.05
)

var (
	// ErrFieldValidation is returned when a single segment fails shape, range or name checks.
	ErrFieldValidation = errors.New("invalid segment")
	// ErrDuplicateEdge is returned when a segment repeats an existing (start, end) pair.
	ErrDuplicateEdge = errors.New("segment already exists in the network")

	nodePattern  = regexp.MustCompile(`^[A-Za-z0-9'_-]+$`)
	unsafeInName = strings.NewReplacer("<", "", ">", "", "&", "", `"`, "", "'", "")
)

// FieldValidationError describes which field of a segment was rejected.
type FieldValidationError struct {
	Field   string
	Message string
}

func (e *FieldValidationError) Error() string {
	return e.Message
}

func (e *FieldValidationError) Unwrap() error {
	return ErrFieldValidation
}

// DuplicateEdgeError carries the repeated (start, end) pair.
type DuplicateEdgeError struct {
	Start string
	End   string
}

func (e *DuplicateEdgeError) Error() string {
	return fmt.Sprintf("segment %s-%s already exists in the network", e.Start, e.End)
}

func (e *DuplicateEdgeError) Unwrap() error {
	return ErrDuplicateEdge
}

// SanitizeNodeName trims raw input, strips markup characters and uppercases it.
// The apostrophe is stripped here even though ValidateSegment accepts it;
// sanitizing always runs first.
func SanitizeNodeName(raw string) string {
	return strings.ToUpper(unsafeInName.Replace(strings.TrimSpace(raw)))
}

// Sanitize returns a copy of s with node names sanitized and an empty
// material replaced by DefaultMaterial.
func Sanitize(s Segment) Segment {
	s.Start = SanitizeNodeName(s.Start)
	s.End = SanitizeNodeName(s.End)
	s.Material = strings.TrimSpace(s.Material)
	if s.Material == "" {
		s.Material = DefaultMaterial
	}
	return s
}

// ValidateSegment checks a single segment in isolation.
// It never looks at other segments; duplicates and graph shape are the caller's concern.
func ValidateSegment(s Segment) error {
	if s.Start == s.End {
		return &FieldValidationError{Field: "end", Message: "start and end nodes must be different"}
	}
	if s.Length < MinLength || !finite(s.Length) {
		return &FieldValidationError{Field: "length", Message: fmt.Sprintf("length must be greater than or equal to %.2f m", MinLength)}
	}
	if s.Diameter < MinDiameter || !finite(s.Diameter) {
		return &FieldValidationError{Field: "diameter", Message: fmt.Sprintf("diameter must be greater than or equal to %.2f mm", MinDiameter)}
	}
	if !finite(s.Flow) {
		return &FieldValidationError{Field: "flow", Message: "flow must be a finite number"}
	}
	if !nodePattern.MatchString(s.Start) || !nodePattern.MatchString(s.End) {
		return &FieldValidationError{Field: "start", Message: "node names may only contain letters, digits, ', _ or -"}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateInlet checks the inlet pressure a network's first segment must carry.
func ValidateInlet(s Segment) error {
	if s.InletPressure <= 0 || !finite(s.InletPressure) {
		return &FieldValidationError{Field: "inlet_pressure", Message: "the first segment requires a positive inlet pressure"}
	}
	return nil
}

// ValidationError represents a single validation failure (network file level).
type ValidationError struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"` // error
	SegmentID  string `json:"segment_id,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Validate checks every segment of a network and reports duplicate edges.
// Segments are expected to be sanitized already.
func Validate(n *Network) []ValidationError {
	if n == nil {
		return []ValidationError{{Type: "schema_error", Severity: "error", Message: "network is nil"}}
	}

	var errs []ValidationError
	seen := make(map[[2]string]bool)
	for i := range n.Segments {
		s := &n.Segments[i]
		if err := ValidateSegment(*s); err != nil {
			errs = append(errs, ValidationError{
				Type: "validation_error", Severity: "error", SegmentID: segmentRef(i, s),
				Message: err.Error(), Suggestion: suggestionFor(err),
			})
			continue
		}
		key := [2]string{s.Start, s.End}
		if seen[key] {
			dup := &DuplicateEdgeError{Start: s.Start, End: s.End}
			errs = append(errs, ValidationError{
				Type: "duplicate_edge", Severity: "error", SegmentID: segmentRef(i, s),
				Message: dup.Error(), Suggestion: "Remove the repeated segment or edit the existing one",
			})
			continue
		}
		seen[key] = true
	}

	if len(n.Segments) > 0 {
		if err := ValidateInlet(n.Segments[0]); err != nil {
			errs = append(errs, ValidationError{
				Type: "validation_error", Severity: "error", SegmentID: segmentRef(0, &n.Segments[0]),
				Message: err.Error(), Suggestion: "Set inlet_pressure (mbar) on the first segment",
			})
		}
	}
	return errs
}

func segmentRef(i int, s *Segment) string {
	if s.ID != "" {
		return s.ID
	}
	return fmt.Sprintf("#%d %s", i+1, s.Label())
}

func suggestionFor(err error) string {
	var fe *FieldValidationError
	if !errors.As(err, &fe) {
		return ""
	}
	switch fe.Field {
	case "length":
		return "Use a length of at least 0.01 m"
	case "diameter":
		return "Use a diameter of at least 0.05 mm"
	case "end":
		return "Connect two different nodes"
	case "flow":
		return "Enter the flow in m³/h as a plain number"
	default:
		return "Rename the nodes using letters, digits, _ or -"
	}
}
