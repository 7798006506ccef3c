package report

import (
	"fmt"
	"strconv"

	"github.com/gasnet/calculator/internal/evaluator"
	"github.com/gasnet/calculator/internal/network"
	"github.com/gasnet/calculator/internal/result"
)

// Columns are the report table headings.
var Columns = []string{
	"Start",
	"End",
	"Flow (m³/h)",
	"Length (m)",
	"LE (m)",
	"Diameter (mm)",
	"Pi (mbar)",
	"Loss (mbar)",
	"Pf (mbar)",
	"Velocity (m/s)",
	"Material",
	"Status",
}

// Row is one segment of the report table.
type Row struct {
	Result result.SegmentResult
}

// Cells formats the row with 2 decimals (4 for the pressure loss).
func (r Row) Cells() []string {
	s := r.Result
	return []string{
		s.Start,
		s.End,
		fixed(s.Flow, 2),
		fixed(s.Length, 2),
		fixed(s.EquivalentLength, 2),
		fixed(s.Diameter, 2),
		fixed(s.InletPressure, 2),
		fixed(s.PressureLoss, 4),
		fixed(s.OutletPressure, 2),
		fixed(s.Velocity, 2),
		s.Material,
		StatusLabel(s.Approved()),
	}
}

// StatusLabel is the printed verdict of a segment.
func StatusLabel(approved bool) string {
	if approved {
		return "Approved"
	}
	return "Rejected"
}

// BuildRows produces the report rows for the chosen basis.
func BuildRows(basis Basis, segments []network.Segment, ev *result.Evaluation) ([]Row, error) {
	switch basis {
	case "", BasisPropagated:
		rows := make([]Row, 0, len(ev.Segments))
		for _, r := range ev.Segments {
			rows = append(rows, Row{Result: r})
		}
		return rows, nil
	case BasisStored:
		rows := make([]Row, 0, len(segments))
		for _, s := range segments {
			inlet := s.InletPressure
			if inlet == 0 {
				// never entered; fall back to the propagated pressure
				if p, ok := ev.NodePressures[s.Start]; ok {
					inlet = p
				}
			}
			r := evaluator.Compute(s, inlet)
			if pf, ok := ev.NodePressures[s.End]; ok {
				r.OutletPressure = pf
			}
			rows = append(rows, Row{Result: r})
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unknown velocity basis %q", basis)
	}
}

func fixed(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
