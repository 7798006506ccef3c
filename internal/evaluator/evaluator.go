package evaluator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gasnet/calculator/internal/dependency"
	"github.com/gasnet/calculator/internal/hydraulics"
	"github.com/gasnet/calculator/internal/logger"
	"github.com/gasnet/calculator/internal/network"
	"github.com/gasnet/calculator/internal/result"
)

// NetworkEvaluator computes pressures and velocities across a network.
type NetworkEvaluator struct {
	opts Options
	log  *slog.Logger
}

// New returns a new evaluator with the given options.
func New(opts Options) *NetworkEvaluator {
	log := opts.Logger
	if log == nil {
		log = logger.Default
	}
	return &NetworkEvaluator{opts: opts, log: log}
}

// Evaluate resolves the segment order and propagates node pressures from the
// entry node downstream. An empty segment list yields an empty evaluation.
// Connectivity and cycle errors are returned unchanged.
func (e *NetworkEvaluator) Evaluate(segments []network.Segment) (*result.Evaluation, error) {
	if len(segments) == 0 {
		return &result.Evaluation{}, nil
	}

	// 1. Every node must be reachable from the entry node
	if err := dependency.CheckConnectivity(segments); err != nil {
		e.log.Debug("connectivity check failed", "segments", len(segments), "error", err)
		return nil, err
	}

	// 2. Resolve evaluation order
	nodeOrder, _, err := dependency.Resolve(segments)
	if err != nil {
		e.log.Debug("topological order failed", "segments", len(segments), "error", err)
		return nil, err
	}
	ordered := dependency.SortByNodeOrder(segments, nodeOrder)

	// 3. Walk the ordered segments threading node pressures
	pressures := map[string]float64{ordered[0].Start: ordered[0].InletPressure}
	fedBy := make(map[string]int)
	out := &result.Evaluation{
		Segments:  make([]result.SegmentResult, 0, len(ordered)),
		NodeOrder: nodeOrder,
	}
	summary := &result.Summary{
		InitialPressure: ordered[0].InletPressure,
		Total:           len(segments),
	}

	var totalLoss float64
	for _, s := range ordered {
		inlet, ok := pressures[s.Start]
		if !ok {
			inlet = s.InletPressure
		}
		row := Compute(s, inlet)

		totalLoss += row.PressureLoss
		if row.Velocity > summary.MaxVelocity {
			summary.MaxVelocity = row.Velocity
		}
		if row.Approved() {
			summary.Approved++
		}
		pressures[s.End] = row.OutletPressure
		fedBy[s.End]++
		out.Segments = append(out.Segments, row)
	}

	// 4. Aggregate
	summary.FinalPressure = pressures[ordered[len(ordered)-1].End]
	summary.TotalPressureLoss = hydraulics.Round(totalLoss, 4)
	if summary.InitialPressure != 0 {
		summary.LossPercent = hydraulics.Round(totalLoss/summary.InitialPressure*100, 2)
	}
	summary.Pass = summary.Approved == summary.Total
	out.Summary = summary
	out.NodePressures = pressures
	hint := summary.FinalPressure
	out.NextInletHint = &hint

	if e.opts.WarnOnMerge {
		out.Warnings = mergeWarnings(nodeOrder, fedBy)
	}

	e.log.Debug("network evaluated",
		"segments", len(ordered), "approved", summary.Approved,
		"final_pressure", summary.FinalPressure, "max_velocity", summary.MaxVelocity)
	return out, nil
}

// Compute evaluates a single segment at the given inlet pressure.
func Compute(s network.Segment, inletPressure float64) result.SegmentResult {
	le := hydraulics.EquivalentLength(s.Length)
	loss := hydraulics.PressureLoss(s.Flow, le, s.Diameter)
	velocity := hydraulics.Velocity(s.Flow, s.Diameter, inletPressure)
	return result.SegmentResult{
		SegmentID:        s.ID,
		Start:            s.Start,
		End:              s.End,
		Flow:             s.Flow,
		Length:           s.Length,
		Diameter:         s.Diameter,
		Material:         s.Material,
		InletPressure:    inletPressure,
		EquivalentLength: le,
		PressureLoss:     loss,
		OutletPressure:   hydraulics.OutletPressure(inletPressure, loss),
		Velocity:         velocity,
		Status:           hydraulics.CheckStatus(velocity, loss, inletPressure),
	}
}

func mergeWarnings(nodeOrder []string, fedBy map[string]int) []result.Warning {
	var warns []result.Warning
	for _, id := range nodeOrder {
		if fedBy[id] > 1 {
			warns = append(warns, result.Warning{
				Type: "merge_node", Severity: "warning",
				Message:    fmt.Sprintf("node %s is fed by %d segments; the last evaluated segment sets its pressure", id, fedBy[id]),
				Suggestion: "Model the network as a tree with one incoming segment per node",
			})
		}
	}
	return warns
}

// Run validates a network file, evaluates it and reports every problem in
// the result instead of failing. The returned error is reserved for
// internal failures.
func (e *NetworkEvaluator) Run(n *network.Network) (*result.ParseResult, error) {
	out := &result.ParseResult{Success: true}

	// 1. Segment-level validation
	for _, ve := range network.Validate(n) {
		out.Errors = append(out.Errors, result.Error{
			Type: ve.Type, Severity: ve.Severity, SegmentID: ve.SegmentID,
			Message: ve.Message, Suggestion: ve.Suggestion,
		})
	}
	if len(out.Errors) > 0 {
		out.Success = false
		return out, nil
	}

	// 2. Graph-level evaluation
	ev, err := e.Evaluate(n.Segments)
	switch {
	case errors.Is(err, dependency.ErrDisconnected):
		out.Success = false
		out.Errors = append(out.Errors, result.Error{
			Type: "connectivity_error", Severity: "error",
			Message: err.Error(), Suggestion: "Connect every node to the first segment's start node",
		})
		return out, nil
	case errors.Is(err, dependency.ErrCycle):
		out.Success = false
		out.Errors = append(out.Errors, result.Error{
			Type: "cycle_error", Severity: "error",
			Message: err.Error(), Suggestion: "Remove circular segments so gas flows one way",
		})
		return out, nil
	case err != nil:
		return nil, err
	}

	out.Evaluation = ev
	out.Warnings = append(out.Warnings, ev.Warnings...)
	return out, nil
}
