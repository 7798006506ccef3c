package report

import (
	"fmt"
	"time"
)

// Basis selects which inlet pressure exported rows are computed from.
type Basis string

const (
	// BasisPropagated prints the evaluation rows as computed, in evaluation
	// order, using the pressure propagated to each start node.
	BasisPropagated Basis = "propagated"
	// BasisStored prints segments in entry order and recomputes velocity and
	// status from each segment's stored inlet pressure, while the outlet
	// pressure still comes from the propagated node pressures.
	BasisStored Basis = "stored"
)

// ParseBasis validates a basis name; empty means BasisPropagated.
func ParseBasis(s string) (Basis, error) {
	switch Basis(s) {
	case "", BasisPropagated:
		return BasisPropagated, nil
	case BasisStored:
		return BasisStored, nil
	default:
		return "", fmt.Errorf("unknown velocity basis %q (want %s or %s)", s, BasisPropagated, BasisStored)
	}
}

// Options configures document assembly.
type Options struct {
	Header Header
	Basis  Basis
	// RequireProfile rejects documents without client data.
	RequireProfile bool
	// Now overrides the generation time.
	Now func() time.Time
}

// DefaultOptions returns default report options.
func DefaultOptions() Options {
	return Options{
		Basis:          BasisPropagated,
		RequireProfile: false,
	}
}
