package evaluator

import "log/slog"

// Options configures the evaluator behavior.
type Options struct {
	// WarnOnMerge attaches a warning when a node is fed by more than one segment.
	WarnOnMerge bool
	// Logger receives debug output; nil uses logger.Default.
	Logger *slog.Logger
}

// DefaultOptions returns default evaluator options.
func DefaultOptions() Options {
	return Options{
		WarnOnMerge: true,
	}
}
