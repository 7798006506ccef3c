package registry

import (
	"sort"
	"sync"

	"github.com/gasnet/calculator/internal/report"
)

// ReportHandler is the interface each report format handler must implement.
type ReportHandler interface {
	Format() string
	Extension() string
	Render(doc *report.Document) ([]byte, error)
}

// Default is the global handler registry.
var Default = New()

// Registry holds report format handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]ReportHandler
}

// New returns a new empty registry.
func New() *Registry {
	return &Registry{handlers: make(map[string]ReportHandler)}
}

// Register adds a handler for the given format.
func (r *Registry) Register(format string, h ReportHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[format] = h
}

// Get returns the handler for the format, or nil and false.
func (r *Registry) Get(format string) (ReportHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[format]
	return h, ok
}

// ListSupportedFormats returns all registered formats, sorted.
func (r *Registry) ListSupportedFormats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]string, 0, len(r.handlers))
	for f := range r.handlers {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
