package report

import "sort"

// Builder collects rendered report files.
type Builder struct {
	files map[string][]byte
}

// NewBuilder returns a new Builder.
func NewBuilder() *Builder {
	return &Builder{files: make(map[string][]byte)}
}

// Add stores the content under name. Empty content is skipped.
func (b *Builder) Add(name string, content []byte) {
	if len(content) == 0 {
		return
	}
	b.files[name] = content
}

// Names returns the collected file names, sorted.
func (b *Builder) Names() []string {
	names := make([]string, 0, len(b.files))
	for name := range b.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build returns a map of filename -> content for all collected files.
func (b *Builder) Build() map[string][]byte {
	out := make(map[string][]byte, len(b.files))
	for name, content := range b.files {
		out[name] = content
	}
	return out
}
