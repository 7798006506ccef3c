package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gasnet/calculator/internal/report"
)

type stubHandler struct{ format string }

func (s stubHandler) Format() string                          { return s.format }
func (s stubHandler) Extension() string                       { return "." + s.format }
func (s stubHandler) Render(*report.Document) ([]byte, error) { return []byte(s.format), nil }

func TestRegistry(t *testing.T) {
	r := New()
	assert.Empty(t, r.ListSupportedFormats())

	r.Register("txt", stubHandler{"txt"})
	r.Register("csv", stubHandler{"csv"})

	h, ok := r.Get("csv")
	assert.True(t, ok)
	assert.Equal(t, ".csv", h.Extension())

	_, ok = r.Get("docx")
	assert.False(t, ok)

	assert.Equal(t, []string{"csv", "txt"}, r.ListSupportedFormats())
}
