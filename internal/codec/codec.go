// Package codec reads network definition files.
package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gasnet/calculator/internal/network"
)

// Importer parses a network definition from a reader.
type Importer interface {
	Parse(r io.Reader) (*network.Network, error)
	Format() string
}

// ForPath picks an importer from the file extension. Unknown extensions and
// stdin ("-") fall back to JSON.
func ForPath(path string) Importer {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYAMLCodec()
	case ".hcl":
		return NewHCLCodec()
	default:
		return NewJSONCodec()
	}
}

// ForFormat returns the importer registered under a format name.
func ForFormat(format string) (Importer, error) {
	switch strings.ToLower(format) {
	case "json", "":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "hcl":
		return NewHCLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported network format: %s", format)
	}
}

// normalize sanitizes node names and materials the way form input is sanitized.
func normalize(n *network.Network) *network.Network {
	for i := range n.Segments {
		n.Segments[i] = network.Sanitize(n.Segments[i])
	}
	return n
}
