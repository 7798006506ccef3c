// Package report assembles what the renderers print: client data, the
// technical summary, one row per segment and the pressure/velocity chart.
package report

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/gasnet/calculator/internal/network"
	"github.com/gasnet/calculator/internal/profile"
	"github.com/gasnet/calculator/internal/result"
)

var (
	// ErrNoData is returned when there are no segments to report.
	ErrNoData = errors.New("no data to export")
	// ErrNoProfile is returned when a report requires client data and none is set.
	ErrNoProfile = errors.New("complete the client data first")

	unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// Header is the letterhead printed at the top and bottom of reports.
type Header struct {
	Company  string   `yaml:"company"`
	TaxID    string   `yaml:"tax_id"`
	Title    string   `yaml:"title"`
	Designer []string `yaml:"designer"`
	Version  string   `yaml:"version"`
}

// Document is everything a renderer needs.
type Document struct {
	Header      Header
	Metadata    network.Metadata
	Profile     *profile.ClientProfile
	Segments    []network.Segment
	Evaluation  *result.Evaluation
	Rows        []Row
	Chart       Chart
	GeneratedAt time.Time
}

// Build assembles a document. The evaluation must come from the given segments.
func Build(opts Options, meta network.Metadata, segments []network.Segment, prof *profile.ClientProfile, ev *result.Evaluation) (*Document, error) {
	if len(segments) == 0 || ev.Empty() {
		return nil, ErrNoData
	}
	if opts.RequireProfile && prof == nil {
		return nil, ErrNoProfile
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	rows, err := BuildRows(opts.Basis, segments, ev)
	if err != nil {
		return nil, err
	}
	return &Document{
		Header:      opts.Header,
		Metadata:    meta,
		Profile:     prof,
		Segments:    segments,
		Evaluation:  ev,
		Rows:        rows,
		Chart:       BuildChart(ev),
		GeneratedAt: now(),
	}, nil
}

// Title returns the report title, falling back to a generic one.
func (d *Document) Title() string {
	if d.Header.Title != "" {
		return d.Header.Title
	}
	return "Gas Network Calculation - Technical Report"
}

// Approved reports whether every segment passed.
func (d *Document) Approved() bool {
	return d.Evaluation.Summary != nil && d.Evaluation.Summary.Pass
}

// OverallStatus is the summary verdict printed on reports.
func (d *Document) OverallStatus() string {
	if d.Approved() {
		return "APPROVED"
	}
	return "REQUIRES ADJUSTMENTS"
}

// FileStem returns the base name for exported files:
// Informe_<client name>_<unix millis>, or the network name when no client is set.
func (d *Document) FileStem() string {
	name := d.Metadata.Name
	if d.Profile != nil {
		name = d.Profile.Name
	}
	if name == "" {
		name = "network"
	}
	return fmt.Sprintf("Informe_%s_%d", unsafeFileChars.ReplaceAllString(name, "_"), d.GeneratedAt.UnixMilli())
}
