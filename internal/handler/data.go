package handler

import (
	"bytes"
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gasnet/calculator/internal/hclnet"
	"github.com/gasnet/calculator/internal/network"
	"github.com/gasnet/calculator/internal/profile"
	"github.com/gasnet/calculator/internal/registry"
	"github.com/gasnet/calculator/internal/report"
	"github.com/gasnet/calculator/internal/result"
)

type (
	jsonHandler  struct{}
	yamlHandler  struct{}
	hclHandler   struct{}
	chartHandler struct{}
)

func init() {
	registry.Default.Register("json", &jsonHandler{})
	registry.Default.Register("yaml", &yamlHandler{})
	registry.Default.Register("hcl", &hclHandler{})
	registry.Default.Register("chart", &chartHandler{})
}

// export is the machine-readable shape of a report.
type export struct {
	Network     network.Metadata       `json:"network" yaml:"network"`
	Client      *profile.ClientProfile `json:"client,omitempty" yaml:"client,omitempty"`
	Segments    []result.SegmentResult `json:"segments" yaml:"segments"`
	Summary     *result.Summary        `json:"summary" yaml:"summary"`
	Warnings    []result.Warning       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	GeneratedAt time.Time              `json:"generated_at" yaml:"generated_at"`
}

func newExport(doc *report.Document) export {
	rows := make([]result.SegmentResult, 0, len(doc.Rows))
	for _, r := range doc.Rows {
		rows = append(rows, r.Result)
	}
	return export{
		Network:     doc.Metadata,
		Client:      doc.Profile,
		Segments:    rows,
		Summary:     doc.Evaluation.Summary,
		Warnings:    doc.Evaluation.Warnings,
		GeneratedAt: doc.GeneratedAt,
	}
}

func (jsonHandler) Format() string    { return "json" }
func (jsonHandler) Extension() string { return ".json" }

func (jsonHandler) Render(doc *report.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newExport(doc)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlHandler) Format() string    { return "yaml" }
func (yamlHandler) Extension() string { return ".yaml" }

func (yamlHandler) Render(doc *report.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(newExport(doc)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (hclHandler) Format() string    { return "hcl" }
func (hclHandler) Extension() string { return ".hcl" }

func (hclHandler) Render(doc *report.Document) ([]byte, error) {
	return hclnet.EncodeEvaluation(doc.Metadata, doc.Segments, doc.Evaluation), nil
}

func (chartHandler) Format() string    { return "chart" }
func (chartHandler) Extension() string { return ".chart.json" }

func (chartHandler) Render(doc *report.Document) ([]byte, error) {
	return json.MarshalIndent(doc.Chart, "", "  ")
}
