// Package handler implements the report formats. Each format registers
// itself with registry.Default in init; import the package for its side
// effects.
package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/gasnet/calculator/internal/registry"
	"github.com/gasnet/calculator/internal/report"
	"github.com/gasnet/calculator/internal/result"
)

// Render renders doc in every requested format and collects the files in a
// builder keyed by file name. Unknown formats and render failures are
// reported as errors; the remaining formats are still rendered.
func Render(reg *registry.Registry, doc *report.Document, formats []string) (*report.Builder, []result.Error) {
	b := report.NewBuilder()
	var errs []result.Error
	stem := doc.FileStem()
	for _, format := range formats {
		format = strings.ToLower(strings.TrimSpace(format))
		if format == "" {
			continue
		}
		h, ok := reg.Get(format)
		if !ok {
			supported := reg.ListSupportedFormats()
			suggestion := "Use one of: " + strings.Join(supported, ", ")
			if guess := closestFormat(format, supported); guess != "" {
				suggestion = fmt.Sprintf("Did you mean %q? %s", guess, suggestion)
			}
			errs = append(errs, result.Error{
				Type: "report_error", Severity: "error",
				Message:    "unsupported report format: " + format,
				Suggestion: suggestion,
			})
			continue
		}
		content, err := h.Render(doc)
		if err != nil {
			errs = append(errs, result.Error{
				Type: "report_error", Severity: "error",
				Message: fmt.Sprintf("render %s: %v", format, err),
			})
			continue
		}
		b.Add(stem+h.Extension(), content)
	}
	return b, errs
}

// closestFormat returns the supported format most similar to name, or ""
// when nothing is at least half similar.
func closestFormat(name string, supported []string) string {
	best, bestScore := "", 0.5
	for _, f := range supported {
		total := float64(len(name) + len(f))
		if total == 0 {
			continue
		}
		// insert and delete cost 1, substitute 2: distance is bounded by total
		d := levenshtein.DistanceForStrings([]rune(name), []rune(f), levenshtein.DefaultOptions)
		if score := 1 - float64(d)/total; score >= bestScore {
			best, bestScore = f, score
		}
	}
	return best
}

func fixed(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// summaryLines returns the technical summary as label/value pairs laid out
// two per line.
func summaryLines(doc *report.Document) [][2]string {
	s := doc.Evaluation.Summary
	return [][2]string{
		{"Initial pressure: " + fixed(s.InitialPressure, 2) + " mbar", "Final pressure: " + fixed(s.FinalPressure, 2) + " mbar"},
		{"Total loss: " + fixed(s.TotalPressureLoss, 2) + " mbar (" + fixed(s.LossPercent, 2) + "%)", "Max velocity: " + fixed(s.MaxVelocity, 2) + " m/s"},
		{fmt.Sprintf("Approved segments: %d/%d", s.Approved, s.Total), "Overall status: " + doc.OverallStatus()},
	}
}

// clientLines returns the client block as label/value pairs laid out two per line.
func clientLines(doc *report.Document) [][2]string {
	p := doc.Profile
	if p == nil {
		return nil
	}
	return [][2]string{
		{"Name: " + p.Name, "Identification: " + p.IDType + " " + p.ID},
		{"Address: " + p.Address, "Phone: " + p.Phone},
		{"City: " + p.City, "Email: " + p.EmailOr("N/A")},
		{"Department: " + p.Department, "Project type: " + p.ProjectType},
		{"", "Gas type: " + p.GasType},
	}
}
