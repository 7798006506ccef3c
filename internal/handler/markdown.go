package handler

import (
	"fmt"
	"strings"

	"github.com/gasnet/calculator/internal/registry"
	"github.com/gasnet/calculator/internal/report"
)

type markdownHandler struct{}

func init() {
	registry.Default.Register("markdown", &markdownHandler{})
}

func (markdownHandler) Format() string    { return "markdown" }
func (markdownHandler) Extension() string { return ".md" }

func (markdownHandler) Render(doc *report.Document) ([]byte, error) {
	var sb strings.Builder

	if doc.Header.Company != "" {
		sb.WriteString(fmt.Sprintf("# %s\n\n", doc.Header.Company))
		sb.WriteString(fmt.Sprintf("## %s\n\n", doc.Title()))
	} else {
		sb.WriteString(fmt.Sprintf("# %s\n\n", doc.Title()))
	}
	meta := "Date: " + doc.GeneratedAt.Format("January 2, 2006")
	if doc.Header.TaxID != "" {
		meta = "Tax ID: " + doc.Header.TaxID + " | " + meta
	}
	sb.WriteString(meta + "\n\n")

	if lines := clientLines(doc); lines != nil {
		sb.WriteString("### Client\n\n")
		writePairs(&sb, lines)
	}

	sb.WriteString("### Technical summary\n\n")
	writePairs(&sb, summaryLines(doc))

	sb.WriteString("### Segments\n\n")
	sb.WriteString("| " + strings.Join(report.Columns, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat("---|", len(report.Columns)) + "\n")
	for _, row := range doc.Rows {
		sb.WriteString("| " + strings.Join(row.Cells(), " | ") + " |\n")
	}
	sb.WriteString("\n")

	if warns := doc.Evaluation.Warnings; len(warns) > 0 {
		sb.WriteString("### Warnings\n\n")
		for _, w := range warns {
			sb.WriteString(fmt.Sprintf("- %s\n", w.Message))
		}
		sb.WriteString("\n")
	}

	for _, line := range doc.Header.Designer {
		sb.WriteString(line + "  \n")
	}
	footer := "Generated on: " + doc.GeneratedAt.Format("2006-01-02 15:04:05")
	if doc.Header.Version != "" {
		footer = "Version " + doc.Header.Version + " | " + footer
	}
	sb.WriteString(footer + "\n")
	return []byte(sb.String()), nil
}

func writePairs(sb *strings.Builder, lines [][2]string) {
	for _, l := range lines {
		for _, cell := range l {
			if cell != "" {
				sb.WriteString("- " + cell + "\n")
			}
		}
	}
	sb.WriteString("\n")
}
