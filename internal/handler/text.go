package handler

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gasnet/calculator/internal/registry"
	"github.com/gasnet/calculator/internal/report"
	"github.com/gasnet/calculator/internal/result"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E53935"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#E53935")).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	approvedStyle = cellStyle.Foreground(lipgloss.Color("#2E7D32"))
	rejectedStyle = cellStyle.Foreground(lipgloss.Color("#C62828"))
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E"))

	noticeStyles = map[result.Severity]lipgloss.Style{
		result.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#0288D1")),
		result.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#2E7D32")),
		result.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F9A825")),
		result.SeverityDanger:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C62828")),
	}
)

type textHandler struct{}

func init() {
	registry.Default.Register("text", &textHandler{})
}

func (textHandler) Format() string    { return "text" }
func (textHandler) Extension() string { return ".txt" }

func (textHandler) Render(doc *report.Document) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(doc.Title()))
	sb.WriteString("\n\n")
	for _, l := range clientLines(doc) {
		sb.WriteString(pairLine(l))
	}
	for _, l := range summaryLines(doc) {
		sb.WriteString(pairLine(l))
	}
	sb.WriteString("\n")
	sb.WriteString(Table(doc.Rows))
	sb.WriteString("\n")
	for _, w := range doc.Evaluation.Warnings {
		sb.WriteString(FormatNotice(result.Notice{Severity: result.SeverityWarning, Message: w.Message}))
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

// Table renders report rows as a bordered terminal table with approved and
// rejected rows colored.
func Table(rows []report.Row) string {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, r.Cells())
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(report.Columns...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(rows) {
				if rows[row].Result.Approved() {
					return approvedStyle
				}
				return rejectedStyle
			}
			return cellStyle
		})
	return t.Render()
}

// FormatNotice renders a notice with its severity color.
func FormatNotice(n result.Notice) string {
	style, ok := noticeStyles[n.Severity]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return style.Render(strings.ToUpper(string(n.Severity)) + " " + n.Message)
}

func pairLine(l [2]string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(48).Render(l[0]),
		l[1],
	) + "\n"
}
