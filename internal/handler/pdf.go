package handler

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/gasnet/calculator/internal/registry"
	"github.com/gasnet/calculator/internal/report"
)

const (
	pdfMargin     = 10.0
	pdfFont       = "Helvetica"
	pdfRowHeight  = 5.0
	pdfHeadHeight = 7.0
	pdfChartH     = 70.0
)

// pdfColumnWidths fill the 277 mm printable width of a landscape A4 page.
var pdfColumnWidths = []float64{20, 20, 24, 22, 18, 24, 22, 24, 22, 24, 33, 24}

type pdfHandler struct{}

func init() {
	registry.Default.Register("pdf", &pdfHandler{})
}

func (pdfHandler) Format() string    { return "pdf" }
func (pdfHandler) Extension() string { return ".pdf" }

func (pdfHandler) Render(doc *report.Document) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.SetTitle(doc.Title(), true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, pageH := pdf.GetPageSize()
	half := (pageW - 2*pdfMargin) / 2

	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont(pdfFont, "", 8)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	// 1. Header
	pdf.SetTextColor(40, 40, 40)
	if doc.Header.Company != "" {
		pdf.SetFont(pdfFont, "B", 16)
		pdf.CellFormat(0, 7, tr(doc.Header.Company), "", 1, "C", false, 0, "")
	}
	pdf.SetFont(pdfFont, "", 12)
	pdf.CellFormat(0, 7, tr(doc.Title()), "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
	meta := "Date: " + doc.GeneratedAt.Format("January 2, 2006")
	if doc.Header.TaxID != "" {
		meta = "Tax ID: " + doc.Header.TaxID + " | " + meta
	}
	pdf.CellFormat(0, 6, tr(meta), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	writeSection := func(title string, lines [][2]string) {
		if len(lines) == 0 {
			return
		}
		pdf.SetFont(pdfFont, "B", 12)
		pdf.CellFormat(0, 7, tr(title), "", 1, "L", false, 0, "")
		pdf.SetFont(pdfFont, "", 10)
		for _, l := range lines {
			pdf.CellFormat(half, pdfRowHeight, tr(l[0]), "", 0, "L", false, 0, "")
			pdf.CellFormat(half, pdfRowHeight, tr(l[1]), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	// 2. Client data
	writeSection("Client data:", clientLines(doc))
	// 3. Technical summary
	writeSection("Technical summary:", summaryLines(doc))

	// 4. Results table; the header repeats on every page
	writeHead := func() {
		pdf.SetFont(pdfFont, "B", 8)
		pdf.SetFillColor(229, 57, 53)
		pdf.SetTextColor(255, 255, 255)
		for i, col := range report.Columns {
			pdf.CellFormat(pdfColumnWidths[i], pdfHeadHeight, tr(col), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(pdfFont, "", 7)
		pdf.SetTextColor(40, 40, 40)
	}
	writeHead()
	for i, row := range doc.Rows {
		if pdf.GetY()+pdfRowHeight > pageH-15 {
			pdf.AddPage()
			writeHead()
		}
		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 245)
		for j, cell := range row.Cells() {
			pdf.CellFormat(pdfColumnWidths[j], pdfRowHeight, tr(cell), "1", 0, "C", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	// 5. Chart
	if pdf.GetY()+pdfChartH+20 > pageH-20 {
		pdf.AddPage()
	} else {
		pdf.Ln(10)
	}
	drawChart(pdf, tr, doc.Chart, pdfMargin, pdf.GetY(), pageW-2*pdfMargin, pdfChartH)
	pdf.SetY(pdf.GetY() + pdfChartH + 10)

	// 6. Footer
	if pdf.GetY()+20 > pageH-15 {
		pdf.AddPage()
	}
	pdf.SetFont(pdfFont, "", 10)
	pdf.SetTextColor(40, 40, 40)
	for _, line := range doc.Header.Designer {
		pdf.CellFormat(0, pdfRowHeight, tr(line), "", 1, "L", false, 0, "")
	}
	footer := "Generated on: " + doc.GeneratedAt.Format("2006-01-02 15:04:05")
	if doc.Header.Version != "" {
		footer = "Version " + doc.Header.Version + " | " + footer
	}
	pdf.CellFormat(0, pdfRowHeight, tr(footer), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawChart plots pressures against the left axis and velocities against
// the right axis inside the box at (x, y).
func drawChart(pdf *fpdf.Fpdf, tr func(string) string, c report.Chart, x, y, w, h float64) {
	const pad = 12.0
	plotX, plotY := x+pad, y+8
	plotW, plotH := w-2*pad, h-16

	pdf.SetFont(pdfFont, "B", 10)
	pdf.SetTextColor(40, 40, 40)
	pdf.SetXY(x, y)
	pdf.CellFormat(w, 6, tr(c.Title), "", 0, "C", false, 0, "")

	pdf.SetDrawColor(158, 158, 158)
	pdf.SetLineWidth(0.2)
	pdf.Rect(plotX, plotY, plotW, plotH, "D")

	pdf.SetFont(pdfFont, "", 6)
	pdf.Text(x, plotY+2, fixed(c.Pressure.Max, 1))
	pdf.Text(x, plotY+plotH, fixed(c.Pressure.Min, 1))
	pdf.Text(plotX+plotW+1, plotY+2, fixed(c.Velocity.Max, 1))
	pdf.Text(plotX+plotW+1, plotY+plotH, fixed(c.Velocity.Min, 1))

	n := len(c.Labels)
	if n == 0 {
		return
	}
	px := func(i int) float64 {
		if n == 1 {
			return plotX + plotW/2
		}
		return plotX + plotW*float64(i)/float64(n-1)
	}
	py := func(v float64, a report.Axis) float64 {
		span := a.Max - a.Min
		if span <= 0 {
			return plotY + plotH
		}
		return plotY + plotH - plotH*(v-a.Min)/span
	}

	series := []struct {
		values  []float64
		axis    report.Axis
		r, g, b int
	}{
		{c.Pressures, c.Pressure, 229, 57, 53},
		{c.Velocities, c.Velocity, 57, 73, 171},
	}
	pdf.SetLineWidth(0.5)
	for _, s := range series {
		pdf.SetDrawColor(s.r, s.g, s.b)
		for i := 1; i < len(s.values); i++ {
			pdf.Line(px(i-1), py(s.values[i-1], s.axis), px(i), py(s.values[i], s.axis))
		}
		for i, v := range s.values {
			pdf.Circle(px(i), py(v, s.axis), 0.6, "D")
		}
	}

	pdf.SetTextColor(80, 80, 80)
	for i, label := range c.Labels {
		pdf.Text(px(i)-2, plotY+plotH+4, tr(label))
	}
	pdf.SetTextColor(229, 57, 53)
	pdf.Text(plotX, y+h, tr(c.Pressure.Title))
	pdf.SetTextColor(57, 73, 171)
	pdf.Text(plotX+plotW-25, y+h, tr(c.Velocity.Title))
	pdf.SetLineWidth(0.2)
}
