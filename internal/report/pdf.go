package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// RenderPDF draws a document on A4 portrait pages. Characters outside
// the cp1252 set are replaced rather than breaking the output.
func RenderPDF(doc Document, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 10, appTitle, "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "L", false, 0, "")
	pdf.Ln(5)
	pdf.SetFillColor(220, 220, 220)

	for _, row := range doc.Rows {
		style := ""
		if row.Bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, row.Size)
		for i, c := range row.Cells {
			ln := 0
			if i == len(row.Cells)-1 {
				ln = 1
			}
			pdf.CellFormat(c.Width, row.Height, tr(c.Text), c.Border, ln, c.Align, c.Fill, 0, "")
		}
		if row.GapAfter > 0 {
			pdf.Ln(row.GapAfter)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
