package export

import (
	"bytes"
	"fmt"
	"time"

	"padelcourt/cmd/internal/domain/entity"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin    = 10.0
	pdfRowHeight = 7.0
)

// column widths in mm, summing to the A4 landscape printable width
var pdfWidths = []float64{60, 45, 40, 24, 18, 18, 27, 45}

// PDF renders rows as an A4 landscape table. The header row repeats on
// every page, rows alternate shading and the status is colour coded.
func PDF(rows []Row, generatedAt time.Time) ([]byte, error) {
	pdf := renderPDF(rows, generatedAt)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDF(rows []Row, generatedAt time.Time) *fpdf.Fpdf {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	_, pageHeight := pdf.GetPageSize()
	bottom := pageHeight - pdfMargin - 8

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Booking History", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated "+generatedAt.UTC().Format("2006-01-02 15:04 UTC"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdfHeader(pdf)

	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, pdfRowHeight, "No bookings in the selected range.", "", 1, "C", false, 0, "")
		return pdf
	}

	for i, r := range rows {
		if pdf.GetY()+pdfRowHeight > bottom {
			pdf.AddPage()
			pdfHeader(pdf)
		}

		if i%2 == 1 {
			pdf.SetFillColor(243, 244, 246)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetFont("Helvetica", "", 8)

		for j, v := range r.values() {
			pdf.SetTextColor(0, 0, 0)
			if columns[j] == "Status" {
				pdf.SetTextColor(statusColor(v))
			}
			pdf.CellFormat(pdfWidths[j], pdfRowHeight, tr(v), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf
}

func pdfHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(22, 163, 74)
	pdf.SetTextColor(255, 255, 255)
	for i, c := range columns {
		pdf.CellFormat(pdfWidths[i], pdfRowHeight+1, c, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func statusColor(status string) (int, int, int) {
	switch status {
	case entity.BookingConfirmed:
		return 22, 163, 74
	case entity.BookingCancelled:
		return 220, 38, 38
	}
	return 0, 0, 0
}
