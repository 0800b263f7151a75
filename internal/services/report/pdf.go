package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/meridianpetro/meridian-backend/internal/models"
)

// pdfMaxRows caps the tabular listing; the CSV export carries the full set
const pdfMaxRows = 30

// InquiriesPDF renders a paginated A4 inquiry report: header, summary stat
// block, a truncated table, a QR code linking back to the dashboard, and a
// page-numbered footer.
func InquiriesPDF(inquiries []models.Inquiry, dashboardURL string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Meridian Petroleum - Inquiries Report - Page %d", pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Inquiries Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Generated "+time.Now().UTC().Format("2006-01-02 15:04 UTC"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Summary stats
	counts := make(map[models.InquiryStatus]int)
	for _, inq := range inquiries {
		counts[inq.Status]++
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total inquiries: %d", len(inquiries)), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, status := range models.InquiryStatuses {
		if counts[status] == 0 {
			continue
		}
		pdf.CellFormat(0, 5, fmt.Sprintf("  %s: %d", status, counts[status]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Table header
	colWidths := []float64{45, 35, 30, 25, 25, 20}
	headers := []string{"Name", "Company", "Product", "Category", "Status", "Date"}
	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 6, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	// Table rows, truncated
	pdf.SetFont("Arial", "", 8)
	rows := inquiries
	if len(rows) > pdfMaxRows {
		rows = rows[:pdfMaxRows]
	}
	for _, inq := range rows {
		cells := []string{
			truncate(inq.FullName, 28),
			truncate(inq.CompanyName, 22),
			string(inq.ProductType),
			string(inq.Category),
			string(inq.Status),
			inq.CreatedAt.UTC().Format("2006-01-02"),
		}
		for i, c := range cells {
			pdf.CellFormat(colWidths[i], 5, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(inquiries) > pdfMaxRows {
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6,
			fmt.Sprintf("... and %d more rows (use the CSV export for the full set)", len(inquiries)-pdfMaxRows),
			"", 1, "L", false, 0, "")
	}

	// QR code back to the dashboard list
	if dashboardURL != "" {
		qrPng, err := qrcode.Encode(dashboardURL, qrcode.Low, 256)
		if err == nil {
			opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
			_ = pdf.RegisterImageOptionsReader("dashboard_qr", opts, bytes.NewReader(qrPng))
			pdf.Ln(6)
			pdf.ImageOptions("dashboard_qr", 15, pdf.GetY(), 22, 22, false, opts, 0, "")
			pdf.SetXY(40, pdf.GetY()+8)
			pdf.SetFont("Arial", "", 8)
			pdf.CellFormat(0, 5, "Scan to open the live inquiries dashboard", "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// truncate shortens a cell value on rune boundaries so multi-byte names
// never get split mid-character
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "."
}
