package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/meridianpetro/meridian-backend/internal/models"
)

// inquiryHeader is the column order of the inquiries CSV export
var inquiryHeader = []string{
	"id", "created_at", "full_name", "email", "phone", "company_name",
	"category", "product_type", "estimated_volume", "volume_unit",
	"status", "assigned_to", "source", "message",
}

// InquiriesCSV renders inquiries as a comma-delimited, quote-escaped file:
// one header line plus one line per inquiry
func InquiriesCSV(inquiries []models.Inquiry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(inquiryHeader); err != nil {
		return nil, err
	}

	for _, inq := range inquiries {
		assigned := ""
		if inq.AssignedTo != nil {
			assigned = *inq.AssignedTo
		}
		record := []string{
			inq.ID,
			inq.CreatedAt.UTC().Format(time.RFC3339),
			inq.FullName,
			inq.Email,
			inq.Phone,
			inq.CompanyName,
			string(inq.Category),
			string(inq.ProductType),
			strconv.FormatFloat(inq.EstimatedVolume, 'f', -1, 64),
			inq.VolumeUnit,
			string(inq.Status),
			assigned,
			inq.Source,
			inq.Message,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename builds the dated export filename, e.g. inquiries-2026-09-01.csv
func Filename(report, ext string) string {
	return fmt.Sprintf("%s-%s.%s", report, time.Now().UTC().Format("2006-01-02"), ext)
}
