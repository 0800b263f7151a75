package report

import (
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpetro/meridian-backend/internal/models"
)

func fakeInquiries(n int) []models.Inquiry {
	gofakeit.Seed(42)
	out := make([]models.Inquiry, n)
	for i := range out {
		out[i] = models.Inquiry{
			ID:          gofakeit.UUID(),
			FullName:    gofakeit.Name(),
			Email:       gofakeit.Email(),
			CompanyName: gofakeit.Company(),
			Category:    models.CategoryVerifiedBuyer,
			ProductType: models.ProductCrudeOil,
			Status:      models.InquiryStatusPending,
			Message:     gofakeit.Sentence(8),
			CreatedAt:   time.Now().UTC(),
		}
	}
	return out
}

func TestInquiriesCSV_LineCount(t *testing.T) {
	inquiries := fakeInquiries(12)

	data, err := InquiriesCSV(inquiries)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	// header + N rows
	assert.Len(t, lines, 13)
	assert.True(t, strings.HasPrefix(lines[0], "id,created_at,full_name"))
}

func TestInquiriesCSV_QuoteEscaping(t *testing.T) {
	inquiries := []models.Inquiry{
		{
			ID:          "inq-1",
			FullName:    `Chinedu "Chi" Eze`,
			CompanyName: "Delta Marine, Ltd",
			Category:    models.CategoryVerifiedSeller,
			ProductType: models.ProductAGO,
			Status:      models.InquiryStatusContacted,
			Message:     "volumes: 50,000 bbl/month",
			CreatedAt:   time.Now().UTC(),
		},
	}

	data, err := InquiriesCSV(inquiries)
	require.NoError(t, err)
	text := string(data)

	// Embedded quotes are doubled, comma-bearing fields are quoted
	assert.Contains(t, text, `"Chinedu ""Chi"" Eze"`)
	assert.Contains(t, text, `"Delta Marine, Ltd"`)
	assert.Contains(t, text, `"volumes: 50,000 bbl/month"`)
}

func TestInquiriesCSV_EmptySetIsHeaderOnly(t *testing.T) {
	data, err := InquiriesCSV(nil)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 1)
}

func TestFilename(t *testing.T) {
	name := Filename("inquiries", "csv")
	assert.True(t, strings.HasPrefix(name, "inquiries-"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
	// middle segment is a date
	datePart := strings.TrimSuffix(strings.TrimPrefix(name, "inquiries-"), ".csv")
	_, err := time.Parse("2006-01-02", datePart)
	assert.NoError(t, err)
}

func TestInquiriesPDF_Renders(t *testing.T) {
	data, err := InquiriesPDF(fakeInquiries(40), "http://localhost:3210/cms/inquiries")
	require.NoError(t, err)
	assert.True(t, len(data) > 1000)
	assert.True(t, strings.HasPrefix(string(data[:5]), "%PDF-"))
}
