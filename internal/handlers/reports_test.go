package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportInquiriesCSV_CarriesListFilters(t *testing.T) {
	router, mock := newTestRouter(t)

	// The export must narrow by the same params the listing accepts,
	// product type and search included
	mock.ExpectQuery(`SELECT \* FROM "inquiries" WHERE product_type = .+ ILIKE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "status"}).
			AddRow("inq-1", "Amina Bello", "amina@belloenergy.com", "qualified"))

	// Export audit entry
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	req := httptest.NewRequest(http.MethodGet,
		"/api/reports/inquiries.csv?productType=ago&search=bello", nil)
	rec := httptest.NewRecorder()
	router.exportInquiriesCSV(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "inquiries")
	assert.Contains(t, rec.Body.String(), "Amina Bello")
	assert.NoError(t, mock.ExpectationsWereMet())
}
