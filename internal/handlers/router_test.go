package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		url      string
		page     int
		pageSize int
	}{
		{"/api/inquiries", 1, 15},
		{"/api/inquiries?page=3", 3, 15},
		{"/api/inquiries?page=3&pageSize=50", 3, 50},
		{"/api/inquiries?page=0&pageSize=0", 1, 15},
		{"/api/inquiries?page=-2&pageSize=101", 1, 15},
		{"/api/inquiries?page=abc&pageSize=xyz", 1, 15},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.url, nil)
		page, pageSize := parsePagination(req)
		assert.Equal(t, tc.page, page, tc.url)
		assert.Equal(t, tc.pageSize, pageSize, tc.url)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 15))
	assert.Equal(t, 1, totalPages(1, 15))
	assert.Equal(t, 1, totalPages(15, 15))
	assert.Equal(t, 2, totalPages(16, 15))
	assert.Equal(t, 3, totalPages(37, 15))
}

func TestListInquiries_LastPageEnvelope(t *testing.T) {
	router, mock := newTestRouter(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "inquiries"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(37))

	rows := sqlmock.NewRows([]string{"id", "full_name", "status"})
	for i := 0; i < 7; i++ {
		rows.AddRow("inq-"+string(rune('a'+i)), "Lead", "pending")
	}
	mock.ExpectQuery(`SELECT \* FROM "inquiries"`).WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/api/inquiries?page=3", nil)
	rec := httptest.NewRecorder()
	router.listInquiries(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Items      []json.RawMessage `json:"items"`
		Total      int64             `json:"total"`
		Page       int               `json:"page"`
		TotalPages int               `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Items, 7)
	assert.Equal(t, int64(37), page.Total)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCMSRoutesRejectMissingToken(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/api/inquiries", "/api/settings", "/api/admins"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}
