package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/meridianpetro/meridian-backend/internal/config"
	"github.com/meridianpetro/meridian-backend/internal/database"
	"github.com/meridianpetro/meridian-backend/internal/notify"
	"github.com/meridianpetro/meridian-backend/pkg/logger"
)

func newTestRouter(t *testing.T) (*Router, sqlmock.Sqlmock) {
	require.NoError(t, logger.Initialize("error"))

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret: "test-secret",
		Port:      "0",
		UploadDir: t.TempDir(),
	}
	return NewRouter(&database.DB{DB: gormDB}, cfg, notify.NewHub()), mock
}

func validContactPayload() map[string]interface{} {
	return map[string]interface{}{
		"fullName":        "Chinedu Eze",
		"email":           "chinedu@example.com",
		"phone":           "+2348012345678",
		"companyName":     "Eze Energy Ltd",
		"category":        "verified-buyer",
		"productType":     "ago",
		"estimatedVolume": 5000,
		"volumeUnit":      "mt",
		"message":         "Looking to purchase AGO on a quarterly contract basis.",
		"agreeToTerms":    true,
	}
}

func postJSON(r http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSubmitContact_CreatesPendingInquiry(t *testing.T) {
	router, mock := newTestRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "inquiries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("inq-uuid-1"))
	mock.ExpectCommit()

	// The new lead also lands in the CMS notification feed
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	rec := postJSON(router, "/api/contact", validContactPayload())

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "inq-uuid-1", resp["id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitContact_RejectedWithoutTermsAgreement(t *testing.T) {
	router, mock := newTestRouter(t)

	payload := validContactPayload()
	payload["agreeToTerms"] = false

	rec := postJSON(router, "/api/contact", payload)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// Nothing may reach the database on a validation failure
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitContact_RejectsUnknownCategory(t *testing.T) {
	router, mock := newTestRouter(t)

	payload := validContactPayload()
	payload["category"] = "casual-browser"

	rec := postJSON(router, "/api/contact", payload)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitContact_RejectsShortMessage(t *testing.T) {
	router, mock := newTestRouter(t)

	payload := validContactPayload()
	payload["message"] = "hi"

	rec := postJSON(router, "/api/contact", payload)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
