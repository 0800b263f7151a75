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

func TestListNews_MinRelevanceReachesTheQuery(t *testing.T) {
	router, mock := newTestRouter(t)

	// Both statements must carry the relevance predicate; a query without it
	// would not match these expectations
	mock.ExpectQuery(`SELECT count\(\*\) FROM "news_articles" WHERE relevance_score >=`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "news_articles" WHERE relevance_score >=`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "relevance_score"}))

	req := httptest.NewRequest(http.MethodGet, "/api/news?minRelevance=0.9", nil)
	rec := httptest.NewRecorder()
	router.listNews(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Items []json.RawMessage `json:"items"`
		Total int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListNews_BadMinRelevanceIsIgnored(t *testing.T) {
	router, mock := newTestRouter(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "news_articles"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "news_articles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "relevance_score"}).
			AddRow("art-1", "Brent climbs", 0.8))

	req := httptest.NewRequest(http.MethodGet, "/api/news?minRelevance=not-a-number", nil)
	rec := httptest.NewRecorder()
	router.listNews(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
