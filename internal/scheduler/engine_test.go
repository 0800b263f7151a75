package scheduler

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/meridianpetro/meridian-backend/internal/models"
)

func newTestEngine(t *testing.T) (*Engine, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return &Engine{db: gormDB, running: make(map[uint]struct{})}, mock
}

func nowMinusMinutes(m int) time.Time {
	return time.Now().UTC().Add(-time.Duration(m) * time.Minute)
}

func TestInFlightJobIsNotAcquiredTwice(t *testing.T) {
	e := &Engine{running: make(map[uint]struct{})}

	assert.True(t, e.tryAcquire(7))
	// A slow run still holds the slot; the next scan must not start another
	assert.False(t, e.tryAcquire(7))
	// Other jobs are unaffected
	assert.True(t, e.tryAcquire(8))

	e.release(7)
	assert.True(t, e.tryAcquire(7))
}

func TestConsumeRateBudget_GuardedIncrement(t *testing.T) {
	e, mock := newTestEngine(t)

	now := nowMinusMinutes(10)
	cfg := &models.APIConfig{
		ID:               3,
		RateLimitPerHour: 100,
		RequestsThisHour: 5,
		RateWindowStart:  &now,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "api_configs" SET "requests_this_hour"=requests_this_hour \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := e.consumeRateBudget(cfg)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 6, cfg.RequestsThisHour)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeRateBudget_ExhaustedBudgetRefused(t *testing.T) {
	e, mock := newTestEngine(t)

	now := nowMinusMinutes(10)
	cfg := &models.APIConfig{
		ID:               3,
		RateLimitPerHour: 100,
		RequestsThisHour: 100,
		RateWindowStart:  &now,
	}

	// The WHERE guard rejects the increment once the limit is reached
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "api_configs" SET "requests_this_hour"=requests_this_hour \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := e.consumeRateBudget(cfg)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 100, cfg.RequestsThisHour)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeRateBudget_ExpiredWindowResetsFirst(t *testing.T) {
	e, mock := newTestEngine(t)

	old := nowMinusMinutes(90)
	cfg := &models.APIConfig{
		ID:               3,
		RateLimitPerHour: 100,
		RequestsThisHour: 100,
		RateWindowStart:  &old,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "api_configs" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "api_configs" SET "requests_this_hour"=requests_this_hour \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := e.consumeRateBudget(cfg)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, cfg.RequestsThisHour)
	assert.NoError(t, mock.ExpectationsWereMet())
}
