package news

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/meridianpetro/meridian-backend/internal/models"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return NewService(gormDB), mock
}

func articleRow(id string, status models.AutoPostStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "auto_post_status"}).
		AddRow(id, "OPEC extends production cuts", string(status))
}

func TestApprove_FromPending(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "news_articles"`).
		WithArgs("art-1", 1).
		WillReturnRows(articleRow("art-1", models.AutoPostPending))
	mock.ExpectExec(`UPDATE "news_articles" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	reviewer := &models.AdminProfile{ID: "admin-1"}
	article, err := svc.Approve("art-1", "good fit for market analysis", reviewer)
	require.NoError(t, err)
	assert.Equal(t, models.AutoPostApproved, article.AutoPostStatus)
	assert.Equal(t, "admin-1", article.ReviewedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReject_FromPending(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "news_articles"`).
		WithArgs("art-2", 1).
		WillReturnRows(articleRow("art-2", models.AutoPostPending))
	mock.ExpectExec(`UPDATE "news_articles" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	article, err := svc.Reject("art-2", "duplicate coverage", nil)
	require.NoError(t, err)
	assert.Equal(t, models.AutoPostRejected, article.AutoPostStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReview_RejectedFromNonPendingStates(t *testing.T) {
	for _, status := range []models.AutoPostStatus{
		models.AutoPostApproved,
		models.AutoPostRejected,
		models.AutoPostPosted,
		models.AutoPostSkipped,
	} {
		t.Run(string(status), func(t *testing.T) {
			svc, mock := newTestService(t)

			mock.ExpectBegin()
			mock.ExpectQuery(`SELECT \* FROM "news_articles"`).
				WithArgs("art-3", 1).
				WillReturnRows(articleRow("art-3", status))
			mock.ExpectRollback()

			_, err := svc.Approve("art-3", "", nil)
			assert.ErrorIs(t, err, ErrNotPending)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMarkPosted_OnlyFromApproved(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "news_articles"`).
		WithArgs("art-4", 1).
		WillReturnRows(articleRow("art-4", models.AutoPostApproved))
	mock.ExpectExec(`UPDATE "news_articles" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.MarkPosted("art-4", "post-9"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPosted_RejectedFromPending(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "news_articles"`).
		WithArgs("art-5", 1).
		WillReturnRows(articleRow("art-5", models.AutoPostPending))
	mock.ExpectRollback()

	err := svc.MarkPosted("art-5", "post-9")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
