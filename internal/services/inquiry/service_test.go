package inquiry

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

func TestChangeStatus_WritesExactlyOneLogRow(t *testing.T) {
	svc, mock := newTestService(t)

	actor := &models.AdminProfile{ID: "admin-1", FullName: "Ada Okafor"}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "inquiries"`).
		WithArgs("inq-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "full_name"}).
			AddRow("inq-1", "pending", "Test Lead"))
	mock.ExpectExec(`UPDATE "inquiries" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "inquiry_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	inq, err := svc.ChangeStatus("inq-1", models.InquiryStatusContacted, "called them", actor)
	require.NoError(t, err)
	assert.Equal(t, models.InquiryStatusContacted, inq.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStatus_InvalidStatusRejectedBeforeAnyWrite(t *testing.T) {
	svc, mock := newTestService(t)

	_, err := svc.ChangeStatus("inq-1", models.InquiryStatus("exploded"), "", nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	// No statements at all should have reached the database
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStatus_NotFoundRollsBack(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "inquiries"`).
		WithArgs("missing", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	_, err := svc.ChangeStatus("missing", models.InquiryStatusQualified, "", nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddNote_AppendsAndLogs(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "inquiries"`).
		WithArgs("inq-2", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "notes"}).
			AddRow("inq-2", "contacted", "existing line"))
	mock.ExpectExec(`UPDATE "inquiries" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "inquiry_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	inq, err := svc.AddNote("inq-2", "spoke to procurement lead", nil)
	require.NoError(t, err)
	assert.Contains(t, inq.Notes, "existing line\n")
	assert.Contains(t, inq.Notes, "spoke to procurement lead")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddNote_EmptyNoteRejected(t *testing.T) {
	svc, mock := newTestService(t)

	_, err := svc.AddNote("inq-2", "", nil)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_RemovesLogsThenRow(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "inquiries"`).
		WithArgs("inq-3", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("inq-3", "closed_lost"))
	mock.ExpectExec(`DELETE FROM "inquiry_logs"`).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`DELETE FROM "inquiries"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Delete("inq-3")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
