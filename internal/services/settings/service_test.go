package settings

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
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

func settingRows(pairs map[string]string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "key", "value", "category", "is_public"})
	id := 1
	for k, v := range pairs {
		rows.AddRow(id, k, datatypes.JSON(`"`+v+`"`), CategoryForKey(k), IsPublicKey(k))
		id++
	}
	return rows
}

func TestCategoryForKey(t *testing.T) {
	cases := map[string]string{
		"company_name":              "contact",
		"head_office_address":       "contact",
		"commercial_office_address": "contact",
		"social_linkedin":           "social",
		"compliance_visibility":     "compliance",
		"seo_default_title":         "seo",
		"news_min_relevance":        "news",
		"maintenance_mode":          "general",
	}
	for key, want := range cases {
		assert.Equal(t, want, CategoryForKey(key), key)
	}
}

func TestPublicAllowList(t *testing.T) {
	assert.True(t, IsPublicKey("company_name"))
	assert.True(t, IsPublicKey("social_linkedin"))
	assert.False(t, IsPublicKey("news_min_relevance"))
	assert.False(t, IsPublicKey("smtp_password"))
}

func TestSave_NoOpPerformsZeroWrites(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`SELECT \* FROM "site_settings"`).
		WillReturnRows(settingRows(map[string]string{
			"company_name":  "Meridian Petroleum",
			"company_email": "info@meridianpetro.example",
		}))
	// No begin/insert expected: identical values must not write anything

	changed, err := svc.Save(map[string]string{
		"company_name":  "Meridian Petroleum",
		"company_email": "info@meridianpetro.example",
	}, "admin-1")
	require.NoError(t, err)
	assert.Empty(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_UpsertsOnlyChangedKeys(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`SELECT \* FROM "site_settings"`).
		WillReturnRows(settingRows(map[string]string{
			"company_name":  "Meridian Petroleum",
			"company_email": "info@meridianpetro.example",
		}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "site_settings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	changed, err := svc.Save(map[string]string{
		"company_name":  "Meridian Petroleum",            // unchanged
		"company_email": "trading@meridianpetro.example", // changed
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"company_email"}, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_NewKeyIsAWrite(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`SELECT \* FROM "site_settings"`).
		WillReturnRows(settingRows(nil))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "site_settings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	changed, err := svc.Save(map[string]string{"maintenance_mode": "off"}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"maintenance_mode"}, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlatten_CoercesJSONValues(t *testing.T) {
	rows := []models.SiteSetting{
		{Key: "company_name", Value: datatypes.JSON(`"Meridian Petroleum"`)},
		{Key: "office_coords", Value: datatypes.JSON(`{"lat":6.45,"lng":3.39}`)},
	}
	flat := Flatten(rows)
	assert.Equal(t, "Meridian Petroleum", flat["company_name"])
	assert.Equal(t, `{"lat":6.45,"lng":3.39}`, flat["office_coords"])
}
