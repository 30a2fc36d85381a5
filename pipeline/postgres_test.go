package pipeline

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aluiziolira/go-scrape-drinks/config"
	"github.com/aluiziolira/go-scrape-drinks/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestNewPostgresWriterDefaultBatch(t *testing.T) {
	pw := newPostgresWriter(nil, config.ModePopulate, 0)
	assert.Equal(t, 100, pw.batchSize)
}

func TestPostgresWriterPopulate(t *testing.T) {
	db, mock := newMockDB(t)
	pw := newPostgresWriter(db, config.ModePopulate, 100)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	err := pw.Write([]*models.ProductRecord{record(1, 0.5), record(2, 0.4)})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWriterUpdateUpserts(t *testing.T) {
	db, mock := newMockDB(t)
	pw := newPostgresWriter(db, config.ModeUpdate, 100)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "products" .* ON CONFLICT \("url"\) DO UPDATE SET`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	err := pw.Write([]*models.ProductRecord{record(1, 0.5)})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWriterError(t *testing.T) {
	db, mock := newMockDB(t)
	pw := newPostgresWriter(db, config.ModePopulate, 100)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "products"`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := pw.Write([]*models.ProductRecord{record(1, 0.5)})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert products")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWriterEmptyBatch(t *testing.T) {
	db, mock := newMockDB(t)
	pw := newPostgresWriter(db, config.ModePopulate, 100)

	assert.NoError(t, pw.Write(nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
