package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

// A broken connection during seeding must surface, not leave holes in the
// default catalog.
func TestSeedDefaultsSurfacesQueryError(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "permissions"`).
		WillReturnError(errors.New("connection reset by peer"))

	err := NewPermissionRepo(db).SeedDefaults()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDefaultsSurfacesRoleQueryError(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "roles"`).
		WillReturnError(errors.New("connection reset by peer"))

	err := NewRoleRepo(db).SeedDefaults()
	assert.Error(t, err)
}
