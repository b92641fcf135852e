package snapshot

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func expectCreateTable(mock sqlmock.Sqlmock) {
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS `schema_baseline` (`identity_key` CHAR(32) NOT NULL, `identity` VARCHAR(4096) NOT NULL, `last_modified` DATETIME(6) NOT NULL, PRIMARY KEY (`identity_key`)")).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestNewSQLStore_RejectsInvalidTable(t *testing.T) {
	db, _ := setupMockDB(t)

	for _, name := range []string{"", "baseline; DROP TABLE x", "1table", "with-dash"} {
		_, err := NewSQLStore(db, name)
		assert.Error(t, err, name)
	}
}

func TestSQLStore_MySQLLimits(t *testing.T) {
	db, _ := setupMockDB(t)
	store, err := NewSQLStore(db, "schema_baseline")
	require.NoError(t, err)

	assert.Equal(t, 4096, store.MaxIdentityLength())
	assert.Equal(t, "schema_baseline", store.Table())
}

func TestSQLStore_FindAll(t *testing.T) {
	db, mock := setupMockDB(t)
	store, err := NewSQLStore(db, "schema_baseline")
	require.NoError(t, err)

	t1 := time.Date(2017, 7, 1, 19, 26, 32, 0, time.UTC)
	t2 := time.Date(2017, 7, 2, 19, 26, 32, 0, time.UTC)

	expectCreateTable(mock)
	mock.ExpectQuery("SELECT (.+) FROM `schema_baseline` ORDER BY identity").
		WillReturnRows(sqlmock.NewRows([]string{"identity", "last_modified"}).
			AddRow("Class1.java", t1).
			AddRow("Class2.java", t2))

	entries, err := store.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Equal(NewEntry("Class1.java", t1)))
	assert.True(t, entries[1].Equal(NewEntry("Class2.java", t2)))

	// The table is only created once per store
	mock.ExpectQuery("SELECT (.+) FROM `schema_baseline`").
		WillReturnRows(sqlmock.NewRows([]string{"identity", "last_modified"}))

	entries, err = store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_InsertOrUpdate(t *testing.T) {
	db, mock := setupMockDB(t)
	store, err := NewSQLStore(db, "schema_baseline")
	require.NoError(t, err)

	expectCreateTable(mock)
	mock.ExpectExec("INSERT INTO `schema_baseline` (.+) ON DUPLICATE KEY UPDATE `last_modified`").
		WithArgs(identityKey("src/main/resources/import.sql"), "src/main/resources/import.sql", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = store.InsertOrUpdate(context.Background(), NewEntry("src/main/resources/import.sql", time.Now()))
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_InsertOrUpdate_IdentityTooLong(t *testing.T) {
	db, mock := setupMockDB(t)
	store, err := NewSQLStore(db, "schema_baseline")
	require.NoError(t, err)

	err = store.InsertOrUpdate(context.Background(), NewEntry(strings.Repeat("x", MaxIdentity+1), time.Now()))
	assert.ErrorIs(t, err, ErrIdentityTooLong)
	assert.ErrorIs(t, err, ErrStorage)

	// No statement reached the database
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_InsertOrUpdate_LongIdentity(t *testing.T) {
	db, mock := setupMockDB(t)
	store, err := NewSQLStore(db, "schema_baseline")
	require.NoError(t, err)

	identity := "src/main/resources/" + strings.Repeat("a", MaxIdentity-len("src/main/resources/"))

	expectCreateTable(mock)
	mock.ExpectExec("INSERT INTO `schema_baseline` (.+) ON DUPLICATE KEY UPDATE `last_modified`").
		WithArgs(identityKey(identity), identity, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.InsertOrUpdate(context.Background(), NewEntry(identity, time.Now())))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityKey(t *testing.T) {
	key := identityKey("src/main/resources/import.sql")

	assert.Len(t, key, 32)
	assert.Regexp(t, "^[0-9a-f]{32}$", key)
	assert.Equal(t, key, identityKey("src/main/resources/import.sql"))
	assert.NotEqual(t, key, identityKey("src/main/resources/import2.sql"))
}

func TestSQLStore_ClearAll(t *testing.T) {
	db, mock := setupMockDB(t)
	store, err := NewSQLStore(db, "schema_baseline")
	require.NoError(t, err)

	expectCreateTable(mock)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `schema_baseline`")).
		WillReturnResult(sqlmock.NewResult(0, 6))

	require.NoError(t, store.ClearAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_Failures(t *testing.T) {
	boom := errors.New("connection reset by peer")

	t.Run("CreateTable", func(t *testing.T) {
		db, mock := setupMockDB(t)
		store, err := NewSQLStore(db, "schema_baseline")
		require.NoError(t, err)

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnError(boom)

		_, err = store.FindAll(context.Background())
		assert.ErrorIs(t, err, ErrStorage)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "create table")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Select", func(t *testing.T) {
		db, mock := setupMockDB(t)
		store, err := NewSQLStore(db, "schema_baseline")
		require.NoError(t, err)

		expectCreateTable(mock)
		mock.ExpectQuery("SELECT").WillReturnError(boom)

		_, err = store.FindAll(context.Background())
		assert.ErrorIs(t, err, ErrStorage)
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Delete", func(t *testing.T) {
		db, mock := setupMockDB(t)
		store, err := NewSQLStore(db, "schema_baseline")
		require.NoError(t, err)

		expectCreateTable(mock)
		mock.ExpectExec("DELETE FROM").WillReturnError(boom)

		err = store.ClearAll(context.Background())
		assert.ErrorIs(t, err, ErrStorage)
		assert.Contains(t, err.Error(), "clear all")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CreateTableRetriedAfterFailure", func(t *testing.T) {
		db, mock := setupMockDB(t)
		store, err := NewSQLStore(db, "schema_baseline")
		require.NoError(t, err)

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnError(boom)
		expectCreateTable(mock)
		mock.ExpectExec("DELETE FROM").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.Error(t, store.ClearAll(context.Background()))
		assert.NoError(t, store.ClearAll(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
