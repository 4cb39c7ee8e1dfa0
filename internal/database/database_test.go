package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/readreviews/internal/entities"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantDriver Driver
		wantDSN    string
		wantErr    bool
	}{
		{"postgres scheme", "postgres://u:p@localhost/books", DriverPostgres, "postgres://u:p@localhost/books", false},
		{"postgresql scheme", "postgresql://localhost/books", DriverPostgres, "postgresql://localhost/books", false},
		{"key value dsn", "host=localhost user=u dbname=books", DriverPostgres, "host=localhost user=u dbname=books", false},
		{"plain path", "./books.db", DriverSQLite, "./books.db?_journal=WAL&_timeout=5000&_busy_timeout=5000&_foreign_keys=on", false},
		{"sqlite scheme", "sqlite://data/books.db", DriverSQLite, "data/books.db?_journal=WAL&_timeout=5000&_busy_timeout=5000&_foreign_keys=on", false},
		{"explicit options kept", "books.db?mode=ro", DriverSQLite, "books.db?mode=ro", false},
		{"memory", ":memory:", DriverSQLite, ":memory:", false},
		{"empty", "  ", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn, err := ParseURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}

func TestNewDatabase_MigratesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "books.db")

	db, err := NewDatabaseWithOptions(dbPath, Options{LogLevel: logger.Silent})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, DriverSQLite, db.Driver)
	assert.NoError(t, db.Ping())

	for _, model := range []any{&entities.User{}, &entities.Book{}, &entities.Favorite{}} {
		assert.True(t, db.DB.Migrator().HasTable(model))
	}
	assert.True(t, db.DB.Migrator().HasIndex(&entities.Favorite{}, "idx_user_book"))
}

func TestNewDatabase_TranslatesDuplicates(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "books.db")

	db, err := NewDatabaseWithOptions(dbPath, Options{LogLevel: logger.Silent})
	require.NoError(t, err)
	defer db.Close()

	book := entities.Book{ISBN: "0261103342", Title: "The Hobbit"}
	require.NoError(t, db.DB.Create(&book).Error)

	dup := entities.Book{ISBN: "0261103342", Title: "The Hobbit (again)"}
	err = db.DB.Create(&dup).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
