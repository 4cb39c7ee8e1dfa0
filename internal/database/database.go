package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/readreviews/internal/entities"
)

// Driver identifies the SQL backend selected from the connection URL.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

type Database struct {
	DB     *gorm.DB
	Driver Driver
}

// Options tweak how the connection is opened.
type Options struct {
	LogLevel logger.LogLevel
}

// ParseURL picks a driver for the connection string and returns the DSN to
// hand to it. postgres:// and postgresql:// URLs, as well as key=value
// Postgres DSNs, select Postgres; anything else is a SQLite path or file: DSN.
func ParseURL(url string) (Driver, string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", "", fmt.Errorf("database url is empty")
	}

	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, url, nil
	case strings.HasPrefix(url, "host=") || strings.Contains(url, " dbname="):
		return DriverPostgres, url, nil
	case strings.HasPrefix(url, "sqlite://"):
		return DriverSQLite, sqliteDSN(strings.TrimPrefix(url, "sqlite://")), nil
	default:
		return DriverSQLite, sqliteDSN(url), nil
	}
}

// sqliteDSN enables WAL and a busy timeout unless the caller set query options.
func sqliteDSN(path string) string {
	if path == ":memory:" || strings.Contains(path, "?") {
		return path
	}
	return path + "?_journal=WAL&_timeout=5000&_busy_timeout=5000&_foreign_keys=on"
}

func NewDatabase(url string) (*Database, error) {
	return NewDatabaseWithOptions(url, Options{LogLevel: logger.Warn})
}

func NewDatabaseWithOptions(url string, opts Options) (*Database, error) {
	driver, dsn, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(opts.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Favorite{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully (%s)", driver)

	return &Database{DB: db, Driver: driver}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks connectivity for the health endpoint.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
