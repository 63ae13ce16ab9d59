package storage

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitlens/internal/constants"
	apperrors "github.com/julianstephens/habitlens/internal/errors"
	"github.com/julianstephens/habitlens/internal/logger"
	"github.com/julianstephens/habitlens/internal/migration"
	"github.com/julianstephens/habitlens/migrations"
)

// SQLStore implements Provider over database/sql for every Dialect.
type SQLStore struct {
	dsn     string
	dialect Dialect
	db      *sql.DB
}

// NewSQLiteStore returns a store backed by the SQLite file at path.
func NewSQLiteStore(path string) *SQLStore {
	return &SQLStore{dsn: path, dialect: SQLite}
}

// NewPostgresStore returns a store backed by PostgreSQL, using the habitlens
// schema unless the connection string selects another search_path.
func NewPostgresStore(connStr string) *SQLStore {
	return &SQLStore{dsn: withSearchPath(connStr), dialect: Postgres}
}

// Open picks the dialect from the shape of target: postgres URLs and DSNs go
// to PostgreSQL, anything else is treated as a SQLite file path.
func Open(target string) (*SQLStore, error) {
	if IsPostgres(target) {
		if HasEmbeddedCredentials(target) {
			return nil, ErrEmbeddedCredentials
		}
		return NewPostgresStore(target), nil
	}
	return NewSQLiteStore(target), nil
}

func (s *SQLStore) Init() error {
	if s.dialect == SQLite {
		if err := os.MkdirAll(filepath.Dir(s.dsn), 0700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if s.dialect == Postgres {
		if _, err := s.db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *SQLStore) Load() error {
	if s.db != nil {
		return nil
	}

	if s.dialect == SQLite {
		if _, err := os.Stat(s.dsn); os.IsNotExist(err) {
			return apperrors.ErrNotInitialized
		}
	}

	if err := s.open(); err != nil {
		return err
	}

	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *SQLStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *SQLStore) GetConfigPath() string {
	if s.dialect == Postgres {
		return RedactConnString(s.dsn)
	}
	return s.dsn
}

func (s *SQLStore) open() error {
	db, err := sql.Open(s.dialect.Driver, s.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	switch s.dialect {
	case SQLite:
		// A single connection serialises writers and keeps foreign keys on.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	case Postgres:
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.Ping(); err != nil {
			db.Close()
			if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.dsn) {
				return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
			}
			return fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	s.db = db
	return nil
}

func (s *SQLStore) runner() (*migration.Runner, error) {
	sub, err := fs.Sub(migrations.FS, s.dialect.Migrations)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", s.dialect.Name, err)
	}
	return migration.NewRunner(s.db, sub, migration.WithRebind(s.dialect.Rebind)), nil
}

func (s *SQLStore) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

// q rebinds a query for the store's dialect.
func (s *SQLStore) q(query string) string {
	return s.dialect.Rebind(query)
}

func (s *SQLStore) ready() error {
	if s.db == nil {
		return apperrors.ErrNotInitialized
	}
	return nil
}

const timeLayout = time.RFC3339

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(timeLayout, value)
}
