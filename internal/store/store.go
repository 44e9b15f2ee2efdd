package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/loykin/frontc/internal/common"
	"github.com/loykin/frontc/internal/constants"
	"github.com/loykin/frontc/internal/store/postgresql"
	"github.com/loykin/frontc/internal/store/sqlite"
)

const (
	DriverSqlite     = "sqlite"
	DriverPostgresql = "postgresql"
)

var (
	// ErrDuplicateEmail is returned when a contact with the same email already exists.
	ErrDuplicateEmail = errors.New("contact with this email already exists")
	// ErrUnsupportedDriver is returned by Open for an unknown driver name.
	ErrUnsupportedDriver = errors.New("unsupported store driver")
	ErrInvalidTableName  = errors.New("invalid table name")
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Contact is one stored form submission.
type Contact struct {
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Dialect hides the differences between the supported SQL backends.
type Dialect interface {
	DriverName() string
	Connect(dsn string) (*sql.DB, error)
	Placeholder(index int) string
	EnsureStatements(table string) []string
	IsUniqueViolation(err error) bool
	ConvertTimeToStorage(t time.Time) interface{}
	ConvertTimeFromStorage(val interface{}) time.Time
}

// Config selects the backend. An empty Driver means sqlite.
type Config struct {
	Driver     string            `mapstructure:"driver" yaml:"driver"`
	Table      string            `mapstructure:"table" yaml:"table"`
	SQLite     sqlite.Config     `mapstructure:"sqlite" yaml:"sqlite"`
	PostgreSQL postgresql.Config `mapstructure:"postgres" yaml:"postgres"`
}

// Store persists contacts through a Dialect.
type Store struct {
	DB      *sql.DB
	dialect Dialect
	table   string
	now     func() time.Time
	logger  *common.Logger
}

// New wraps an open database. Callers normally use Open.
func New(db *sql.DB, dialect Dialect, table string) (*Store, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		table = constants.DefaultContactsTable
	}
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTableName, table)
	}
	return &Store{
		DB:      db,
		dialect: dialect,
		table:   table,
		now:     time.Now,
		logger:  common.GetLogger().WithStore(dialect.DriverName()),
	}, nil
}

// Open connects to the configured backend and ensures the contacts table exists.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	var (
		dialect Dialect
		dsn     string
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverSqlite:
		dialect = sqlite.NewDialect()
		if cfg.SQLite.Path == "" {
			cfg.SQLite.Path = constants.DefaultSQLitePath
		}
		dsn = cfg.SQLite.ToDSN()
	case DriverPostgresql, "postgres":
		dialect = postgresql.NewDialect()
		dsn = cfg.PostgreSQL.ToDSN()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Driver)
	}

	db, err := dialect.Connect(dsn)
	if err != nil {
		return nil, err
	}
	st, err := New(db, dialect, cfg.Table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := st.Ensure(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	st.logger.Debug("store opened", "table", st.table)
	return st, nil
}

// Ensure creates the contacts table when missing.
func (s *Store) Ensure(ctx context.Context) error {
	for _, q := range s.dialect.EnsureStatements(s.table) {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure %s: %w", s.table, err)
		}
	}
	return nil
}

// SaveContact inserts c. A zero CreatedAt is set to the current time.
func (s *Store) SaveContact(ctx context.Context, c Contact) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	q := fmt.Sprintf("INSERT INTO %s(name, email, created_at) VALUES(%s, %s, %s)",
		s.table, s.dialect.Placeholder(1), s.dialect.Placeholder(2), s.dialect.Placeholder(3))
	_, err := s.DB.ExecContext(ctx, q, c.Name, c.Email, s.dialect.ConvertTimeToStorage(c.CreatedAt))
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("save contact: %w", err)
	}
	s.logger.Debug("contact saved", "email", c.Email)
	return nil
}

// ListContacts returns contacts oldest first.
func (s *Store) ListContacts(ctx context.Context) ([]Contact, error) {
	q := fmt.Sprintf("SELECT name, email, created_at FROM %s ORDER BY created_at ASC, email ASC", s.table)
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Contact
	for rows.Next() {
		var (
			c  Contact
			ts interface{}
		)
		if err := rows.Scan(&c.Name, &c.Email, &ts); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		c.CreatedAt = s.dialect.ConvertTimeFromStorage(ts)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
