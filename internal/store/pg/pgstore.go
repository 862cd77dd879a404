package pg

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"techflow.app/internal/auth"
	"techflow.app/internal/leads"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

// Store implements the persistence interfaces over Postgres.
type Store struct {
	db *sql.DB
}

var (
	_ auth.Store  = (*Store)(nil)
	_ leads.Store = (*Store)(nil)
)

// Open connects using the pgx stdlib driver.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing handle (used by tests with sqlmock).
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Accounts() auth.AccountStore       { return (*accountStore)(s) }
func (s *Store) Enterprises() auth.EnterpriseStore { return (*enterpriseStore)(s) }
func (s *Store) Onboarding() auth.OnboardingStore  { return (*onboardingStore)(s) }

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// isUniqueViolation reports whether err is the store telling us a
// uniqueness constraint lost a race.
func isUniqueViolation(err error) bool {
	pgErr, ok := maybePgError(err)
	return ok && pgErr.Code == pgErrUniqueViolation
}
