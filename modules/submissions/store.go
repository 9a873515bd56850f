package submissions

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the goose migrations creating form_submissions, rooted
// at the migration files.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Submission is one recorded form completion.
type Submission struct {
	CreatedAt  time.Time      `json:"created_at"`
	Values     map[string]any `json:"values"`
	FormKey    string         `json:"form_key"`
	RemoteAddr string         `json:"remote_addr,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	ID         uuid.UUID      `json:"id"`
}

// Store persists submissions.
type Store interface {
	Insert(ctx context.Context, s Submission) error
	List(ctx context.Context, formKey string, limit int) ([]Submission, error)
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// DB is the subset of *pgxpool.Pool used by PostgresStore.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore keeps submissions in the form_submissions table.
type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const (
	insertSQL = `INSERT INTO form_submissions (id, form_key, form_values, remote_addr, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	listSQL = `SELECT id, form_key, form_values, remote_addr, user_agent, created_at
FROM form_submissions
WHERE form_key = $1
ORDER BY created_at DESC
LIMIT $2`

	purgeSQL = `DELETE FROM form_submissions WHERE created_at < $1`
)

func (p *PostgresStore) Insert(ctx context.Context, s Submission) error {
	values, err := json.Marshal(s.Values)
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	_, err = p.db.Exec(ctx, insertSQL, s.ID, s.FormKey, values, s.RemoteAddr, s.UserAgent, s.CreatedAt)
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

// List returns the newest submissions of a form first.
func (p *PostgresStore) List(ctx context.Context, formKey string, limit int) ([]Submission, error) {
	rows, err := p.db.Query(ctx, listSQL, formKey, limit)
	if err != nil {
		return nil, errors.Join(ErrStoreFailed, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Submission, error) {
		var s Submission
		var values []byte
		if err := row.Scan(&s.ID, &s.FormKey, &values, &s.RemoteAddr, &s.UserAgent, &s.CreatedAt); err != nil {
			return s, err
		}
		if err := json.Unmarshal(values, &s.Values); err != nil {
			return s, fmt.Errorf("values of %s: %w", s.ID, err)
		}
		return s, nil
	})
	if err != nil {
		return nil, errors.Join(ErrStoreFailed, err)
	}
	return out, nil
}

func (p *PostgresStore) Purge(ctx context.Context, before time.Time) (int64, error) {
	tag, err := p.db.Exec(ctx, purgeSQL, before)
	if err != nil {
		return 0, errors.Join(ErrStoreFailed, err)
	}
	return tag.RowsAffected(), nil
}
