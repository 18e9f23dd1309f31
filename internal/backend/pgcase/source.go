// Package pgcase reads case records from a PostgreSQL table.
//
// The table needs at least:
//
//	CREATE TABLE cases (
//	    id         text PRIMARY KEY,
//	    contact_id text NULL
//	);
package pgcase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rshade/productsummary/internal/logging"
	"github.com/rshade/productsummary/internal/summary"
)

const caseQuery = `SELECT id, contact_id FROM cases WHERE id = $1`

// Querier is the subset of pgx used by Source. *pgxpool.Pool and pgx.Conn
// satisfy it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Source implements summary.CaseRecordSource.
type Source struct {
	db      Querier
	timeout time.Duration
}

// New returns a Source. A zero timeout leaves the caller's deadline alone.
func New(db Querier, timeout time.Duration) *Source {
	return &Source{db: db, timeout: timeout}
}

// Connect opens a pool for dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres pool: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return pool, nil
}

// FetchCase implements summary.CaseRecordSource.
func (s *Source) FetchCase(ctx context.Context, caseID string) (*summary.CaseRecord, error) {
	if caseID == "" {
		return nil, summary.ErrEmptyCaseID
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log := logging.FromContext(ctx)
	log.Debug().Ctx(ctx).
		Str("component", "pgcase").
		Str("case_id", caseID).
		Msg("querying case")

	var (
		id        string
		contactID *string
	)
	err := s.db.QueryRow(ctx, caseQuery, caseID).Scan(&id, &contactID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("case %q: %w", caseID, summary.ErrCaseNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying case %q: %w", caseID, err)
	}

	record := &summary.CaseRecord{ID: id}
	if contactID != nil && *contactID != "" {
		c := summary.ContactID(*contactID)
		record.ContactID = &c
	}
	return record, nil
}
