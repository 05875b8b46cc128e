package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("artifact not found")
	ErrExists   = errors.New("artifact already exists for session")
)

// Artifact is the stored document envelope; the kind-specific fields
// live in Payload.
type Artifact struct {
	ID        string
	SessionID string
	Payload   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists one artifact kind. The same implementation backs all
// six kinds, parameterized by table.
type Store struct {
	db    DB
	table string
}

func NewStore(db DB, table string) *Store {
	return &Store{db: db, table: table}
}

// Create inserts a fresh document. At most one document may exist per
// session; a second insert returns ErrExists.
func (s *Store) Create(ctx context.Context, id, sessionID string, payload json.RawMessage) (*Artifact, error) {
	q := fmt.Sprintf(`
insert into %s (id, session_id, payload)
values ($1, $2, $3)
returning id, session_id, payload, created_at, updated_at;
`, s.table)

	a, err := scanArtifact(s.db.QueryRow(ctx, q, id, sessionID, payload))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrExists
		}
		return nil, err
	}
	return a, nil
}

func (s *Store) GetBySession(ctx context.Context, sessionID string) (*Artifact, error) {
	q := fmt.Sprintf(`
select id, session_id, payload, created_at, updated_at
from %s
where session_id = $1;
`, s.table)

	a, err := scanArtifact(s.db.QueryRow(ctx, q, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// Upsert overwrites the payload for the session, creating the document
// if absent. id and created_at survive an overwrite; updated_at moves.
func (s *Store) Upsert(ctx context.Context, id, sessionID string, payload json.RawMessage) (*Artifact, error) {
	q := fmt.Sprintf(`
insert into %s (id, session_id, payload)
values ($1, $2, $3)
on conflict (session_id) do update
set payload = excluded.payload, updated_at = now()
returning id, session_id, payload, created_at, updated_at;
`, s.table)

	return scanArtifact(s.db.QueryRow(ctx, q, id, sessionID, payload))
}

func scanArtifact(row pgx.Row) (*Artifact, error) {
	var a Artifact
	if err := row.Scan(&a.ID, &a.SessionID, &a.Payload, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
