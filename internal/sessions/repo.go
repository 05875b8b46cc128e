package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/codesign-connect/codesign-backend/internal/projects"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CurrentStep int       `json:"current_step"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct {
	db DB
}

func NewRepo(db DB) *Repo {
	return &Repo{db: db}
}

const sessionCols = "s.id, s.project_id, s.name, s.description, s.current_step, s.created_at, s.updated_at"

// Create inserts a session under a project the user owns. Returns
// projects.ErrNotFound when the project is absent or owned by someone
// else.
func (r *Repo) Create(ctx context.Context, id, ownerID, projectID, name, description string) (*Session, error) {
	var one int
	err := r.db.QueryRow(ctx,
		`select 1 from projects where id = $1 and owner_id = $2;`,
		projectID, ownerID,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, projects.ErrNotFound
		}
		return nil, err
	}

	const q = `
insert into sessions (id, project_id, name, description)
values ($1, $2, $3, $4)
returning id, project_id, name, description, current_step, created_at, updated_at;
`
	return scanSession(r.db.QueryRow(ctx, q, id, projectID, name, description))
}

// List returns the user's sessions, optionally narrowed to one project.
func (r *Repo) List(ctx context.Context, ownerID, projectID string) ([]Session, error) {
	q := `
select ` + sessionCols + `
from sessions s
join projects p on p.id = s.project_id
where p.owner_id = $1
order by s.created_at desc;
`
	args := []any{ownerID}
	if projectID != "" {
		q = `
select ` + sessionCols + `
from sessions s
join projects p on p.id = s.project_id
where p.owner_id = $1 and s.project_id = $2
order by s.created_at desc;
`
		args = append(args, projectID)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Session, 0, 16)
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Name, &s.Description, &s.CurrentStep, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, ownerID, id string) (*Session, error) {
	const q = `
select ` + sessionCols + `
from sessions s
join projects p on p.id = s.project_id
where s.id = $1 and p.owner_id = $2;
`
	return scanSession(r.db.QueryRow(ctx, q, id, ownerID))
}

func (r *Repo) UpdateStep(ctx context.Context, ownerID, id string, step int) error {
	const q = `
update sessions s
set current_step = $3, updated_at = now()
from projects p
where s.id = $1 and p.id = s.project_id and p.owner_id = $2;
`
	ct, err := r.db.Exec(ctx, q, id, ownerID, step)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByProject removes every session referencing the project. Called
// after a project delete; artifact documents are left untouched.
func (r *Repo) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	ct, err := r.db.Exec(ctx, `delete from sessions where project_id = $1;`, projectID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

// OwnedByUser walks session -> project -> owner. Artifact routes use it
// as their visibility check.
func (r *Repo) OwnedByUser(ctx context.Context, sessionID, userID string) (bool, error) {
	const q = `
select exists (
    select 1
    from sessions s
    join projects p on p.id = s.project_id
    where s.id = $1 and p.owner_id = $2
);
`
	var owned bool
	if err := r.db.QueryRow(ctx, q, sessionID, userID).Scan(&owned); err != nil {
		return false, err
	}
	return owned, nil
}

func scanSession(row pgx.Row) (*Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.ProjectID, &s.Name, &s.Description, &s.CurrentStep, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
