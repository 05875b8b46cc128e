package projects

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound covers both a missing project and one owned by someone
// else; callers cannot tell the difference.
var ErrNotFound = errors.New("project not found")

type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
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

const projectCols = "id, name, description, owner_id, created_at, updated_at"

func (r *Repo) Create(ctx context.Context, id, ownerID, name, description string) (*Project, error) {
	const q = `
insert into projects (id, name, description, owner_id)
values ($1, $2, $3, $4)
returning ` + projectCols + `;
`
	return scanProject(r.db.QueryRow(ctx, q, id, name, description, ownerID))
}

func (r *Repo) List(ctx context.Context, ownerID string) ([]Project, error) {
	const q = `
select ` + projectCols + `
from projects
where owner_id = $1
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, ownerID, id string) (*Project, error) {
	const q = `
select ` + projectCols + `
from projects
where id = $1 and owner_id = $2;
`
	return scanProject(r.db.QueryRow(ctx, q, id, ownerID))
}

// Update applies the non-nil fields and bumps updated_at.
func (r *Repo) Update(ctx context.Context, ownerID, id string, name, description *string) (*Project, error) {
	const q = `
update projects
set name = coalesce($3, name),
    description = coalesce($4, description),
    updated_at = now()
where id = $1 and owner_id = $2
returning ` + projectCols + `;
`
	return scanProject(r.db.QueryRow(ctx, q, id, ownerID, name, description))
}

func (r *Repo) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	const q = `
delete from projects
where id = $1 and owner_id = $2;
`
	ct, err := r.db.Exec(ctx, q, id, ownerID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
