package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesign-connect/codesign-backend/internal/projects"
)

func sessionRow(now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "project_id", "name", "description", "current_step", "created_at", "updated_at"}).
		AddRow("s1", "p1", "Kickoff", "", 0, now, now)
}

func TestCreateChecksProjectOwnership(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("select 1 from projects").
		WithArgs("p1", "intruder").
		WillReturnError(pgx.ErrNoRows)

	repo := NewRepo(mock)
	_, err = repo.Create(context.Background(), "s1", "intruder", "p1", "Kickoff", "")

	assert.ErrorIs(t, err, projects.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInsertsAfterCheck(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("select 1 from projects").
		WithArgs("p1", "u1").
		WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery("insert into sessions").
		WithArgs("s1", "p1", "Kickoff", "").
		WillReturnRows(sessionRow(now))

	repo := NewRepo(mock)
	s, err := repo.Create(context.Background(), "s1", "u1", "p1", "Kickoff", "")

	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, 0, s.CurrentStep)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFiltersByProject(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("from sessions s").
		WithArgs("u1", "p1").
		WillReturnRows(sessionRow(now))

	repo := NewRepo(mock)
	items, err := repo.List(context.Background(), "u1", "p1")

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProjectID)
}

func TestUpdateStepMiss(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("update sessions s").
		WithArgs("ghost", "u1", 3).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewRepo(mock)
	err = repo.UpdateStep(context.Background(), "u1", "ghost", 3)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStepHit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("update sessions s").
		WithArgs("s1", "u1", 3).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewRepo(mock)
	assert.NoError(t, repo.UpdateStep(context.Background(), "u1", "s1", 3))
}

func TestDeleteByProjectCount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("delete from sessions").
		WithArgs("p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	repo := NewRepo(mock)
	n, err := repo.DeleteByProject(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestOwnedByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("select exists").
		WithArgs("s1", "u1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("select exists").
		WithArgs("s1", "intruder").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	repo := NewRepo(mock)

	owned, err := repo.OwnedByUser(context.Background(), "s1", "u1")
	require.NoError(t, err)
	assert.True(t, owned)

	owned, err = repo.OwnedByUser(context.Background(), "s1", "intruder")
	require.NoError(t, err)
	assert.False(t, owned)
}
