package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesign-connect/codesign-backend/internal/auth"
	"github.com/codesign-connect/codesign-backend/internal/platform/logger"
	"github.com/codesign-connect/codesign-backend/internal/users"
)

type stubGuard struct {
	owned bool
	err   error
}

func (g *stubGuard) OwnedByUser(ctx context.Context, sessionID, userID string) (bool, error) {
	return g.owned, g.err
}

type stubFinder struct {
	user *users.User
}

func (s *stubFinder) FindByID(ctx context.Context, id string) (*users.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, users.ErrNotFound
	}
	return s.user, nil
}

// newArtifactRouter mounts the artifact routes behind the real auth
// middleware and returns a bearer token for u1.
func newArtifactRouter(t *testing.T, db DB, guard SessionGuard) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenService("test-secret", time.Hour)
	finder := &stubFinder{user: &users.User{ID: "u1", Email: "f@test.com", Role: users.RoleFacilitator}}
	mw := auth.NewMiddleware(logger.Nop(), tokens, finder)

	r := gin.New()
	api := r.Group("/api", mw.RequireAuth())
	Register(api, logger.Nop(), db, guard)

	token, err := tokens.Issue("u1")
	require.NoError(t, err)
	return r, token
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestUpdateUpsertsAndFlattens(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Now().UTC().Add(-time.Hour)
	stored := json.RawMessage(`{"persona_name":"Nurse","says":["too heavy"],"thinks":[],"does":[],"feels":[]}`)
	mock.ExpectQuery("insert into empathy_maps").
		WithArgs(pgxmock.AnyArg(), "s1", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "session_id", "payload", "created_at", "updated_at"}).
			AddRow("a1", "s1", stored, created, time.Now().UTC()))

	r, token := newArtifactRouter(t, mock, &stubGuard{owned: true})
	rr := doJSON(r, "PUT", "/api/empathy-maps/s1", token, gin.H{
		"persona_name": "Nurse",
		"says":         []string{"too heavy"},
	})

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "a1", body["id"])
	assert.Equal(t, "s1", body["session_id"])
	assert.Equal(t, "Nurse", body["persona_name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsBadEnumBeforeStore(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r, token := newArtifactRouter(t, mock, &stubGuard{owned: true})
	rr := doJSON(r, "POST", "/api/feedback", token, gin.H{
		"session_id": "s1",
		"items":      []gin.H{{"text": "meh", "type": "dislike"}},
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "dislike")
	// validation failed before any query was issued
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateHidesForeignSession(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r, token := newArtifactRouter(t, mock, &stubGuard{owned: false})
	rr := doJSON(r, "POST", "/api/problem-trees", token, gin.H{
		"session_id":   "someone-elses",
		"core_problem": "steep ramps",
	})

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Session not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateConflicts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("insert into story_maps").
		WithArgs(pgxmock.AnyArg(), "s1", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	r, token := newArtifactRouter(t, mock, &stubGuard{owned: true})
	rr := doJSON(r, "POST", "/api/story-maps", token, gin.H{
		"session_id": "s1",
		"title":      "Morning routine",
	})

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "Story map already exists for this session")
}

func TestGetRequiresAuth(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r, _ := newArtifactRouter(t, mock, &stubGuard{owned: true})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/api/ideas-boards/s1", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
