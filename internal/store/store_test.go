package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/inamate/editor-go/internal/typeid"
)

func TestNotFoundMapsNoRows(t *testing.T) {
	assert.ErrorIs(t, notFound(pgx.ErrNoRows), ErrNotFound)
	other := errors.New("boom")
	assert.Equal(t, other, notFound(other))
	assert.NoError(t, notFound(nil))
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsDuplicateKey(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsDuplicateKey(errors.New("23505")))
}

// openTestDB connects to TEST_DATABASE_URL, skipping when it is unset.
func openTestDB(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool))
	return New(pool)
}

func TestProjectLifecycle(t *testing.T) {
	q := openTestDB(t)
	ctx := context.Background()

	owner := typeid.NewUserID()
	p, err := q.CreateProject(ctx, CreateProjectParams{ID: typeid.NewProjectID(), Name: "Demo", OwnerID: owner})
	require.NoError(t, err)
	require.NoError(t, q.AddProjectMember(ctx, AddProjectMemberParams{ProjectID: p.ID, UserID: owner, Role: ProjectRoleOwner}))

	listed, err := q.ListProjectsForUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, p.ID, listed[0].ID)

	m, err := q.GetProjectMember(ctx, GetProjectMemberParams{ProjectID: p.ID, UserID: owner})
	require.NoError(t, err)
	assert.Equal(t, ProjectRoleOwner, m.Role)

	_, err = q.GetProjectMember(ctx, GetProjectMemberParams{ProjectID: p.ID, UserID: "user_nobody"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = q.LoadSnapshot(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, q.SaveSnapshot(ctx, p.ID, json.RawMessage(`{"version":1}`)))
	require.NoError(t, q.SaveSnapshot(ctx, p.ID, json.RawMessage(`{"version":2}`)))
	latest, err := q.GetLatestSnapshot(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), latest.Version)
	assert.JSONEq(t, `{"version":2}`, string(latest.Document))

	require.NoError(t, q.DeleteProject(ctx, p.ID))
	_, err = q.GetProject(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
