package project

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/inamate/editor-go/internal/auth"
	"github.com/inamate/inamate/editor-go/internal/document"
	"github.com/inamate/inamate/editor-go/internal/store"
	"github.com/inamate/inamate/editor-go/internal/typeid"
)

type memberKey struct{ project, user string }

// memStore is an in-memory Querier.
type memStore struct {
	mu        sync.Mutex
	projects  map[string]store.Project
	members   map[memberKey]store.ProjectMember
	snapshots map[string][]store.Snapshot
}

func newMemStore() *memStore {
	return &memStore{
		projects:  make(map[string]store.Project),
		members:   make(map[memberKey]store.ProjectMember),
		snapshots: make(map[string][]store.Snapshot),
	}
}

func (m *memStore) CreateProject(_ context.Context, arg store.CreateProjectParams) (store.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	p := store.Project{ID: arg.ID, Name: arg.Name, OwnerID: arg.OwnerID, CreatedAt: now, UpdatedAt: now}
	m.projects[p.ID] = p
	return p, nil
}

func (m *memStore) GetProject(_ context.Context, id string) (store.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return store.Project{}, store.ErrNotFound
	}
	return p, nil
}

func (m *memStore) ListProjectsForUser(_ context.Context, userID string) ([]store.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Project
	for k := range m.members {
		if k.user == userID {
			out = append(out, m.projects[k.project])
		}
	}
	return out, nil
}

func (m *memStore) DeleteProject(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.projects, id)
	delete(m.snapshots, id)
	for k := range m.members {
		if k.project == id {
			delete(m.members, k)
		}
	}
	return nil
}

func (m *memStore) AddProjectMember(_ context.Context, arg store.AddProjectMemberParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[memberKey{arg.ProjectID, arg.UserID}] = store.ProjectMember{
		ProjectID: arg.ProjectID, UserID: arg.UserID, Role: arg.Role,
	}
	return nil
}

func (m *memStore) GetProjectMember(_ context.Context, arg store.GetProjectMemberParams) (store.ProjectMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pm, ok := m.members[memberKey{arg.ProjectID, arg.UserID}]
	if !ok {
		return store.ProjectMember{}, store.ErrNotFound
	}
	return pm, nil
}

func (m *memStore) ListProjectMembers(_ context.Context, projectID string) ([]store.ProjectMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.ProjectMember
	for k, pm := range m.members {
		if k.project == projectID {
			out = append(out, pm)
		}
	}
	return out, nil
}

func (m *memStore) RemoveProjectMember(_ context.Context, arg store.RemoveProjectMemberParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.members, memberKey{arg.ProjectID, arg.UserID})
	return nil
}

func (m *memStore) CreateSnapshot(_ context.Context, arg store.CreateSnapshotParams) (store.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := store.Snapshot{ID: arg.ID, ProjectID: arg.ProjectID, Version: arg.Version, Document: arg.Document}
	m.snapshots[arg.ProjectID] = append(m.snapshots[arg.ProjectID], s)
	return s, nil
}

func (m *memStore) GetLatestSnapshot(_ context.Context, projectID string) (store.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snaps := m.snapshots[projectID]
	if len(snaps) == 0 {
		return store.Snapshot{}, store.ErrNotFound
	}
	return snaps[len(snaps)-1], nil
}

type apiFixture struct {
	store  *memStore
	router *mux.Router
	auth   *auth.Service
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	f := &apiFixture{store: newMemStore(), router: mux.NewRouter(), auth: auth.NewService("secret")}
	api := f.router.PathPrefix("/api").Subrouter()
	api.Use(f.auth.AuthMiddleware)
	NewHandler(NewService(f.store)).Routes(api)
	return f
}

func (f *apiFixture) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := f.auth.IssueToken(auth.Identity{UserID: userID, DisplayName: userID})
	require.NoError(t, err)
	return tok
}

func (f *apiFixture) do(t *testing.T, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+f.token(t, userID))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) create(t *testing.T, owner string) Project {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/projects", owner, `{"name":"Demo"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var p Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestCreateSeedsSampleDocument(t *testing.T) {
	f := newAPI(t)
	owner := typeid.NewUserID()
	p := f.create(t, owner)
	assert.NoError(t, typeid.Validate(p.ID, typeid.PrefixProject))
	assert.Equal(t, owner, p.OwnerID)
	assert.Equal(t, "2026-10-14T12:00:00Z", p.CreatedAt)

	rec := f.do(t, http.MethodGet, "/api/projects/"+p.ID+"/snapshots/latest", owner, "")
	require.Equal(t, http.StatusOK, rec.Code)
	root, err := document.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, root.NumChildren())
}

func TestCreateValidatesBody(t *testing.T) {
	f := newAPI(t)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/projects", "user_a", `{"name":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/projects", "user_a", `nope`).Code)
}

func TestAccessControl(t *testing.T) {
	f := newAPI(t)
	owner, other := typeid.NewUserID(), typeid.NewUserID()
	p := f.create(t, owner)
	base := "/api/projects/" + p.ID

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   string
		status int
	}{
		{"owner reads", http.MethodGet, base, owner, "", http.StatusOK},
		{"stranger reads", http.MethodGet, base, other, "", http.StatusForbidden},
		{"stranger snapshot", http.MethodGet, base + "/snapshots/latest", other, "", http.StatusForbidden},
		{"missing project", http.MethodDelete, "/api/projects/proj_missing", owner, "", http.StatusNotFound},
		{"stranger adds member", http.MethodPost, base + "/members", other, `{"userId":"` + other + `"}`, http.StatusForbidden},
		{"bad member id", http.MethodPost, base + "/members", owner, `{"userId":"bogus"}`, http.StatusBadRequest},
		{"owner adds member", http.MethodPost, base + "/members", owner, `{"userId":"` + other + `"}`, http.StatusCreated},
		{"member reads", http.MethodGet, base, other, "", http.StatusOK},
		{"member deletes", http.MethodDelete, base, other, "", http.StatusForbidden},
		{"owner removes self", http.MethodDelete, base + "/members/" + owner, owner, "", http.StatusBadRequest},
		{"owner removes member", http.MethodDelete, base + "/members/" + other, owner, "", http.StatusNoContent},
		{"removed member reads", http.MethodGet, base, other, "", http.StatusForbidden},
		{"owner deletes", http.MethodDelete, base, owner, "", http.StatusNoContent},
		{"deleted project", http.MethodGet, base, owner, "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestListAndMembers(t *testing.T) {
	f := newAPI(t)
	owner := typeid.NewUserID()
	p := f.create(t, owner)

	rec := f.do(t, http.MethodGet, "/api/projects", owner, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, p.ID, listed[0].ID)

	rec = f.do(t, http.MethodGet, "/api/projects/"+p.ID+"/members", owner, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var members []Member
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &members))
	assert.Equal(t, []Member{{UserID: owner, Role: "owner"}}, members)
}

func TestRequestsNeedToken(t *testing.T) {
	f := newAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEnsurePlayground(t *testing.T) {
	ms := newMemStore()
	svc := NewService(ms)
	ctx := context.Background()
	id := typeid.NewProjectID()

	require.NoError(t, svc.EnsurePlayground(ctx, id))
	require.NoError(t, svc.EnsurePlayground(ctx, id))
	assert.Len(t, ms.snapshots[id], 1)
	assert.Equal(t, "Playground", ms.projects[id].Name)
}

type failingStore struct{ *memStore }

func (failingStore) GetProject(context.Context, string) (store.Project, error) {
	return store.Project{}, errors.New("connection refused")
}

func TestStoreErrorsAreInternal(t *testing.T) {
	svc := NewService(failingStore{newMemStore()})
	err := svc.EnsurePlayground(context.Background(), "proj_x")
	assert.EqualError(t, err, "get playground: connection refused")

	rec := httptest.NewRecorder()
	handleServiceError(rec, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
