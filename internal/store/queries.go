package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/inamate/inamate/editor-go/internal/typeid"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

type ProjectRole string

const (
	ProjectRoleOwner  ProjectRole = "owner"
	ProjectRoleEditor ProjectRole = "editor"
)

type Project struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProjectMember struct {
	ProjectID string
	UserID    string
	Role      ProjectRole
	CreatedAt time.Time
}

type Snapshot struct {
	ID        string
	ProjectID string
	Version   int32
	Document  json.RawMessage
	CreatedAt time.Time
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// IsDuplicateKey reports whether err is a unique violation.
func IsDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- Projects ---

type CreateProjectParams struct {
	ID      string
	Name    string
	OwnerID string
}

const createProject = `INSERT INTO projects (id, name, owner_id) VALUES ($1, $2, $3)
RETURNING id, name, owner_id, created_at, updated_at`

func (st *Store) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	var p Project
	err := st.db.QueryRow(ctx, createProject, arg.ID, arg.Name, arg.OwnerID).
		Scan(&p.ID, &p.Name, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const getProject = `SELECT id, name, owner_id, created_at, updated_at FROM projects WHERE id = $1`

func (st *Store) GetProject(ctx context.Context, id string) (Project, error) {
	var p Project
	err := st.db.QueryRow(ctx, getProject, id).
		Scan(&p.ID, &p.Name, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	return p, notFound(err)
}

const listProjectsForUser = `SELECT p.id, p.name, p.owner_id, p.created_at, p.updated_at
FROM projects p JOIN project_members m ON m.project_id = p.id
WHERE m.user_id = $1
ORDER BY p.updated_at DESC`

func (st *Store) ListProjectsForUser(ctx context.Context, userID string) ([]Project, error) {
	rows, err := st.db.Query(ctx, listProjectsForUser, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Project, error) {
		var p Project
		err := row.Scan(&p.ID, &p.Name, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
		return p, err
	})
}

const deleteProject = `DELETE FROM projects WHERE id = $1`

func (st *Store) DeleteProject(ctx context.Context, id string) error {
	_, err := st.db.Exec(ctx, deleteProject, id)
	return err
}

// --- Members ---

type AddProjectMemberParams struct {
	ProjectID string
	UserID    string
	Role      ProjectRole
}

const addProjectMember = `INSERT INTO project_members (project_id, user_id, role) VALUES ($1, $2, $3)
ON CONFLICT (project_id, user_id) DO UPDATE SET role = EXCLUDED.role`

func (st *Store) AddProjectMember(ctx context.Context, arg AddProjectMemberParams) error {
	_, err := st.db.Exec(ctx, addProjectMember, arg.ProjectID, arg.UserID, string(arg.Role))
	return err
}

type GetProjectMemberParams struct {
	ProjectID string
	UserID    string
}

const getProjectMember = `SELECT project_id, user_id, role, created_at FROM project_members
WHERE project_id = $1 AND user_id = $2`

func (st *Store) GetProjectMember(ctx context.Context, arg GetProjectMemberParams) (ProjectMember, error) {
	var m ProjectMember
	err := st.db.QueryRow(ctx, getProjectMember, arg.ProjectID, arg.UserID).
		Scan(&m.ProjectID, &m.UserID, &m.Role, &m.CreatedAt)
	return m, notFound(err)
}

const listProjectMembers = `SELECT project_id, user_id, role, created_at FROM project_members
WHERE project_id = $1 ORDER BY created_at`

func (st *Store) ListProjectMembers(ctx context.Context, projectID string) ([]ProjectMember, error) {
	rows, err := st.db.Query(ctx, listProjectMembers, projectID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (ProjectMember, error) {
		var m ProjectMember
		err := row.Scan(&m.ProjectID, &m.UserID, &m.Role, &m.CreatedAt)
		return m, err
	})
}

type RemoveProjectMemberParams struct {
	ProjectID string
	UserID    string
}

const removeProjectMember = `DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`

func (st *Store) RemoveProjectMember(ctx context.Context, arg RemoveProjectMemberParams) error {
	_, err := st.db.Exec(ctx, removeProjectMember, arg.ProjectID, arg.UserID)
	return err
}

// --- Snapshots ---

type CreateSnapshotParams struct {
	ID        string
	ProjectID string
	Version   int32
	Document  json.RawMessage
}

const createSnapshot = `INSERT INTO snapshots (id, project_id, version, document) VALUES ($1, $2, $3, $4)
RETURNING id, project_id, version, document, created_at`

func (st *Store) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) (Snapshot, error) {
	var s Snapshot
	err := st.db.QueryRow(ctx, createSnapshot, arg.ID, arg.ProjectID, arg.Version, []byte(arg.Document)).
		Scan(&s.ID, &s.ProjectID, &s.Version, &s.Document, &s.CreatedAt)
	return s, err
}

const getLatestSnapshot = `SELECT id, project_id, version, document, created_at FROM snapshots
WHERE project_id = $1 ORDER BY version DESC LIMIT 1`

func (st *Store) GetLatestSnapshot(ctx context.Context, projectID string) (Snapshot, error) {
	var s Snapshot
	err := st.db.QueryRow(ctx, getLatestSnapshot, projectID).
		Scan(&s.ID, &s.ProjectID, &s.Version, &s.Document, &s.CreatedAt)
	return s, notFound(err)
}

const appendSnapshot = `INSERT INTO snapshots (id, project_id, version, document)
SELECT $1::text, $2::text, COALESCE(MAX(version), 0) + 1, $3::jsonb FROM snapshots WHERE project_id = $2::text`

const touchProject = `UPDATE projects SET updated_at = now() WHERE id = $1`

// LoadSnapshot returns the latest document of a project.
func (st *Store) LoadSnapshot(ctx context.Context, projectID string) (json.RawMessage, error) {
	s, err := st.GetLatestSnapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.Document, nil
}

// SaveSnapshot stores doc as the next version of the project's document.
func (st *Store) SaveSnapshot(ctx context.Context, projectID string, doc json.RawMessage) error {
	if _, err := st.db.Exec(ctx, appendSnapshot, typeid.NewSnapshotID(), projectID, []byte(doc)); err != nil {
		return err
	}
	_, err := st.db.Exec(ctx, touchProject, projectID)
	return err
}
