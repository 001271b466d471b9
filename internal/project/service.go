package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/inamate/inamate/editor-go/internal/document"
	"github.com/inamate/inamate/editor-go/internal/store"
	"github.com/inamate/inamate/editor-go/internal/typeid"
)

var (
	ErrNotFound     = errors.New("project not found")
	ErrForbidden    = errors.New("forbidden")
	ErrNotMember    = errors.New("not a project member")
	ErrRemoveOwner  = errors.New("cannot remove project owner")
	ErrInvalidInput = errors.New("invalid input")
)

// Querier is the part of store.Store the service needs.
type Querier interface {
	CreateProject(ctx context.Context, arg store.CreateProjectParams) (store.Project, error)
	GetProject(ctx context.Context, id string) (store.Project, error)
	ListProjectsForUser(ctx context.Context, userID string) ([]store.Project, error)
	DeleteProject(ctx context.Context, id string) error
	AddProjectMember(ctx context.Context, arg store.AddProjectMemberParams) error
	GetProjectMember(ctx context.Context, arg store.GetProjectMemberParams) (store.ProjectMember, error)
	ListProjectMembers(ctx context.Context, projectID string) ([]store.ProjectMember, error)
	RemoveProjectMember(ctx context.Context, arg store.RemoveProjectMemberParams) error
	CreateSnapshot(ctx context.Context, arg store.CreateSnapshotParams) (store.Snapshot, error)
	GetLatestSnapshot(ctx context.Context, projectID string) (store.Snapshot, error)
}

type Service struct {
	queries Querier
}

func NewService(queries Querier) *Service {
	return &Service{queries: queries}
}

type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Member struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func (s *Service) Create(ctx context.Context, name, ownerID string) (*Project, error) {
	return s.create(ctx, typeid.NewProjectID(), name, ownerID)
}

func (s *Service) create(ctx context.Context, projectID, name, ownerID string) (*Project, error) {
	dbProj, err := s.queries.CreateProject(ctx, store.CreateProjectParams{
		ID:      projectID,
		Name:    name,
		OwnerID: ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	err = s.queries.AddProjectMember(ctx, store.AddProjectMemberParams{
		ProjectID: projectID,
		UserID:    ownerID,
		Role:      store.ProjectRoleOwner,
	})
	if err != nil {
		return nil, fmt.Errorf("add owner as member: %w", err)
	}

	docJSON, err := document.Marshal(document.NewSampleDocument())
	if err != nil {
		return nil, fmt.Errorf("marshal sample document: %w", err)
	}

	_, err = s.queries.CreateSnapshot(ctx, store.CreateSnapshotParams{
		ID:        typeid.NewSnapshotID(),
		ProjectID: projectID,
		Version:   1,
		Document:  docJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return dbProjectToProject(dbProj), nil
}

// EnsurePlayground creates the shared playground project if it is missing.
func (s *Service) EnsurePlayground(ctx context.Context, projectID string) error {
	_, err := s.queries.GetProject(ctx, projectID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("get playground: %w", err)
	}
	if _, err := s.create(ctx, projectID, "Playground", "system"); err != nil && !store.IsDuplicateKey(err) {
		return err
	}
	return nil
}

func (s *Service) Get(ctx context.Context, projectID, userID string) (*Project, error) {
	if err := s.CheckMembership(ctx, projectID, userID); err != nil {
		return nil, err
	}

	dbProj, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return dbProjectToProject(dbProj), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Project, error) {
	dbProjects, err := s.queries.ListProjectsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	projects := make([]Project, len(dbProjects))
	for i, p := range dbProjects {
		projects[i] = *dbProjectToProject(p)
	}

	return projects, nil
}

func (s *Service) Delete(ctx context.Context, projectID, userID string) error {
	if err := s.checkOwner(ctx, projectID, userID); err != nil {
		return err
	}
	return s.queries.DeleteProject(ctx, projectID)
}

// AddMember grants targetUserID editor access. Only the owner may add members.
func (s *Service) AddMember(ctx context.Context, projectID, ownerID, targetUserID string) error {
	if err := typeid.Validate(targetUserID, typeid.PrefixUser); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.checkOwner(ctx, projectID, ownerID); err != nil {
		return err
	}

	return s.queries.AddProjectMember(ctx, store.AddProjectMemberParams{
		ProjectID: projectID,
		UserID:    targetUserID,
		Role:      store.ProjectRoleEditor,
	})
}

func (s *Service) ListMembers(ctx context.Context, projectID, userID string) ([]Member, error) {
	if err := s.CheckMembership(ctx, projectID, userID); err != nil {
		return nil, err
	}

	dbMembers, err := s.queries.ListProjectMembers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]Member, len(dbMembers))
	for i, m := range dbMembers {
		members[i] = Member{UserID: m.UserID, Role: string(m.Role)}
	}

	return members, nil
}

func (s *Service) RemoveMember(ctx context.Context, projectID, ownerID, targetUserID string) error {
	if err := s.checkOwner(ctx, projectID, ownerID); err != nil {
		return err
	}

	if targetUserID == ownerID {
		return ErrRemoveOwner
	}

	return s.queries.RemoveProjectMember(ctx, store.RemoveProjectMemberParams{
		ProjectID: projectID,
		UserID:    targetUserID,
	})
}

func (s *Service) GetLatestSnapshot(ctx context.Context, projectID, userID string) (json.RawMessage, error) {
	if err := s.CheckMembership(ctx, projectID, userID); err != nil {
		return nil, err
	}

	snap, err := s.queries.GetLatestSnapshot(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	return snap.Document, nil
}

// CheckMembership returns ErrNotMember unless userID belongs to the project.
func (s *Service) CheckMembership(ctx context.Context, projectID, userID string) error {
	_, err := s.queries.GetProjectMember(ctx, store.GetProjectMemberParams{
		ProjectID: projectID,
		UserID:    userID,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotMember
		}
		return fmt.Errorf("check membership: %w", err)
	}
	return nil
}

func (s *Service) checkOwner(ctx context.Context, projectID, userID string) error {
	dbProj, err := s.getProject(ctx, projectID)
	if err != nil {
		return err
	}
	if dbProj.OwnerID != userID {
		return ErrForbidden
	}
	return nil
}

func (s *Service) getProject(ctx context.Context, projectID string) (store.Project, error) {
	dbProj, err := s.queries.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Project{}, ErrNotFound
		}
		return store.Project{}, fmt.Errorf("get project: %w", err)
	}
	return dbProj, nil
}

func dbProjectToProject(p store.Project) *Project {
	return &Project{
		ID:        p.ID,
		Name:      p.Name,
		OwnerID:   p.OwnerID,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
