package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/aidar/nexus-api/internal/domain"
	"github.com/aidar/nexus-api/internal/repository"
)

const (
	defaultProjectsPageLimit   = 20
	defaultMyProjectsPageLimit = 5
)

// CreateProjectInput carries the fields a creator may set on a new project
type CreateProjectInput struct {
	Title          string
	Description    string
	Category       string
	ProjectType    string
	Location       string
	SkillsRequired []string
	MaxMembers     int
}

// ProjectService handles project CRUD
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// Create publishes a new open project owned by the actor.
// Status and applications are never taken from the input.
func (s *ProjectService) Create(ctx context.Context, actorID string, in CreateProjectInput) (*domain.Project, error) {
	creator, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	project := &domain.Project{
		ProjectID:      uuid.NewString(),
		Title:          in.Title,
		Description:    in.Description,
		Category:       in.Category,
		ProjectType:    in.ProjectType,
		Location:       in.Location,
		SkillsRequired: in.SkillsRequired,
		MaxMembers:     in.MaxMembers,
		Creator:        creator.Summary(),
		Status:         domain.ProjectOpen,
		Applications:   []domain.Application{},
	}
	if project.SkillsRequired == nil {
		project.SkillsRequired = []string{}
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// GetByID retrieves a project with its applications
func (s *ProjectService) GetByID(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.projectRepo.GetByID(ctx, projectID)
}

// List returns a page of all projects, newest first
func (s *ProjectService) List(ctx context.Context, pageNum, limit int) (*domain.PageResult[*domain.Project], error) {
	page := domain.NewPage(pageNum, limit, defaultProjectsPageLimit)

	projects, total, err := s.projectRepo.List(ctx, page)
	if err != nil {
		return nil, err
	}

	return &domain.PageResult[*domain.Project]{Items: projects, Total: total, Page: page}, nil
}

// ListMine returns a page of projects created by the actor, newest first
func (s *ProjectService) ListMine(ctx context.Context, actorID string, pageNum, limit int) (*domain.PageResult[*domain.Project], error) {
	page := domain.NewPage(pageNum, limit, defaultMyProjectsPageLimit)

	projects, total, err := s.projectRepo.ListByCreator(ctx, actorID, page)
	if err != nil {
		return nil, err
	}

	return &domain.PageResult[*domain.Project]{Items: projects, Total: total, Page: page}, nil
}

// Update applies a partial update; only the creator may modify a project
func (s *ProjectService) Update(ctx context.Context, projectID, actorID string, update domain.ProjectUpdate) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !project.IsCreator(actorID) {
		return nil, domain.ErrForbidden
	}

	if err := update.Apply(project); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// Delete removes a project; only the creator may delete it
func (s *ProjectService) Delete(ctx context.Context, projectID, actorID string) error {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}

	if !project.IsCreator(actorID) {
		return domain.ErrForbidden
	}

	return s.projectRepo.Delete(ctx, projectID)
}
