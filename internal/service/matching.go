package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aidar/nexus-api/internal/domain"
	"github.com/aidar/nexus-api/internal/repository"
)

const defaultMyApplicationsPageLimit = 10

// Waker is notified when new outbox events are committed
type Waker interface {
	Wake()
}

// MatchingService implements the discovery feed and the application workflow
type MatchingService struct {
	projectRepo repository.ProjectRepository
	appRepo     repository.ApplicationRepository
	swipeRepo   repository.SwipeRepository
	userRepo    repository.UserRepository
	waker       Waker
	logger      *slog.Logger
}

// NewMatchingService creates a new MatchingService. waker may be nil.
func NewMatchingService(
	projectRepo repository.ProjectRepository,
	appRepo repository.ApplicationRepository,
	swipeRepo repository.SwipeRepository,
	userRepo repository.UserRepository,
	waker Waker,
	logger *slog.Logger,
) *MatchingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchingService{
		projectRepo: projectRepo,
		appRepo:     appRepo,
		swipeRepo:   swipeRepo,
		userRepo:    userRepo,
		waker:       waker,
		logger:      logger,
	}
}

// Discover returns the open projects the user has not yet created, skipped or applied to
func (s *MatchingService) Discover(ctx context.Context, userID string) ([]*domain.Project, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.ListDiscoverable(ctx, userID)
	if err != nil {
		return nil, err
	}

	redactApplicantEmails(projects)
	return projects, nil
}

// Apply records a pending application of the user to the project
func (s *MatchingService) Apply(ctx context.Context, projectID, userID string) (*domain.Application, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project.IsCreator(userID) {
		return nil, domain.ErrOwnProject
	}
	if !project.IsOpen() {
		return nil, domain.ErrProjectNotOpen
	}
	// Fast path; the unique constraint is what actually guards the pair
	if project.HasApplicant(userID) {
		return nil, domain.ErrAlreadyApplied
	}

	applicant, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	app := &domain.Application{
		ApplicationID: uuid.NewString(),
		ProjectID:     projectID,
		Applicant:     applicant.Summary(),
		Status:        domain.ApplicationPending,
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "application submitted",
		slog.String("project_id", projectID),
		slog.String("user_id", userID),
		slog.String("application_id", app.ApplicationID),
	)

	return app, nil
}

// Skip adds the project to the user's skipped set (idempotent)
func (s *MatchingService) Skip(ctx context.Context, projectID, userID string) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}

	return s.swipeRepo.Skip(ctx, userID, projectID)
}

// Save bookmarks the project for the user (idempotent). Saving does not hide the project from the feed.
func (s *MatchingService) Save(ctx context.Context, projectID, userID string) error {
	exists, err := s.projectRepo.Exists(ctx, projectID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrProjectNotFound
	}

	return s.swipeRepo.Save(ctx, userID, projectID)
}

// ListSaved returns the user's saved projects, most recently saved first
func (s *MatchingService) ListSaved(ctx context.Context, userID string) ([]*domain.Project, error) {
	projects, err := s.swipeRepo.ListSaved(ctx, userID)
	if err != nil {
		return nil, err
	}

	redactApplicantEmails(projects)
	return projects, nil
}

// ListApplications returns the project's applications; only the creator may see them
func (s *MatchingService) ListApplications(ctx context.Context, projectID, actorID string) (*domain.ProjectApplications, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !project.IsCreator(actorID) {
		return nil, domain.ErrForbidden
	}

	return &domain.ProjectApplications{
		ProjectID:    project.ProjectID,
		Title:        project.Title,
		Applications: project.Applications,
	}, nil
}

// DecideApplication accepts or rejects a pending application.
// Checks run in order: project exists, actor is creator, status literal, application exists.
// Repeating the current decision is a no-op; flipping a final decision is rejected.
func (s *MatchingService) DecideApplication(
	ctx context.Context,
	projectID, applicationID, actorID, rawStatus string,
) (*domain.Application, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !project.IsCreator(actorID) {
		return nil, domain.ErrForbidden
	}

	status, err := domain.ParseDecision(rawStatus)
	if err != nil {
		return nil, err
	}

	current, ok := project.ApplicationByID(applicationID)
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}

	if current.Status == status {
		return current, nil
	}
	if current.Status.IsTerminal() {
		return nil, domain.ErrApplicationFinalized
	}
	// Fast path; Decide re-checks capacity with the project row locked
	if status == domain.ApplicationAccepted && project.IsFull() {
		return nil, domain.ErrProjectFull
	}

	event := &domain.NotificationEvent{
		EventID:          uuid.NewString(),
		Type:             domain.NotificationTypeApplicationStatus,
		Message:          domain.ApplicationStatusMessage(project.Title, status),
		RelatedProjectID: project.ProjectID,
	}

	app, err := s.appRepo.Decide(ctx, projectID, applicationID, status, event)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "application decided",
		slog.String("project_id", projectID),
		slog.String("application_id", applicationID),
		slog.String("status", string(status)),
		slog.String("event_id", event.EventID),
	)

	if s.waker != nil {
		s.waker.Wake()
	}

	return app, nil
}

// ListMyApplications returns a page of the user's applications, newest project first
func (s *MatchingService) ListMyApplications(ctx context.Context, userID string, pageNum, limit int) (*domain.PageResult[*domain.UserApplication], error) {
	page := domain.NewPage(pageNum, limit, defaultMyApplicationsPageLimit)

	apps, total, err := s.appRepo.ListByApplicant(ctx, userID, page)
	if err != nil {
		return nil, err
	}

	return &domain.PageResult[*domain.UserApplication]{Items: apps, Total: total, Page: page}, nil
}

func (s *MatchingService) requireUser(ctx context.Context, userID string) error {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	return nil
}

// redactApplicantEmails hides other applicants' emails from feed consumers
func redactApplicantEmails(projects []*domain.Project) {
	for _, p := range projects {
		for i := range p.Applications {
			p.Applications[i].Applicant.Email = ""
		}
	}
}
