package handler

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"

	"github.com/aidar/nexus-api/internal/domain"
	"github.com/aidar/nexus-api/internal/service"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Signup(ctx context.Context, in service.SignupInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*service.AuthResult)
	return res, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*service.AuthResult)
	return res, args.Error(1)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *MockUserService) Me(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, page, limit int) (*domain.PageResult[*domain.User], error) {
	args := m.Called(ctx, page, limit)
	res, _ := args.Get(0).(*domain.PageResult[*domain.User])
	return res, args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, userID, update)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

type MockProjectService struct{ mock.Mock }

func (m *MockProjectService) Create(ctx context.Context, actorID string, in service.CreateProjectInput) (*domain.Project, error) {
	args := m.Called(ctx, actorID, in)
	p, _ := args.Get(0).(*domain.Project)
	return p, args.Error(1)
}

func (m *MockProjectService) GetByID(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	p, _ := args.Get(0).(*domain.Project)
	return p, args.Error(1)
}

func (m *MockProjectService) List(ctx context.Context, page, limit int) (*domain.PageResult[*domain.Project], error) {
	args := m.Called(ctx, page, limit)
	res, _ := args.Get(0).(*domain.PageResult[*domain.Project])
	return res, args.Error(1)
}

func (m *MockProjectService) ListMine(ctx context.Context, actorID string, page, limit int) (*domain.PageResult[*domain.Project], error) {
	args := m.Called(ctx, actorID, page, limit)
	res, _ := args.Get(0).(*domain.PageResult[*domain.Project])
	return res, args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, projectID, actorID string, update domain.ProjectUpdate) (*domain.Project, error) {
	args := m.Called(ctx, projectID, actorID, update)
	p, _ := args.Get(0).(*domain.Project)
	return p, args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, projectID, actorID string) error {
	return m.Called(ctx, projectID, actorID).Error(0)
}

type MockMatchingService struct{ mock.Mock }

func (m *MockMatchingService) Discover(ctx context.Context, userID string) ([]*domain.Project, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).([]*domain.Project)
	return p, args.Error(1)
}

func (m *MockMatchingService) Apply(ctx context.Context, projectID, userID string) (*domain.Application, error) {
	args := m.Called(ctx, projectID, userID)
	a, _ := args.Get(0).(*domain.Application)
	return a, args.Error(1)
}

func (m *MockMatchingService) Skip(ctx context.Context, projectID, userID string) error {
	return m.Called(ctx, projectID, userID).Error(0)
}

func (m *MockMatchingService) Save(ctx context.Context, projectID, userID string) error {
	return m.Called(ctx, projectID, userID).Error(0)
}

func (m *MockMatchingService) ListSaved(ctx context.Context, userID string) ([]*domain.Project, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).([]*domain.Project)
	return p, args.Error(1)
}

func (m *MockMatchingService) ListApplications(ctx context.Context, projectID, actorID string) (*domain.ProjectApplications, error) {
	args := m.Called(ctx, projectID, actorID)
	p, _ := args.Get(0).(*domain.ProjectApplications)
	return p, args.Error(1)
}

func (m *MockMatchingService) DecideApplication(ctx context.Context, projectID, applicationID, actorID, status string) (*domain.Application, error) {
	args := m.Called(ctx, projectID, applicationID, actorID, status)
	a, _ := args.Get(0).(*domain.Application)
	return a, args.Error(1)
}

func (m *MockMatchingService) ListMyApplications(ctx context.Context, userID string, page, limit int) (*domain.PageResult[*domain.UserApplication], error) {
	args := m.Called(ctx, userID, page, limit)
	res, _ := args.Get(0).(*domain.PageResult[*domain.UserApplication])
	return res, args.Error(1)
}

type MockNotificationService struct{ mock.Mock }

func (m *MockNotificationService) List(ctx context.Context, userID string) (*service.Inbox, error) {
	args := m.Called(ctx, userID)
	in, _ := args.Get(0).(*service.Inbox)
	return in, args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MockStatsService struct{ mock.Mock }

func (m *MockStatsService) GetStats(ctx context.Context) (*service.Stats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*service.Stats)
	return s, args.Error(1)
}

func (m *MockStatsService) GetUserStats(ctx context.Context, userID string) (*service.UserStats, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*service.UserStats)
	return s, args.Error(1)
}

type MockStream struct{ mock.Mock }

func (m *MockStream) Serve(w http.ResponseWriter, r *http.Request, userID string) {
	m.Called(userID)
	w.WriteHeader(http.StatusOK)
}
