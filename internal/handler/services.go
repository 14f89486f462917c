package handler

import (
	"context"
	"net/http"

	"github.com/aidar/nexus-api/internal/domain"
	"github.com/aidar/nexus-api/internal/service"
)

// Интерфейсы сервисов, от которых зависят обработчики.
// Реализации находятся в пакете service.

// AuthService регистрация и вход
type AuthService interface {
	Signup(ctx context.Context, in service.SignupInput) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
}

// UserService профили пользователей
type UserService interface {
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	List(ctx context.Context, page, limit int) (*domain.PageResult[*domain.User], error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
}

// ProjectService CRUD проектов
type ProjectService interface {
	Create(ctx context.Context, actorID string, in service.CreateProjectInput) (*domain.Project, error)
	GetByID(ctx context.Context, projectID string) (*domain.Project, error)
	List(ctx context.Context, page, limit int) (*domain.PageResult[*domain.Project], error)
	ListMine(ctx context.Context, actorID string, page, limit int) (*domain.PageResult[*domain.Project], error)
	Update(ctx context.Context, projectID, actorID string, update domain.ProjectUpdate) (*domain.Project, error)
	Delete(ctx context.Context, projectID, actorID string) error
}

// MatchingService лента и заявки
type MatchingService interface {
	Discover(ctx context.Context, userID string) ([]*domain.Project, error)
	Apply(ctx context.Context, projectID, userID string) (*domain.Application, error)
	Skip(ctx context.Context, projectID, userID string) error
	Save(ctx context.Context, projectID, userID string) error
	ListSaved(ctx context.Context, userID string) ([]*domain.Project, error)
	ListApplications(ctx context.Context, projectID, actorID string) (*domain.ProjectApplications, error)
	DecideApplication(ctx context.Context, projectID, applicationID, actorID, status string) (*domain.Application, error)
	ListMyApplications(ctx context.Context, userID string, page, limit int) (*domain.PageResult[*domain.UserApplication], error)
}

// NotificationService почтовый ящик пользователя
type NotificationService interface {
	List(ctx context.Context, userID string) (*service.Inbox, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
}

// StatsService статистика платформы
type StatsService interface {
	GetStats(ctx context.Context) (*service.Stats, error)
	GetUserStats(ctx context.Context, userID string) (*service.UserStats, error)
}

// NotificationStream WebSocket поток уведомлений
type NotificationStream interface {
	Serve(w http.ResponseWriter, r *http.Request, userID string)
}
