package repository

import (
	"context"
	"time"

	"github.com/aidar/nexus-api/internal/domain"
)

// UserRepository определяет методы для работы с данными пользователей
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID получает пользователя по ID
	GetByID(ctx context.Context, userID string) (*domain.User, error)

	// GetByEmail получает пользователя по email (для логина)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List возвращает страницу пользователей
	List(ctx context.Context, page domain.Page) ([]*domain.User, int, error)

	// UpdateProfile сохраняет поля профиля пользователя
	UpdateProfile(ctx context.Context, user *domain.User) error

	// Exists проверяет существование пользователя
	Exists(ctx context.Context, userID string) (bool, error)
}

// ProjectRepository определяет методы для работы с данными проектов
type ProjectRepository interface {
	// Create создает новый проект
	Create(ctx context.Context, project *domain.Project) error

	// GetByID получает проект вместе с заявками и данными создателя
	GetByID(ctx context.Context, projectID string) (*domain.Project, error)

	// Update сохраняет описательные поля и статус проекта
	Update(ctx context.Context, project *domain.Project) error

	// Delete удаляет проект (заявки удаляются каскадно)
	Delete(ctx context.Context, projectID string) error

	// List возвращает страницу всех проектов, новые первыми
	List(ctx context.Context, page domain.Page) ([]*domain.Project, int, error)

	// ListByCreator возвращает страницу проектов создателя, новые первыми
	ListByCreator(ctx context.Context, creatorID string, page domain.Page) ([]*domain.Project, int, error)

	// ListDiscoverable возвращает открытые проекты, которые пользователь еще не видел:
	// исключаются свои, пропущенные и проекты с его заявкой
	ListDiscoverable(ctx context.Context, userID string) ([]*domain.Project, error)

	// Exists проверяет существование проекта
	Exists(ctx context.Context, projectID string) (bool, error)
}

// ApplicationRepository определяет методы для работы с заявками
type ApplicationRepository interface {
	// Create атомарно добавляет заявку; возвращает ErrAlreadyApplied если заявка уже есть
	Create(ctx context.Context, app *domain.Application) error

	// Decide атомарно переводит заявку из pending в status и записывает событие уведомления
	// в той же транзакции. Возвращает ErrApplicationFinalized если заявка уже не pending
	// и ErrProjectFull если принятие превысит лимит участников проекта.
	Decide(ctx context.Context, projectID, applicationID string, status domain.ApplicationStatus, event *domain.NotificationEvent) (*domain.Application, error)

	// ListByApplicant возвращает страницу заявок пользователя вместе с проектами
	ListByApplicant(ctx context.Context, userID string, page domain.Page) ([]*domain.UserApplication, int, error)
}

// SwipeRepository определяет методы для пропущенных и сохраненных проектов
type SwipeRepository interface {
	// Skip добавляет проект в список пропущенных (идемпотентно)
	Skip(ctx context.Context, userID, projectID string) error

	// SkippedProjectIDs возвращает пропущенные проекты в порядке добавления
	SkippedProjectIDs(ctx context.Context, userID string) ([]string, error)

	// Save добавляет проект в закладки (идемпотентно)
	Save(ctx context.Context, userID, projectID string) error

	// ListSaved возвращает сохраненные проекты, последние сохраненные первыми
	ListSaved(ctx context.Context, userID string) ([]*domain.Project, error)
}

// NotificationRepository определяет методы для работы с почтовым ящиком пользователя
type NotificationRepository interface {
	// ListByUser возвращает уведомления пользователя в хронологическом порядке
	ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error)

	// MarkRead помечает уведомление прочитанным
	MarkRead(ctx context.Context, userID, notificationID string) error

	// MarkAllRead помечает все уведомления пользователя прочитанными
	MarkAllRead(ctx context.Context, userID string) (int, error)

	// CountUnread возвращает количество непрочитанных уведомлений
	CountUnread(ctx context.Context, userID string) (int, error)
}

// OutboxRepository определяет методы доставки событий уведомлений
type OutboxRepository interface {
	// DeliverPending забирает до limit готовых к доставке событий (FOR UPDATE SKIP LOCKED),
	// превращает их в уведомления и удаляет из outbox в одной транзакции.
	// Неудачные события откладываются на backoff(attempts), после maxAttempts удаляются.
	DeliverPending(ctx context.Context, limit, maxAttempts int, backoff func(attempts int) time.Duration) (*DeliveryReport, error)
}

// DeliveryReport описывает результат одного прохода доставки
type DeliveryReport struct {
	Delivered []*domain.Notification // Уведомления, сохраненные в почтовые ящики
	Dropped   []FailedEvent          // События, удаленные без доставки
	Retried   []FailedEvent          // События, отложенные для повторной попытки
}

// FailedEvent связывает событие с причиной неудачи
type FailedEvent struct {
	Event *domain.NotificationEvent
	Err   error
}

// Empty возвращает true если в проходе не было обработано ни одного события
func (r *DeliveryReport) Empty() bool {
	return len(r.Delivered) == 0 && len(r.Dropped) == 0 && len(r.Retried) == 0
}
