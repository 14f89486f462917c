package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/nexus-api/internal/domain"
)

// NotificationRepository реализует repository.NotificationRepository для PostgreSQL
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository создает новый экземпляр NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// ListByUser возвращает уведомления пользователя в хронологическом порядке
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	query := `
		SELECT n.notification_id, n.user_id, n.type, n.message, n.read, n.created_at,
		       p.project_id, p.title
		FROM notifications n
		LEFT JOIN projects p ON p.project_id = n.related_project_id
		WHERE n.user_id = $1
		ORDER BY n.created_at, n.notification_id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []*domain.Notification{}
	for rows.Next() {
		var (
			n            domain.Notification
			projectID    *string
			projectTitle *string
		)
		if err := rows.Scan(
			&n.NotificationID,
			&n.UserID,
			&n.Type,
			&n.Message,
			&n.Read,
			&n.Timestamp,
			&projectID,
			&projectTitle,
		); err != nil {
			return nil, err
		}
		if projectID != nil {
			n.RelatedProject = &domain.ProjectRef{ProjectID: *projectID}
			if projectTitle != nil {
				n.RelatedProject.Title = *projectTitle
			}
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

// MarkRead помечает уведомление прочитанным (идемпотентно)
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID string) error {
	query := `
		UPDATE notifications
		SET read = TRUE
		WHERE notification_id = $1 AND user_id = $2
	`

	result, err := r.db.Exec(ctx, query, notificationID, userID)
	if err != nil {
		if isInvalidID(err) {
			return domain.ErrNotificationNotFound
		}
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead помечает все непрочитанные уведомления пользователя прочитанными
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

// CountUnread возвращает количество непрочитанных уведомлений
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`,
		userID,
	).Scan(&count)
	return count, err
}
