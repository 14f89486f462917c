package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/nexus-api/internal/domain"
)

// ApplicationRepository реализует repository.ApplicationRepository для PostgreSQL
type ApplicationRepository struct {
	db *pgxpool.Pool
}

// NewApplicationRepository создает новый экземпляр ApplicationRepository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create атомарно добавляет заявку. Уникальность пары (проект, пользователь)
// обеспечивается ограничением UNIQUE, поэтому два параллельных запроса не создадут дубликат.
func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (application_id, project_id, user_id, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_id, user_id) DO NOTHING
		RETURNING applied_at
	`

	err := r.db.QueryRow(ctx, query,
		app.ApplicationID,
		app.ProjectID,
		app.Applicant.UserID,
		app.Status,
	).Scan(&app.AppliedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Nothing inserted: the pair already exists
			return domain.ErrAlreadyApplied
		}
		if isForeignKeyViolation(err) {
			return domain.ErrProjectNotFound
		}
		return err
	}

	return nil
}

// Decide переводит заявку из pending в status и записывает событие уведомления в одной транзакции
func (r *ApplicationRepository) Decide(
	ctx context.Context,
	projectID, applicationID string,
	status domain.ApplicationStatus,
	event *domain.NotificationEvent,
) (*domain.Application, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore error as it will fail if transaction was committed
	}()

	if status == domain.ApplicationAccepted {
		if err := r.reserveSeat(ctx, tx, projectID); err != nil {
			return nil, err
		}
	}

	// Conditional update: only a pending application can be decided
	updateQuery := `
		WITH updated AS (
			UPDATE applications
			SET status = $1, updated_at = NOW()
			WHERE application_id = $2 AND project_id = $3 AND status = 'pending'
			RETURNING application_id, project_id, status, applied_at, user_id
		)
		SELECT up.application_id, up.project_id, up.status, up.applied_at,
		       u.user_id, u.user_name, u.email, u.profile_picture
		FROM updated up
		INNER JOIN users u ON u.user_id = up.user_id
	`

	app, err := scanApplication(tx.QueryRow(ctx, updateQuery, status, applicationID, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.decideMiss(ctx, tx, projectID, applicationID)
		}
		return nil, err
	}

	if event != nil {
		event.UserID = app.Applicant.UserID
		outboxQuery := `
			INSERT INTO notification_outbox (event_id, user_id, type, message, related_project_id)
			VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid)
			RETURNING created_at
		`
		err = tx.QueryRow(ctx, outboxQuery,
			event.EventID,
			event.UserID,
			event.Type,
			event.Message,
			event.RelatedProjectID,
		).Scan(&event.CreatedAt)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return app, nil
}

// reserveSeat блокирует строку проекта до конца транзакции и проверяет лимит участников.
// Параллельные принятия заявок одного проекта выполняются по очереди.
func (r *ApplicationRepository) reserveSeat(ctx context.Context, tx pgx.Tx, projectID string) error {
	var maxMembers int
	err := tx.QueryRow(ctx,
		`SELECT max_members FROM projects WHERE project_id = $1 FOR NO KEY UPDATE`,
		projectID,
	).Scan(&maxMembers)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrProjectNotFound
		}
		return err
	}

	// 0 means no limit
	if maxMembers == 0 {
		return nil
	}

	var accepted int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM applications WHERE project_id = $1 AND status = 'accepted'`,
		projectID,
	).Scan(&accepted)
	if err != nil {
		return err
	}

	if accepted >= maxMembers {
		return domain.ErrProjectFull
	}
	return nil
}

// decideMiss определяет, почему условное обновление не затронуло ни одной строки
func (r *ApplicationRepository) decideMiss(ctx context.Context, tx pgx.Tx, projectID, applicationID string) error {
	var current domain.ApplicationStatus
	err := tx.QueryRow(ctx,
		`SELECT status FROM applications WHERE application_id = $1 AND project_id = $2`,
		applicationID, projectID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrApplicationNotFound
		}
		return err
	}
	return domain.ErrApplicationFinalized
}

// ListByApplicant возвращает страницу заявок пользователя, новые проекты первыми
func (r *ApplicationRepository) ListByApplicant(ctx context.Context, userID string, page domain.Page) ([]*domain.UserApplication, int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT p.project_id, p.title, p.description, p.category, p.project_type,
		       c.user_id, c.user_name, c.profile_picture,
		       a.application_id, a.status, a.applied_at
		FROM applications a
		INNER JOIN projects p ON p.project_id = a.project_id
		INNER JOIN users c ON c.user_id = p.creator_id
		WHERE a.user_id = $1
		ORDER BY p.created_at DESC, p.project_id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := []*domain.UserApplication{}
	for rows.Next() {
		var ua domain.UserApplication
		if err := rows.Scan(
			&ua.Project.ProjectID,
			&ua.Project.Title,
			&ua.Project.Description,
			&ua.Project.Category,
			&ua.Project.ProjectType,
			&ua.Project.Creator.UserID,
			&ua.Project.Creator.UserName,
			&ua.Project.Creator.ProfilePicture,
			&ua.Application.ApplicationID,
			&ua.Application.Status,
			&ua.Application.AppliedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, &ua)
	}

	return result, total, rows.Err()
}
