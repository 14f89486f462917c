package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/nexus-api/internal/domain"
)

// SwipeRepository реализует repository.SwipeRepository для PostgreSQL
type SwipeRepository struct {
	db *pgxpool.Pool
}

// NewSwipeRepository создает новый экземпляр SwipeRepository
func NewSwipeRepository(db *pgxpool.Pool) *SwipeRepository {
	return &SwipeRepository{db: db}
}

// Skip добавляет проект в список пропущенных; повторный пропуск ничего не меняет
func (r *SwipeRepository) Skip(ctx context.Context, userID, projectID string) error {
	query := `
		INSERT INTO skipped_projects (user_id, project_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, project_id) DO NOTHING
	`
	return r.insertPair(ctx, query, userID, projectID)
}

// SkippedProjectIDs возвращает пропущенные проекты в порядке добавления
func (r *SwipeRepository) SkippedProjectIDs(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT project_id
		FROM skipped_projects
		WHERE user_id = $1
		ORDER BY skipped_at, project_id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Save добавляет проект в закладки; повторное сохранение ничего не меняет
func (r *SwipeRepository) Save(ctx context.Context, userID, projectID string) error {
	query := `
		INSERT INTO saved_projects (user_id, project_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, project_id) DO NOTHING
	`
	return r.insertPair(ctx, query, userID, projectID)
}

// ListSaved возвращает сохраненные проекты, последние сохраненные первыми
func (r *SwipeRepository) ListSaved(ctx context.Context, userID string) ([]*domain.Project, error) {
	query := projectSelect + `
		INNER JOIN saved_projects sp ON sp.project_id = p.project_id
		WHERE sp.user_id = $1
		ORDER BY sp.saved_at DESC, p.project_id
	`
	return queryProjects(ctx, r.db, query, userID)
}

func (r *SwipeRepository) insertPair(ctx context.Context, query, userID, projectID string) error {
	_, err := r.db.Exec(ctx, query, userID, projectID)
	if err != nil {
		if isForeignKeyViolation(err) {
			// Either side of the pair is missing; the user is checked by the caller
			return domain.ErrProjectNotFound
		}
		if isInvalidID(err) {
			return domain.ErrProjectNotFound
		}
		return err
	}
	return nil
}
