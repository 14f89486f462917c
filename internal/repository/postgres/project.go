package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/nexus-api/internal/domain"
)

const projectSelect = `
	SELECT p.project_id, p.title, p.description, p.category, p.project_type, p.location,
	       p.skills_required, p.max_members, p.status, p.created_at, p.updated_at,
	       u.user_id, u.user_name, u.profile_picture
	FROM projects p
	INNER JOIN users u ON u.user_id = p.creator_id
`

// ProjectRepository реализует repository.ProjectRepository для PostgreSQL
type ProjectRepository struct {
	db *pgxpool.Pool
}

// NewProjectRepository создает новый экземпляр ProjectRepository
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create создает новый проект
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (project_id, title, description, category, project_type, location,
			skills_required, max_members, creator_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		project.ProjectID,
		project.Title,
		project.Description,
		project.Category,
		project.ProjectType,
		project.Location,
		nonNilStrings(project.SkillsRequired),
		project.MaxMembers,
		project.Creator.UserID,
		project.Status,
	).Scan(&project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return err
	}

	return nil
}

// GetByID получает проект вместе с заявками и данными создателя
func (r *ProjectRepository) GetByID(ctx context.Context, projectID string) (*domain.Project, error) {
	query := projectSelect + ` WHERE p.project_id = $1`

	project, err := scanProject(r.db.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}

	if err := attachApplications(ctx, r.db, []*domain.Project{project}); err != nil {
		return nil, err
	}

	return project, nil
}

// Update сохраняет описательные поля и статус проекта (создатель не меняется)
func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	query := `
		UPDATE projects
		SET title = $1, description = $2, category = $3, project_type = $4, location = $5,
		    skills_required = $6, max_members = $7, status = $8, updated_at = NOW()
		WHERE project_id = $9
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		project.Title,
		project.Description,
		project.Category,
		project.ProjectType,
		project.Location,
		nonNilStrings(project.SkillsRequired),
		project.MaxMembers,
		project.Status,
		project.ProjectID,
	).Scan(&project.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return domain.ErrProjectNotFound
		}
		return err
	}

	return nil
}

// Delete удаляет проект; заявки, пропуски и закладки удаляются каскадно
func (r *ProjectRepository) Delete(ctx context.Context, projectID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM projects WHERE project_id = $1`, projectID)
	if err != nil {
		if isInvalidID(err) {
			return domain.ErrProjectNotFound
		}
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}

	return nil
}

// List возвращает страницу всех проектов, новые первыми
func (r *ProjectRepository) List(ctx context.Context, page domain.Page) ([]*domain.Project, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := projectSelect + ` ORDER BY p.created_at DESC, p.project_id LIMIT $1 OFFSET $2`

	projects, err := r.query(ctx, query, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// ListByCreator возвращает страницу проектов создателя, новые первыми
func (r *ProjectRepository) ListByCreator(ctx context.Context, creatorID string, page domain.Page) ([]*domain.Project, int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects WHERE creator_id = $1`, creatorID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := projectSelect + `
		WHERE p.creator_id = $1
		ORDER BY p.created_at DESC, p.project_id
		LIMIT $2 OFFSET $3
	`

	projects, err := r.query(ctx, query, creatorID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// ListDiscoverable возвращает открытые проекты, доступные пользователю в ленте.
// Все условия исключения применяются одним запросом.
func (r *ProjectRepository) ListDiscoverable(ctx context.Context, userID string) ([]*domain.Project, error) {
	query := projectSelect + `
		WHERE p.creator_id <> $1
		  AND p.status = 'open'
		  AND NOT EXISTS (
		      SELECT 1 FROM skipped_projects s
		      WHERE s.user_id = $1 AND s.project_id = p.project_id
		  )
		  AND NOT EXISTS (
		      SELECT 1 FROM applications a
		      WHERE a.user_id = $1 AND a.project_id = p.project_id
		  )
		ORDER BY p.created_at, p.project_id
	`

	return r.query(ctx, query, userID)
}

// Exists проверяет существование проекта
func (r *ProjectRepository) Exists(ctx context.Context, projectID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM projects WHERE project_id = $1)`

	var exists bool
	err := r.db.QueryRow(ctx, query, projectID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return false, nil
		}
		return false, err
	}

	return exists, nil
}

func (r *ProjectRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Project, error) {
	return queryProjects(ctx, r.db, query, args...)
}

// queryProjects выполняет запрос на основе projectSelect и подгружает заявки
func queryProjects(ctx context.Context, db *pgxpool.Pool, query string, args ...any) ([]*domain.Project, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []*domain.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachApplications(ctx, db, projects); err != nil {
		return nil, err
	}

	return projects, nil
}

// attachApplications загружает заявки для набора проектов одним запросом
func attachApplications(ctx context.Context, db *pgxpool.Pool, projects []*domain.Project) error {
	if len(projects) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Project, len(projects))
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		p.Applications = []domain.Application{}
		byID[p.ProjectID] = p
		ids = append(ids, p.ProjectID)
	}

	query := `
		SELECT a.application_id, a.project_id, a.status, a.applied_at,
		       u.user_id, u.user_name, u.email, u.profile_picture
		FROM applications a
		INNER JOIN users u ON u.user_id = a.user_id
		WHERE a.project_id = ANY($1::uuid[])
		ORDER BY a.applied_at, a.application_id
	`

	rows, err := db.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return err
		}
		if p, ok := byID[app.ProjectID]; ok {
			p.Applications = append(p.Applications, *app)
		}
	}

	return rows.Err()
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ProjectID,
		&p.Title,
		&p.Description,
		&p.Category,
		&p.ProjectType,
		&p.Location,
		&p.SkillsRequired,
		&p.MaxMembers,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Creator.UserID,
		&p.Creator.UserName,
		&p.Creator.ProfilePicture,
	)
	if err != nil {
		return nil, err
	}
	p.SkillsRequired = nonNilStrings(p.SkillsRequired)
	p.Applications = []domain.Application{}
	return &p, nil
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	err := row.Scan(
		&app.ApplicationID,
		&app.ProjectID,
		&app.Status,
		&app.AppliedAt,
		&app.Applicant.UserID,
		&app.Applicant.UserName,
		&app.Applicant.Email,
		&app.Applicant.ProfilePicture,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
