package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/nexus-api/internal/domain"
)

// UserStats represents matching activity of a single user
type UserStats struct {
	UserID               string `json:"_id"`
	UserName             string `json:"userName"`
	ProjectsCreated      int    `json:"projectsCreated"`
	ApplicationsSent     int    `json:"applicationsSent"`
	ApplicationsAccepted int    `json:"applicationsAccepted"`
	ApplicationsPending  int    `json:"applicationsPending"`
	IncomingPending      int    `json:"incomingPending"`
	UnreadNotifications  int    `json:"unreadNotifications"`
}

// ProjectStats represents project counts by status
type ProjectStats struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	OnHold     int `json:"onHold"`
}

// ApplicationStats represents application counts by status
type ApplicationStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// Stats represents combined platform statistics
type Stats struct {
	TotalUsers   int              `json:"totalUsers"`
	Projects     ProjectStats     `json:"projects"`
	Applications ApplicationStats `json:"applications"`
}

// StatsService handles statistics queries
type StatsService struct {
	db *pgxpool.Pool
}

// NewStatsService creates a new StatsService
func NewStatsService(db *pgxpool.Pool) *StatsService {
	return &StatsService{db: db}
}

// GetStats returns platform-wide statistics
func (s *StatsService) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.TotalUsers); err != nil {
		return nil, err
	}

	projectQuery := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'open'),
			COUNT(*) FILTER (WHERE status = 'in-progress'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'on-hold')
		FROM projects
	`

	if err := s.db.QueryRow(ctx, projectQuery).Scan(
		&stats.Projects.Total,
		&stats.Projects.Open,
		&stats.Projects.InProgress,
		&stats.Projects.Completed,
		&stats.Projects.OnHold,
	); err != nil {
		return nil, err
	}

	applicationQuery := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'accepted'),
			COUNT(*) FILTER (WHERE status = 'rejected')
		FROM applications
	`

	if err := s.db.QueryRow(ctx, applicationQuery).Scan(
		&stats.Applications.Total,
		&stats.Applications.Pending,
		&stats.Applications.Accepted,
		&stats.Applications.Rejected,
	); err != nil {
		return nil, err
	}

	return stats, nil
}

// GetUserStats returns statistics for a specific user
func (s *StatsService) GetUserStats(ctx context.Context, userID string) (*UserStats, error) {
	query := `
		SELECT
			u.user_id,
			u.user_name,
			(SELECT COUNT(*) FROM projects p WHERE p.creator_id = u.user_id),
			(SELECT COUNT(*) FROM applications a WHERE a.user_id = u.user_id),
			(SELECT COUNT(*) FROM applications a WHERE a.user_id = u.user_id AND a.status = 'accepted'),
			(SELECT COUNT(*) FROM applications a WHERE a.user_id = u.user_id AND a.status = 'pending'),
			(SELECT COUNT(*) FROM applications a
				INNER JOIN projects p ON p.project_id = a.project_id
				WHERE p.creator_id = u.user_id AND a.status = 'pending'),
			(SELECT COUNT(*) FROM notifications n WHERE n.user_id = u.user_id AND NOT n.read)
		FROM users u
		WHERE u.user_id = $1
	`

	var stats UserStats
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&stats.UserID,
		&stats.UserName,
		&stats.ProjectsCreated,
		&stats.ApplicationsSent,
		&stats.ApplicationsAccepted,
		&stats.ApplicationsPending,
		&stats.IncomingPending,
		&stats.UnreadNotifications,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return &stats, nil
}
