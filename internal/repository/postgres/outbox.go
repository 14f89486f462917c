package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/nexus-api/internal/domain"
	"github.com/aidar/nexus-api/internal/repository"
)

// OutboxRepository реализует repository.OutboxRepository для PostgreSQL
type OutboxRepository struct {
	db *pgxpool.Pool
}

// NewOutboxRepository создает новый экземпляр OutboxRepository
func NewOutboxRepository(db *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// DeliverPending переносит готовые события outbox в почтовые ящики получателей.
// Несколько процессов могут вызывать метод одновременно: строки блокируются с SKIP LOCKED.
func (r *OutboxRepository) DeliverPending(
	ctx context.Context,
	limit, maxAttempts int,
	backoff func(attempts int) time.Duration,
) (*repository.DeliveryReport, error) {
	report := &repository.DeliveryReport{}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore error as it will fail if transaction was committed
	}()

	events, err := claimEvents(ctx, tx, limit)
	if err != nil {
		return nil, err
	}

	for _, event := range events {
		n, err := deliverEvent(ctx, tx, event)
		switch {
		case err == nil:
			report.Delivered = append(report.Delivered, n)
			continue
		case isForeignKeyViolation(err):
			// Recipient no longer exists: nothing to retry
			err = fmt.Errorf("%w: %s", domain.ErrUserNotFound, event.UserID)
			if dropErr := deleteEvent(ctx, tx, event.EventID); dropErr != nil {
				return nil, dropErr
			}
			report.Dropped = append(report.Dropped, repository.FailedEvent{Event: event, Err: err})
			continue
		}

		event.Attempts++
		if event.Attempts >= maxAttempts {
			if dropErr := deleteEvent(ctx, tx, event.EventID); dropErr != nil {
				return nil, dropErr
			}
			report.Dropped = append(report.Dropped, repository.FailedEvent{Event: event, Err: err})
			continue
		}

		delay := backoff(event.Attempts)
		_, updErr := tx.Exec(ctx, `
			UPDATE notification_outbox
			SET attempts = $1, last_error = $2, available_at = NOW() + make_interval(secs => $3)
			WHERE event_id = $4
		`, event.Attempts, err.Error(), delay.Seconds(), event.EventID)
		if updErr != nil {
			return nil, updErr
		}
		report.Retried = append(report.Retried, repository.FailedEvent{Event: event, Err: err})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return report, nil
}

func claimEvents(ctx context.Context, tx pgx.Tx, limit int) ([]*domain.NotificationEvent, error) {
	query := `
		SELECT event_id, user_id, type, message, COALESCE(related_project_id::text, ''), attempts, created_at
		FROM notification_outbox
		WHERE available_at <= NOW()
		ORDER BY created_at, event_id
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`

	rows, err := tx.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.NotificationEvent
	for rows.Next() {
		var e domain.NotificationEvent
		if err := rows.Scan(&e.EventID, &e.UserID, &e.Type, &e.Message, &e.RelatedProjectID, &e.Attempts, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}

	return events, rows.Err()
}

// deliverEvent сохраняет уведомление внутри savepoint, чтобы ошибка одного события
// не прерывала всю транзакцию
func deliverEvent(ctx context.Context, tx pgx.Tx, event *domain.NotificationEvent) (*domain.Notification, error) {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = sp.Rollback(ctx)
	}()

	// notification_id = event_id makes redelivery a no-op
	_, err = sp.Exec(ctx, `
		INSERT INTO notifications (notification_id, user_id, type, message, related_project_id, read, created_at)
		SELECT $1::uuid, $2::uuid, $3::text, $4::text, p.project_id, FALSE, $6::timestamptz
		FROM (SELECT 1) AS one
		LEFT JOIN projects p ON p.project_id = NULLIF($5, '')::uuid
		ON CONFLICT (notification_id) DO NOTHING
	`, event.EventID, event.UserID, event.Type, event.Message, event.RelatedProjectID, event.CreatedAt)
	if err != nil {
		return nil, err
	}

	if _, err := sp.Exec(ctx, `DELETE FROM notification_outbox WHERE event_id = $1`, event.EventID); err != nil {
		return nil, err
	}

	if err := sp.Commit(ctx); err != nil {
		return nil, err
	}

	return event.Notification(), nil
}

func deleteEvent(ctx context.Context, tx pgx.Tx, eventID string) error {
	_, err := tx.Exec(ctx, `DELETE FROM notification_outbox WHERE event_id = $1`, eventID)
	return err
}
