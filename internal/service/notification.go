package service

import (
	"context"

	"github.com/aidar/nexus-api/internal/domain"
	"github.com/aidar/nexus-api/internal/repository"
)

// Inbox is a user's mailbox together with its unread counter
type Inbox struct {
	Notifications []*domain.Notification
	Unread        int
}

// NotificationService handles the user's notification mailbox
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository, userRepo repository.UserRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// List returns the user's notifications in chronological order
func (s *NotificationService) List(ctx context.Context, userID string) (*Inbox, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	notifications, err := s.notificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}

	return &Inbox{Notifications: notifications, Unread: unread}, nil
}

// MarkRead marks one notification in the user's mailbox as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.notificationRepo.MarkRead(ctx, userID, notificationID)
}

// MarkAllRead marks every notification of the user as read and returns how many changed
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

// UnreadCount returns the number of unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}
