package domain

import (
	"fmt"
	"time"
)

// NotificationTypeApplicationStatus тип уведомления об изменении статуса заявки
const NotificationTypeApplicationStatus = "application_status"

// Notification представляет сообщение в почтовом ящике пользователя
type Notification struct {
	NotificationID string      `json:"_id"`
	UserID         string      `json:"-"`
	Type           string      `json:"type"`
	Message        string      `json:"message"`
	RelatedProject *ProjectRef `json:"relatedProject"`
	Read           bool        `json:"read"`
	Timestamp      time.Time   `json:"timestamp"`
}

// NotificationEvent представляет намерение доставить уведомление (запись outbox)
type NotificationEvent struct {
	EventID          string
	UserID           string
	Type             string
	Message          string
	RelatedProjectID string
	Attempts         int
	CreatedAt        time.Time
}

// Notification строит уведомление из события; ID уведомления совпадает с ID события
func (e *NotificationEvent) Notification() *Notification {
	n := &Notification{
		NotificationID: e.EventID,
		UserID:         e.UserID,
		Type:           e.Type,
		Message:        e.Message,
		Timestamp:      e.CreatedAt,
	}
	if e.RelatedProjectID != "" {
		n.RelatedProject = &ProjectRef{ProjectID: e.RelatedProjectID}
	}
	return n
}

// ApplicationStatusMessage формирует текст уведомления для заявителя
func ApplicationStatusMessage(projectTitle string, status ApplicationStatus) string {
	return fmt.Sprintf("Your application for '%s' was %s.", projectTitle, status)
}
