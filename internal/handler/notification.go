package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/aidar/nexus-api/internal/domain"
	"github.com/aidar/nexus-api/internal/middleware"
)

// NotificationHandler обрабатывает эндпоинты почтового ящика
type NotificationHandler struct {
	notificationService NotificationService
	stream              NotificationStream
}

// NewNotificationHandler создает новый NotificationHandler. stream может быть nil, если Redis не настроен.
func NewNotificationHandler(notificationService NotificationService, stream NotificationStream) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		stream:              stream,
	}
}

// List обрабатывает GET /api/users/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	inbox, err := h.notificationService.List(r.Context(), userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	notifications := inbox.Notifications
	if notifications == nil {
		notifications = []*domain.Notification{}
	}

	RespondSuccess(w, r, http.StatusOK, render.M{
		"results": len(notifications),
		"unread":  inbox.Unread,
		"data":    render.M{"notifications": notifications},
	})
}

// MarkRead обрабатывает PATCH /api/users/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	if err := h.notificationService.MarkRead(r.Context(), userID, notificationID); err != nil {
		HandleError(w, r, err)
		return
	}

	RespondSuccess(w, r, http.StatusOK, render.M{"message": "Notification marked as read"})
}

// MarkAllRead обрабатывает PATCH /api/users/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	updated, err := h.notificationService.MarkAllRead(r.Context(), userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondSuccess(w, r, http.StatusOK, render.M{"updated": updated})
}

// Stream обрабатывает GET /api/users/notifications/stream (WebSocket)
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if h.stream == nil {
		RespondWithError(w, r, http.StatusServiceUnavailable, "UNAVAILABLE", "realtime notifications are disabled")
		return
	}

	h.stream.Serve(w, r, middleware.GetUserIDFromContext(r.Context()))
}
