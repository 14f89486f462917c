package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/aidar/nexus-api/internal/domain"
	"github.com/aidar/nexus-api/internal/middleware"
)

// MatchingHandler обрабатывает ленту проектов и заявки
type MatchingHandler struct {
	matchingService MatchingService
}

// NewMatchingHandler создает новый MatchingHandler
func NewMatchingHandler(matchingService MatchingService) *MatchingHandler {
	return &MatchingHandler{
		matchingService: matchingService,
	}
}

// DecisionRequest представляет тело запроса на решение по заявке.
// Значение статуса проверяет сервис, после проверки прав создателя.
type DecisionRequest struct {
	Status string `json:"status"`
}

// Discover обрабатывает GET /api/projects/fetch и /api/projects/discover
func (h *MatchingHandler) Discover(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	projects, err := h.matchingService.Discover(r.Context(), userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondList(w, r, "projects", projects)
}

// Apply обрабатывает POST /api/projects/{id}/apply
func (h *MatchingHandler) Apply(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	app, err := h.matchingService.Apply(r.Context(), projectID, userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondSuccess(w, r, http.StatusOK, render.M{
		"message": "Application submitted successfully",
		"data":    render.M{"application": app},
	})
}

// Skip обрабатывает POST /api/projects/{id}/skip
func (h *MatchingHandler) Skip(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	if err := h.matchingService.Skip(r.Context(), projectID, userID); err != nil {
		HandleError(w, r, err)
		return
	}

	RespondSuccess(w, r, http.StatusOK, render.M{"message": "Project skipped"})
}

// Save обрабатывает POST /api/projects/{id}/save
func (h *MatchingHandler) Save(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	if err := h.matchingService.Save(r.Context(), projectID, userID); err != nil {
		HandleError(w, r, err)
		return
	}

	RespondSuccess(w, r, http.StatusOK, render.M{"message": "Project saved"})
}

// ListSaved обрабатывает GET /api/projects/saved
func (h *MatchingHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	projects, err := h.matchingService.ListSaved(r.Context(), userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondList(w, r, "projects", projects)
}

// ListApplications обрабатывает GET /api/projects/{id}/applications (только создатель)
func (h *MatchingHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	list, err := h.matchingService.ListApplications(r.Context(), projectID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			RespondWithError(w, r, http.StatusForbidden, string(domain.CodeForbidden),
				"Not authorized to view applications for this project")
			return
		}
		HandleError(w, r, err)
		return
	}

	RespondSuccess(w, r, http.StatusOK, render.M{"data": render.M{"project": list}})
}

// DecideApplication обрабатывает PATCH /api/projects/{id}/applications/{applicationId}
func (h *MatchingHandler) DecideApplication(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	applicationID, ok := pathID(w, r, "applicationId")
	if !ok {
		return
	}

	var req DecisionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	app, err := h.matchingService.DecideApplication(r.Context(), projectID, applicationID, userID, req.Status)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondSuccess(w, r, http.StatusOK, render.M{
		"message": fmt.Sprintf("Application %s successfully", app.Status),
		"data":    render.M{"application": app},
	})
}

// ListMyApplications обрабатывает GET /api/projects/my-applications
func (h *MatchingHandler) ListMyApplications(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	userID := middleware.GetUserIDFromContext(r.Context())

	result, err := h.matchingService.ListMyApplications(r.Context(), userID, page, limit)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondPage(w, r, "applications", result)
}
