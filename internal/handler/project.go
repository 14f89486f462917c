package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/aidar/nexus-api/internal/domain"
	"github.com/aidar/nexus-api/internal/middleware"
	"github.com/aidar/nexus-api/internal/service"
)

// ProjectHandler обрабатывает CRUD эндпоинты проектов
type ProjectHandler struct {
	projectService ProjectService
}

// NewProjectHandler создает новый ProjectHandler
func NewProjectHandler(projectService ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProjectRequest представляет тело запроса на создание проекта.
// Создатель, статус и заявки берутся не из тела.
type CreateProjectRequest struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Description    string   `json:"description" validate:"required,max=5000"`
	Category       string   `json:"category" validate:"max=100"`
	ProjectType    string   `json:"projectType" validate:"max=100"`
	Location       string   `json:"location" validate:"max=200"`
	SkillsRequired []string `json:"skillsRequired" validate:"max=50,dive,required,max=100"`
	MaxMembers     int      `json:"maxMembers" validate:"min=0"`
}

// UpdateProjectRequest представляет тело запроса на изменение проекта
type UpdateProjectRequest struct {
	Title          *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description    *string  `json:"description" validate:"omitempty,min=1,max=5000"`
	Category       *string  `json:"category" validate:"omitempty,max=100"`
	ProjectType    *string  `json:"projectType" validate:"omitempty,max=100"`
	Location       *string  `json:"location" validate:"omitempty,max=200"`
	SkillsRequired []string `json:"skillsRequired" validate:"omitempty,max=50,dive,required,max=100"`
	MaxMembers     *int     `json:"maxMembers" validate:"omitempty,min=0"`
	Status         *string  `json:"status"`
}

func (req UpdateProjectRequest) toUpdate() domain.ProjectUpdate {
	update := domain.ProjectUpdate{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		ProjectType:    req.ProjectType,
		Location:       req.Location,
		SkillsRequired: req.SkillsRequired,
		MaxMembers:     req.MaxMembers,
	}
	if req.Status != nil {
		status := domain.ProjectStatus(*req.Status)
		update.Status = &status
	}
	return update
}

// List обрабатывает GET /api/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	result, err := h.projectService.List(r.Context(), page, limit)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondPage(w, r, "projects", result)
}

// ListMine обрабатывает GET /api/projects/my-projects
func (h *ProjectHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	userID := middleware.GetUserIDFromContext(r.Context())

	result, err := h.projectService.ListMine(r.Context(), userID, page, limit)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondPage(w, r, "projects", result)
}

// Create обрабатывает POST /api/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	project, err := h.projectService.Create(r.Context(), userID, service.CreateProjectInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		ProjectType:    req.ProjectType,
		Location:       req.Location,
		SkillsRequired: req.SkillsRequired,
		MaxMembers:     req.MaxMembers,
	})
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondSuccess(w, r, http.StatusCreated, render.M{"data": render.M{"project": project}})
}

// GetByID обрабатывает GET /api/projects/{id}
func (h *ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(r.Context(), projectID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondSuccess(w, r, http.StatusOK, render.M{"data": render.M{"project": project}})
}

// Update обрабатывает PATCH /api/projects/{id} (только создатель)
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	project, err := h.projectService.Update(r.Context(), projectID, userID, req.toUpdate())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondSuccess(w, r, http.StatusOK, render.M{"data": render.M{"project": project}})
}

// Delete обрабатывает DELETE /api/projects/{id} (только создатель)
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	if err := h.projectService.Delete(r.Context(), projectID, userID); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
