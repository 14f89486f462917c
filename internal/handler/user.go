package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/aidar/nexus-api/internal/domain"
	"github.com/aidar/nexus-api/internal/middleware"
)

// UserHandler обрабатывает эндпоинты пользователей
type UserHandler struct {
	userService UserService
}

// NewUserHandler создает новый UserHandler
func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// UpdateProfileRequest представляет тело запроса на изменение профиля.
// Отсутствующие поля не меняются.
type UpdateProfileRequest struct {
	UserName       *string `json:"userName" validate:"omitempty,min=1,max=50"`
	ProfileImage   *string `json:"profileImage" validate:"omitempty,url"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,url"`
	DateOfBirth    *string `json:"dateOfBirth"`
	School         *string `json:"school" validate:"omitempty,max=200"`
	FieldOfStudy   *string `json:"fieldOfStudy" validate:"omitempty,max=200"`
	Bio            *string `json:"bio" validate:"omitempty,max=2000"`
}

// toUpdate преобразует запрос в доменное изменение профиля
func (req UpdateProfileRequest) toUpdate() (domain.ProfileUpdate, bool) {
	update := domain.ProfileUpdate{
		UserName:       req.UserName,
		ProfilePicture: req.ProfilePicture,
		School:         req.School,
		FieldOfStudy:   req.FieldOfStudy,
		Bio:            req.Bio,
	}
	if req.ProfileImage != nil {
		update.ProfilePicture = req.ProfileImage
	}
	if req.DateOfBirth != nil {
		dob, ok := parseDate(*req.DateOfBirth)
		if !ok {
			return update, false
		}
		update.DateOfBirth = &dob
	}
	return update, true
}

// parseDate принимает YYYY-MM-DD или RFC3339
func parseDate(raw string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// List обрабатывает GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	result, err := h.userService.List(r.Context(), page, limit)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondPage(w, r, "users", result)
}

// GetByID обрабатывает GET /api/users/{id}
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondSuccess(w, r, http.StatusOK, render.M{"data": render.M{"user": user}})
}

// Me обрабатывает GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	user, err := h.userService.Me(r.Context(), userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondSuccess(w, r, http.StatusOK, render.M{"data": render.M{"user": user}})
}

// UpdateProfile обрабатывает PATCH /api/users/profile (только свой профиль)
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	update, ok := req.toUpdate()
	if !ok {
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "dateOfBirth must be YYYY-MM-DD")
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	user, err := h.userService.UpdateProfile(r.Context(), userID, update)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondSuccess(w, r, http.StatusOK, render.M{"data": render.M{"user": user}})
}
