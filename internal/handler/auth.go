package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/aidar/nexus-api/internal/service"
)

// AuthHandler обрабатывает эндпоинты аутентификации
type AuthHandler struct {
	authService AuthService
}

// NewAuthHandler создает новый AuthHandler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// SignupRequest представляет тело запроса на регистрацию
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	UserName string `json:"userName" validate:"required,max=50"`
}

// LoginRequest представляет тело запроса на логин
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signup обрабатывает POST /api/users/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := h.authService.Signup(r.Context(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		UserName: req.UserName,
	})
	if err != nil {
		HandleError(w, r, err)
		return
	}

	respondWithToken(w, r, http.StatusCreated, result)
}

// Login обрабатывает POST /api/users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	respondWithToken(w, r, http.StatusOK, result)
}

func respondWithToken(w http.ResponseWriter, r *http.Request, statusCode int, result *service.AuthResult) {
	RespondSuccess(w, r, statusCode, render.M{
		"token": result.Token,
		"data":  render.M{"user": result.User},
	})
}
