package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/aidar/nexus-api/internal/domain"
	"github.com/aidar/nexus-api/internal/logger"
	"github.com/aidar/nexus-api/internal/validator"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail содержит код и описание ошибки
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	respondWithDetail(w, r, statusCode, ErrorDetail{Code: code, Message: message})
}

func respondWithDetail(w http.ResponseWriter, r *http.Request, statusCode int, detail ErrorDetail) {
	// 4xx - ошибка клиента, 5xx - ошибка сервера
	status := "fail"
	if statusCode >= http.StatusInternalServerError {
		status = "error"
	}

	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Status:  status,
		Message: detail.Message,
		Error:   detail,
	})
}

// messages содержит тексты ответов, отличающиеся от текста доменной ошибки
var messages = map[error]string{
	domain.ErrAlreadyApplied: "Already applied to this project",
	domain.ErrInvalidStatus:  "Invalid status. Must be 'accepted' or 'rejected'",
}

// HandleError преобразует доменные ошибки в HTTP ответы
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		respondWithDetail(w, r, http.StatusBadRequest, ErrorDetail{
			Code:    string(domain.CodeValidationFailed),
			Message: "validation failed",
			Fields:  verr.Errors,
		})
		return
	}

	code := domain.MapErrorToCode(err)
	statusCode := httpStatus(code)

	if statusCode == http.StatusInternalServerError {
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
		)
		RespondWithError(w, r, statusCode, string(code), "internal server error")
		return
	}

	message := err.Error()
	for sentinel, text := range messages {
		if errors.Is(err, sentinel) {
			message = text
			break
		}
	}

	RespondWithError(w, r, statusCode, string(code), message)
}

func httpStatus(code domain.ErrorCode) int {
	switch code {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeForbidden, domain.CodeOwnProject:
		return http.StatusForbidden
	case domain.CodeAlreadyApplied,
		domain.CodeProjectNotOpen,
		domain.CodeProjectFull,
		domain.CodeApplicationFinalized,
		domain.CodeEmailTaken:
		return http.StatusConflict
	case domain.CodeInvalidStatus, domain.CodeBadRequest, domain.CodeValidationFailed:
		return http.StatusBadRequest
	case domain.CodeUnauthorized, domain.CodeInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
