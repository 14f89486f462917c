package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aidar/nexus-api/internal/domain"
	"github.com/aidar/nexus-api/internal/validator"
)

const maxBodyBytes = 1 << 20

var requestValidator = validator.New()

// decodeRequest читает JSON тело и проверяет теги validate.
// При ошибке сам отправляет ответ и возвращает false.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "request body is required")
			return false
		}
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid request body")
		return false
	}

	if err := requestValidator.Validate(dst); err != nil {
		HandleError(w, r, err)
		return false
	}

	return true
}

// pathID извлекает UUID из параметра маршрута
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid "+name)
		return "", false
	}
	return id.String(), true
}

// pageParams читает ?page= и ?limit=; некорректные значения нормализуются в сервисе
func pageParams(r *http.Request) (int, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return page, limit
}
