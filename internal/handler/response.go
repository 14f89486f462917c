package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/aidar/nexus-api/internal/domain"
)

const statusSuccess = "success"

// RespondWithJSON отправляет JSON ответ с указанным статус кодом
func RespondWithJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	render.Status(r, statusCode)
	render.JSON(w, r, data)
}

// RespondSuccess отправляет конверт {"status":"success", ...fields}
func RespondSuccess(w http.ResponseWriter, r *http.Request, statusCode int, fields render.M) {
	body := render.M{"status": statusSuccess}
	for k, v := range fields {
		body[k] = v
	}
	RespondWithJSON(w, r, statusCode, body)
}

// RespondPage отправляет страницу списка с метаданными пагинации
func RespondPage[T any](w http.ResponseWriter, r *http.Request, key string, page *domain.PageResult[T]) {
	items := page.Items
	if items == nil {
		items = []T{}
	}

	RespondSuccess(w, r, http.StatusOK, render.M{
		"results":    len(items),
		"total":      page.Total,
		"page":       page.Page.Number,
		"totalPages": page.Page.TotalPages(page.Total),
		"data":       render.M{key: items},
	})
}

// RespondList отправляет список без пагинации
func RespondList[T any](w http.ResponseWriter, r *http.Request, key string, items []T) {
	if items == nil {
		items = []T{}
	}

	RespondSuccess(w, r, http.StatusOK, render.M{
		"results": len(items),
		"data":    render.M{key: items},
	})
}
