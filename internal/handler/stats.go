package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/aidar/nexus-api/internal/middleware"
)

// StatsHandler обрабатывает эндпоинты статистики
type StatsHandler struct {
	statsService StatsService
}

// NewStatsHandler создает новый StatsHandler
func NewStatsHandler(statsService StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetStats обрабатывает GET /api/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetStats(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondSuccess(w, r, http.StatusOK, render.M{"data": stats})
}

// GetMyStats обрабатывает GET /api/stats/me
func (h *StatsHandler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	stats, err := h.statsService.GetUserStats(r.Context(), userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondSuccess(w, r, http.StatusOK, render.M{"data": stats})
}
