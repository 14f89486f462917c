package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aidar/nexus-api/internal/middleware"
)

// RouterDeps содержит обработчики и зависимости роутера
type RouterDeps struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Projects      *ProjectHandler
	Matching      *MatchingHandler
	Notifications *NotificationHandler
	Stats         *StatsHandler

	Tokens         middleware.TokenValidator
	Logger         *slog.Logger
	AllowedOrigins []string
	Health         http.HandlerFunc
}

// NewRouter настраивает маршруты API
func NewRouter(d RouterDeps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authMiddleware := middleware.AuthMiddleware(d.Tokens)

	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check для мониторинга
	health := d.Health
	if health == nil {
		health = func(w http.ResponseWriter, r *http.Request) {
			RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
		}
	}
	r.Get("/health", health)

	r.Route("/api", func(r chi.Router) {
		// WebSocket живет дольше таймаута запроса, поэтому вне группы с Timeout
		r.With(middleware.StreamAuthMiddleware(d.Tokens)).
			Get("/users/notifications/stream", d.Notifications.Stream)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(60 * time.Second))

			// Публичные эндпоинты (без авторизации)
			r.Post("/users/signup", d.Auth.Signup)
			r.Post("/users/login", d.Auth.Login)

			// Защищенные эндпоинты (требуют JWT токен в заголовке Authorization)
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware)

				// Пользователи и профиль
				r.Get("/users", d.Users.List)
				r.Get("/users/me", d.Users.Me)
				r.Patch("/users/profile", d.Users.UpdateProfile)
				r.Patch("/users/profilesetup", d.Users.UpdateProfile)

				// Почтовый ящик
				r.Get("/users/notifications", d.Notifications.List)
				r.Patch("/users/notifications/read-all", d.Notifications.MarkAllRead)
				r.Patch("/users/notifications/{id}/read", d.Notifications.MarkRead)

				r.Get("/users/{id}", d.Users.GetByID)

				// Лента и списки текущего пользователя
				r.Get("/projects/fetch", d.Matching.Discover)
				r.Get("/projects/discover", d.Matching.Discover)
				r.Get("/projects/saved", d.Matching.ListSaved)
				r.Get("/projects/my-applications", d.Matching.ListMyApplications)
				r.Get("/projects/my-projects", d.Projects.ListMine)

				// CRUD проектов
				r.Get("/projects", d.Projects.List)
				r.Post("/projects", d.Projects.Create)
				r.Get("/projects/{id}", d.Projects.GetByID)
				r.Patch("/projects/{id}", d.Projects.Update)
				r.Delete("/projects/{id}", d.Projects.Delete)

				// Действия над проектом и заявки
				r.Post("/projects/{id}/apply", d.Matching.Apply)
				r.Post("/projects/{id}/skip", d.Matching.Skip)
				r.Post("/projects/{id}/save", d.Matching.Save)
				r.Get("/projects/{id}/applications", d.Matching.ListApplications)
				r.Patch("/projects/{id}/applications/{applicationId}", d.Matching.DecideApplication)

				// Статистика
				r.Get("/stats", d.Stats.GetStats)
				r.Get("/stats/me", d.Stats.GetMyStats)
			})
		})
	})

	return r
}
