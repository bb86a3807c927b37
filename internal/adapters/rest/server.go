package rest

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"saved-search-service/internal/configs"
	"saved-search-service/internal/core/domain"
	core_port "saved-search-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers набор обработчиков, которые монтирует сервер.
type Handlers struct {
	SavedSearches *SavedSearchHandler
	Notifications *NotificationHandler
	Appointments  *AppointmentHandler
	Locations     *LocationHandler
	Moderation    *ModerationHandler
	Admin         *AdminHandler
}

// Server REST API сервиса сохраненных поисков.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
	// cancelBase завершает контексты запросов, чтобы SSE-потоки закрылись при остановке
	cancelBase context.CancelFunc
}

// NewRouter собирает маршруты. Вынесен отдельно, чтобы тесты работали через httptest.
func NewRouter(cfg configs.RESTConfig, handlers Handlers, auth *AuthMiddleware, baseLogger core_port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	// X-Forwarded-For / X-Real-IP выставляет только api-gateway, от клиента им верить нельзя
	if cfg.TrustGatewayHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(RateLimitMiddleware(cfg.RateLimitPerMinute))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// --- публичный справочник ---
		r.Route("/locations", func(r chi.Router) {
			r.Get("/cities", handlers.Locations.ListCities)
			r.Get("/cities/{id}", handlers.Locations.GetCity)
			r.Get("/cities/{id}/districts", handlers.Locations.ListDistricts)
			r.Get("/districts/{id}", handlers.Locations.GetDistrict)
			r.Get("/districts/{id}/wards", handlers.Locations.ListWards)
			r.Get("/wards/{id}", handlers.Locations.GetWard)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Use(auth.RequireRole(domain.RoleAdmin))

				r.Post("/cities", handlers.Locations.CreateCity)
				r.Post("/districts", handlers.Locations.CreateDistrict)
				r.Post("/wards", handlers.Locations.CreateWard)

				r.Put("/cities/{id}", handlers.Locations.UpdateCity)
				r.Delete("/cities/{id}", handlers.Locations.DeleteCity)
				r.Put("/districts/{id}", handlers.Locations.UpdateDistrict)
				r.Delete("/districts/{id}", handlers.Locations.DeleteDistrict)
				r.Put("/wards/{id}", handlers.Locations.UpdateWard)
				r.Delete("/wards/{id}", handlers.Locations.DeleteWard)
			})
		})

		// --- роуты пользователя ---
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Route("/saved-searches", func(r chi.Router) {
				r.Post("/", handlers.SavedSearches.CreateSavedSearch)
				r.Get("/", handlers.SavedSearches.ListSavedSearches)
				r.Delete("/{id}", handlers.SavedSearches.DeleteSavedSearch)
				r.Get("/{id}/matches", handlers.SavedSearches.FindMatchingPosts)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", handlers.Notifications.ListNotifications)
				r.Get("/subscribe", handlers.Notifications.Subscribe)
				r.Put("/{id}/read", handlers.Notifications.MarkNotificationRead)
				r.Delete("/{id}", handlers.Notifications.DeleteNotification)
			})

			r.Route("/appointments", func(r chi.Router) {
				r.Post("/", handlers.Appointments.CreateAppointment)
				r.Get("/", handlers.Appointments.ListAppointments)
				r.Delete("/{id}", handlers.Appointments.CancelAppointment)
			})
		})

		// --- администрирование ---
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireRole(domain.RoleAdmin))

			r.Post("/posts/{id}/approve", handlers.Moderation.ApprovePost)
			r.Post("/posts/{id}/reject", handlers.Moderation.RejectPost)

			r.Get("/saved-searches", handlers.Admin.ListSavedSearches)
			r.Get("/notifications", handlers.Admin.ListNotifications)
			r.Get("/appointments", handlers.Admin.ListAppointments)
		})
	})

	return r
}

func NewServer(cfg configs.RESTConfig, handlers Handlers, auth *AuthMiddleware, baseLogger core_port.LoggerPort) *Server {
	baseCtx, cancel := context.WithCancel(context.Background())
	// WriteTimeout не задан: SSE-соединения живут долго
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, handlers, auth, baseLogger),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger,
		cancelBase: cancel,
	}
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	s.cancelBase()
	return s.httpServer.Shutdown(ctx)
}
