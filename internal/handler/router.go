package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	custommiddleware "github.com/mmeshcher/gasflow/internal/middleware"
	"github.com/mmeshcher/gasflow/internal/model"
)

// LoginRateLimit ограничивает число попыток входа с одного IP в минуту.
const LoginRateLimit = 10

// SetupRouter настраивает HTTP-маршруты и middleware сервиса.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommiddleware.Logger(h.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(h.metrics.Middleware)
	r.Use(custommiddleware.GzipMiddleware)

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.With(httprate.Limit(LoginRateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))).
		Post("/auth/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		adminOnly := custommiddleware.RequireRole(model.RoleAdmin)

		r.Get("/me", h.Me)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Get("/{id}", h.GetOrder)
			r.With(adminOnly).Post("/", h.CreateOrder)
			r.With(adminOnly).Patch("/{id}/status", h.ChangeStatus)
		})

		r.With(adminOnly).Post("/dispatch/assign", h.AssignOrders)

		r.Post("/deliveries", h.RegisterDelivery)
		r.Post("/deliveries/failed", h.RegisterFailedDelivery)

		r.With(adminOnly).Post("/stock/inbounds", h.RegisterInbound)
		r.With(adminOnly).Get("/stock/summary", h.StockSummary)
		r.With(adminOnly).Get("/reports/daily", h.DailyReport)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	return r
}
