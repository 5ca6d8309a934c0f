package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/avasquez/prestamos-system/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса учёта займов.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/tenant/register", h.RegisterTenant)
		r.Post("/tenant/login", h.LoginTenant)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Route("/loans", func(r chi.Router) {
				r.Get("/", h.GetLoans)
				r.Post("/", h.CreateLoan)

				r.Route("/{loanID}", func(r chi.Router) {
					r.Get("/", h.GetLoan)
					r.Put("/", h.UpdateLoan)
					r.Delete("/", h.DeleteLoan)

					r.Post("/payments", h.RegisterPayment)
					r.Delete("/payments/{paymentID}", h.DeletePayment)

					r.Post("/renew", h.RenewLoan)
				})
			})

			r.Get("/summary", h.GetSummary)

			r.Post("/movements", h.RecordExpense)
			r.Get("/movements", h.GetMovements)
			r.Delete("/movements/{movementID}", h.DeleteMovement)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)
			r.Use(h.authMiddleware.RequireAdmin)

			r.Post("/admin/codes", h.CreateTenantCode)
			r.Get("/admin/codes", h.GetTenantCodes)
			r.Post("/admin/codes/{code}/block", h.BlockTenantCode)
			r.Delete("/admin/codes/{code}", h.DeleteTenantCode)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
