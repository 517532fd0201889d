/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the shop frontend

ROUTE GROUPS:
  /api/loyalty/*   Points, accounts, rule versions, tiers
  /api/payroll/*   Periods, slips, salary configs, attendance
  /healthz         Liveness probe

SECURITY NOTE:
  No authentication middleware. The service is meant to sit behind the
  shop's API gateway, which authenticates and sets X-Actor-ID.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Actor-ID"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Loyalty routes
		r.Route("/loyalty", func(r chi.Router) {
			r.Post("/earn", h.Earn)
			r.Post("/quote", h.RedemptionQuote)
			r.Post("/redeem", h.Redeem)
			r.Post("/reverse", h.Reverse)
			r.Post("/adjust", h.AdjustPoints)

			r.Route("/accounts/{customerID}", func(r chi.Router) {
				r.Get("/", h.GetAccount)
				r.Get("/transactions", h.GetTransactions)
				r.Get("/tier-history", h.GetTierHistory)
			})

			r.Route("/rules", func(r chi.Router) {
				r.Get("/", h.ListRuleVersions)
				r.Post("/", h.CreateRuleVersion)
				r.Post("/{id}/activate", h.ActivateRuleVersion)
			})

			r.Route("/tiers", func(r chi.Router) {
				r.Get("/", h.ListTiers)
				r.Post("/", h.CreateTier)
			})
		})

		// Payroll routes
		r.Route("/payroll", func(r chi.Router) {
			r.Route("/periods", func(r chi.Router) {
				r.Get("/", h.ListPeriods)
				r.Post("/", h.CreatePeriod)
				r.Get("/{id}", h.GetPeriod)
				r.Post("/{id}/generate", h.GeneratePeriod)
				r.Post("/{id}/publish", h.PublishPeriod)
				r.Post("/{id}/finalize", h.FinalizePeriod)
				r.Post("/{id}/pay", h.MarkPeriodPaid)
				r.Get("/{id}/slips", h.ListPeriodSlips)
				r.Put("/{id}/attendance/{employeeID}", h.RecordAttendance)
			})

			r.Route("/slips/{id}", func(r chi.Router) {
				r.Get("/", h.GetSlip)
				r.Post("/confirm", h.ConfirmSlip)
				r.Post("/dispute", h.DisputeSlip)
				r.Post("/resolve", h.ResolveDispute)
				r.Get("/adjustments", h.ListSlipAdjustments)
				r.Post("/adjustments", h.AdjustSlip)
				r.Get("/pdf", h.SlipPDF)
			})

			r.Route("/salary-configs", func(r chi.Router) {
				r.Get("/", h.ListSalaryConfigs)
				r.Put("/", h.UpsertSalaryConfig)
				r.Get("/{employeeID}", h.GetSalaryConfig)
			})
		})
	})

	return r
}
