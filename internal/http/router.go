package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/garage/internal/auth"
	httpauth "github.com/MrJamesThe3rd/garage/internal/http/auth"
	"github.com/MrJamesThe3rd/garage/internal/http/customer"
	"github.com/MrJamesThe3rd/garage/internal/http/debt"
	"github.com/MrJamesThe3rd/garage/internal/http/importcsv"
	"github.com/MrJamesThe3rd/garage/internal/http/item"
	"github.com/MrJamesThe3rd/garage/internal/http/ledger"
	"github.com/MrJamesThe3rd/garage/internal/http/report"
	"github.com/MrJamesThe3rd/garage/internal/http/supplier"
)

type Options struct {
	CORSOrigins []string
	Timeout     time.Duration
	Auth        *auth.Service
}

type Handlers struct {
	Auth      *httpauth.Handler
	Items     *item.Handler
	Import    *importcsv.Handler
	Suppliers *supplier.Handler
	Customers *customer.Handler
	Ledger    *ledger.Handler
	Debts     *debt.Handler
	Reports   *report.Handler
}

func New(opts Options, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Auth.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(httpauth.Middleware(opts.Auth))

			r.Route("/items", func(r chi.Router) {
				r.Route("/import", h.Import.Routes)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json"))
					h.Items.Routes(r)
				})
			})

			r.Route("/suppliers", h.Suppliers.Routes)
			r.Route("/customers", h.Customers.Routes)
			r.Route("/sales", h.Ledger.SaleRoutes)
			r.Route("/purchases", h.Ledger.PurchaseRoutes)
			r.Route("/debts", h.Debts.Routes)
			r.Route("/reports", h.Reports.Routes)
		})
	})

	return router
}
