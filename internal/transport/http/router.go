package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/trade-docs-api/internal/application/account"
	applifecycle "github.com/trade-docs-api/internal/application/application"
	"github.com/trade-docs-api/internal/application/document"
	"github.com/trade-docs-api/internal/config"
	"github.com/trade-docs-api/internal/domain"
	"github.com/trade-docs-api/internal/transport/http/handler"
	appmiddleware "github.com/trade-docs-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	accountDeps := account.ServiceDeps{
		UserRepo:         deps.UserRepo,
		VerificationRepo: deps.VerificationRepo,
		Mailer:           deps.Mailer,
		SMSSender:        deps.SMSSender,
		PortalLoginURL:   cfg.PortalLoginURL,
	}
	// A nil *Provider must not end up inside the interface field, or logins
	// panic instead of failing cleanly.
	if deps.JWTProvider != nil {
		accountDeps.JWTProvider = deps.JWTProvider
	}
	accountSvc := account.NewService(accountDeps)
	appSvc := applifecycle.NewService(deps.ApplicationRepo, deps.CommentRepo, deps.DocumentRepo)
	docSvc := document.NewService(deps.DocumentRepo, deps.ApplicationRepo, deps.S3Store)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(accountSvc)
	adminH := handler.NewAdminHandler(accountSvc)
	appH := handler.NewApplicationHandler(appSvc, docSvc)
	docH := handler.NewDocumentHandler(docSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/auth/verify-code", authH.VerifyCode)
		r.Post("/auth/set-password", authH.SetPassword)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.With(sensitiveRL.Limit).Post("/auth/dca/login", authH.DCALogin)
		r.With(sensitiveRL.Limit).Post("/auth/admin/login", authH.AdminLogin)
		r.Post("/auth/change-password", authH.ChangePassword)
		r.Post("/auth/dca/change-password", authH.DCAChangePassword)
		r.Post("/auth/admin/change-password", authH.AdminChangePassword)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			// Any authenticated role
			r.Get("/auth/me", authH.Me)
			r.Post("/auth/profile", authH.UpdateProfile)
			r.Get("/applications", appH.List)
			r.Get("/documents", docH.List)
			r.Get("/documents/{id}/url", docH.DownloadURL)

			// Traders submit and edit their own applications
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleExporter, domain.RoleImporter))

				r.Post("/applications", appH.Create)
				r.Put("/applications/{id}", appH.Modify)
			})

			// Reviewers decide
			r.With(appmiddleware.RequireRole(domain.RoleDCA)).
				Put("/applications/{id}/decision", appH.Decide)
			r.With(appmiddleware.RequireRole(domain.RoleDCA, domain.RoleAdmin)).
				Get("/applications/{id}/comments", appH.ListComments)

			// Admin-only account administration
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/admin/dca", adminH.CreateDCA)
				r.Delete("/admin/dca/{id}", adminH.DeleteDCA)
				r.Get("/admin/users", adminH.ListUsers)
			})
		})
	})

	return r
}
