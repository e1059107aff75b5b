package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/quranara/api/internal/application/otp"
	"github.com/quranara/api/internal/application/session"
	"github.com/quranara/api/internal/application/user"
	"github.com/quranara/api/internal/config"
	"github.com/quranara/api/internal/domain"
	"github.com/quranara/api/internal/transport/http/credentials"
	"github.com/quranara/api/internal/transport/http/handler"
	appmiddleware "github.com/quranara/api/internal/transport/http/middleware"
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
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Quranara-Secret"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.GatewaySecret != "" {
		r.Use(appmiddleware.Secure(cfg.FrontendURL, cfg.GatewaySecret))
	}

	sessionSvc := session.NewService(deps.SessionRepo, deps.UserRepo, deps.JWTProvider, cfg.SessionWindow)
	otpSvc := otp.NewService(deps.OtpRepo, deps.SMSSender)
	userSvc := user.NewService(deps.UserRepo, deps.BanRepo, sessionSvc)

	creds := credentials.NewWriter(cfg.IsProduction())
	authMw := appmiddleware.Auth(sessionSvc)

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(otpSvc, sessionSvc, userSvc, creds)
	meH := handler.NewMeHandler(userSvc, sessionSvc, creds)
	userH := handler.NewUserHandler(userSvc, sessionSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/send-otp", authH.SendOtp)
		r.Get("/auth/otp-time", authH.OtpTime)
		r.With(sensitiveRL.Limit).Post("/auth/signup", authH.Signup)
		r.With(sensitiveRL.Limit).Post("/auth/signin", authH.Signin)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/auth/me", authH.Me)
			r.Post("/auth/logout", authH.Logout)

			r.Put("/me", meH.UpdateAccount)
			r.Post("/me/change-password", meH.ChangePassword)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/users", userH.List)
				r.Post("/users/ban", userH.Ban)
				r.Post("/users/unban", userH.Unban)
				r.Get("/users/bans", userH.ListBans)
				r.Get("/users/sessions", userH.ListSessions)
			})
		})
	})

	return r
}
