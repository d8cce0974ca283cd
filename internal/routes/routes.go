package routes

import (
	"github.com/brinda-08/Quiz/internal/auth"
	"github.com/brinda-08/Quiz/internal/handlers"
	"github.com/brinda-08/Quiz/internal/middleware"
	"github.com/brinda-08/Quiz/internal/models"
	"github.com/go-chi/chi/v5"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Superadmin *handlers.SuperadminHandler
	Quiz       *handlers.QuizHandler
}

// RegisterRoutes registers all application routes under /api
func RegisterRoutes(router chi.Router, h Handlers, tokens auth.TokenValidator, authLimit, userLimit middleware.RateLimitConfig) {
	router.Route("/api", func(r chi.Router) {
		// Public routes, limited per client IP
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(authLimit))
			r.Post("/register", h.Auth.Register)
			r.Post("/send-otp", h.Auth.SendOtp)
			r.Post("/verify-otp-register", h.Auth.VerifyOtpRegister)
			r.Post("/login", h.Auth.Login)
			r.Post("/verify-otp-login", h.Auth.VerifyOtpLogin)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(tokens))
			r.Use(middleware.RateLimitByUser(userLimit))

			r.Route("/superadmin", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(auth.RequireRole(models.RoleAdmin, models.RoleSuperadmin))
					r.Get("/pending", h.Superadmin.ListPending)
					r.Get("/users", h.Superadmin.ListUsers)
				})

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireRole(models.RoleSuperadmin))
					r.Post("/approve/{id}", h.Superadmin.Approve)
					r.Delete("/reject/{id}", h.Superadmin.Reject)
				})
			})

			r.Route("/quizzes", func(r chi.Router) {
				r.Get("/", h.Quiz.List)
				r.Get("/{id}", h.Quiz.Get)
				r.Post("/submit-score", h.Quiz.SubmitScore)

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireRole(models.RoleAdmin, models.RoleSuperadmin))
					r.Post("/", h.Quiz.Create)
					r.Delete("/{id}", h.Quiz.Delete)
				})
			})
		})
	})
}
