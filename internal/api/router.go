package api

import (
	"net/http"
	"time"

	"algomentor/internal/api/handler"
	"algomentor/internal/app/service"
	"algomentor/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	problemService *service.ProblemService,
	submissionService *service.SubmissionService,
	hintService *service.HintService,
	profileService *service.ProfileService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	// Submissions block on the sandbox, so the budget is generous.
	r.Use(chiMiddleware.Timeout(120 * time.Second))

	// Verifies the Bearer token when present and puts claims in context.
	// Authenticator (per route group) decides whether a token is required.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		problemHandler := handler.NewProblemHandler(problemService)
		v1.Route("/problems", problemHandler.RegisterRoutes)

		submissionHandler := handler.NewSubmissionHandler(submissionService)
		v1.Route("/submissions", submissionHandler.RegisterRoutes)

		hintHandler := handler.NewHintHandler(hintService)
		v1.Route("/hints", hintHandler.RegisterRoutes)

		profileHandler := handler.NewProfileHandler(profileService)
		v1.Route("/profile", profileHandler.RegisterRoutes)
	})

	return r
}
