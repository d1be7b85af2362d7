package routes

import (
	"net/http"

	"github.com/Tecnolosic/rompeelciclo/internal/app"
	"github.com/Tecnolosic/rompeelciclo/internal/handler"
	"github.com/Tecnolosic/rompeelciclo/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.UserRepository, app.ProfileRepository, app.Store, app.Device)
	appState := handler.NewStateHandler(app.Store)
	onboarding := handler.NewOnboardingHandler(app.Store)
	profile := handler.NewProfileHandler(app.Store)
	goal := handler.NewGoalHandler(app.Store)
	confession := handler.NewConfessionHandler(app.Store, app.MediaStore)
	pilar := handler.NewPilarHandler(app.Store, app.ContentService)
	stats := handler.NewStatsHandler(app.Store, app.InteractionRepository)
	spark := handler.NewSparkHandler(app.Store)
	license := handler.NewLicenseHandler(app.LicenseService)
	billing := handler.NewBillingHandler(app.PaymentService)
	mentor := handler.NewMentorHandler(app.Store, app.MentorService)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /auth/signup", rateLimiter(auth.SignUp))
	mux.HandleFunc("POST /auth/signin", rateLimiter(auth.SignIn))
	mux.HandleFunc("POST /auth/guest", rateLimiter(auth.Guest))
	mux.HandleFunc("POST /auth/logout", auth.Logout)
	mux.HandleFunc("GET /auth/session", auth.Session)

	// Bootstrap: answers for anonymous and authenticated callers alike
	mux.HandleFunc("GET /app/bootstrap", appState.Bootstrap)

	// Onboarding
	mux.HandleFunc("POST /app/onboarding/contract", middleware.RequireSession(onboarding.Contract))
	mux.HandleFunc("POST /app/onboarding/quiz", middleware.RequireSession(onboarding.Quiz))
	mux.HandleFunc("POST /app/onboarding/profile", middleware.RequireSession(onboarding.Profile))

	// Profile
	mux.HandleFunc("GET /app/profile", middleware.RequireSession(profile.Get))
	mux.HandleFunc("PATCH /app/profile", middleware.RequireSession(profile.Update))

	// Curriculum
	mux.HandleFunc("GET /app/pilares", middleware.RequireSession(pilar.List))
	mux.HandleFunc("POST /app/pilares/{id}/complete", middleware.RequireSession(pilar.Complete))
	mux.HandleFunc("GET /app/pilares/{id}/reading", middleware.RequireSession(pilar.Reading))

	// Goals
	mux.HandleFunc("GET /app/goals", middleware.RequireSession(goal.List))
	mux.HandleFunc("PUT /app/goals/{id}", middleware.RequireSession(goal.Upsert))

	// Confessions
	mux.HandleFunc("GET /app/confessions", middleware.RequireSession(confession.List))
	mux.HandleFunc("POST /app/confessions", middleware.RequireSession(confession.Create))
	mux.HandleFunc("POST /app/confessions/media", middleware.RequireSession(confession.CreateMedia))

	// Stats and daily spark
	mux.HandleFunc("GET /app/stats", middleware.RequireSession(stats.Get))
	mux.HandleFunc("GET /app/sparks", middleware.RequireSession(spark.Today))
	mux.HandleFunc("POST /app/sparks/complete", middleware.RequireSession(spark.Complete))

	// Bunker toggle
	mux.HandleFunc("POST /app/bunker", middleware.RequireSession(appState.Bunker))

	// License and checkout
	mux.HandleFunc("POST /app/license/validate", middleware.RequireSession(license.Validate))
	mux.HandleFunc("POST /app/checkout", middleware.RequireSession(billing.Checkout))

	// Mentor chat (rate limited per IP)
	mentorLimiter := middleware.RateLimitMentor()
	mux.HandleFunc("POST /app/mentor/chat", mentorLimiter(middleware.RequireSession(mentor.Chat)))

	// Payment provider webhook
	mux.HandleFunc("POST /webhooks/payment", billing.Webhook)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService, app.UserRepository),
	)
}
