package routes

import (
	"net/http"

	"github.com/Piyushgeek-gupta/Code-Alchemists/handlers"
	"github.com/Piyushgeek-gupta/Code-Alchemists/middleware"
	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Scoring      *handlers.ScoringHandler
	Participant  *handlers.ParticipantHandler
	Question     *handlers.QuestionHandler
	Contest      *handlers.ContestHandler
	Announcement *handlers.AnnouncementHandler
	Leaderboard  *handlers.LeaderboardHandler
	Dashboard    *handlers.DashboardHandler
	WebSocket    *handlers.WebSocketHandler
}

func SetupRoutes(h Handlers, auth *middleware.Auth, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Публичный контур. /submit и /select-language принимают и анонимные
	// запросы (личность по email), но присланный невалидный токен — это 401.
	r.Group(func(r chi.Router) {
		r.Use(auth.OptionalAuthenticate)
		r.Post("/auth/signup", h.Auth.Signup)
		r.Post("/auth/signin", h.Auth.Signin)
		r.Post("/submit", h.Scoring.Submit)
		r.Post("/select-language", h.Participant.SelectLanguage)
		r.Get("/questions", h.Question.ListForTrack)
		r.Get("/leaderboard", h.Leaderboard.Get)
		r.Get("/announcements", h.Announcement.List)
		r.Get("/contests/active", h.Contest.ListActive)
		r.Get("/ws/leaderboard", h.WebSocket.ServeLeaderboard)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Post("/contest/finish", h.Participant.FinishContest)
	})

	// Админский контур.
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.Authorize(string(models.RoleAdmin)))

		r.Get("/participants", h.Participant.List)
		r.Post("/participants/{id}/block", h.Participant.ToggleBlock)
		r.Post("/participants/{id}/reset", h.Participant.ResetProgress)
		r.Post("/participants/{id}/reset-language", h.Participant.ResetLanguage)
		r.Delete("/participants/{id}", h.Participant.Remove)
		r.Post("/update-password", h.Auth.UpdatePassword)

		r.Get("/questions", h.Question.ListAll)
		r.Post("/questions", h.Question.Create)
		r.Put("/questions/{id}", h.Question.Update)
		r.Post("/questions/{id}/toggle", h.Question.ToggleEnabled)
		r.Post("/questions/{id}/attachment", h.Question.UploadAttachment)
		r.Delete("/questions/{id}", h.Question.Delete)

		r.Get("/contests", h.Contest.List)
		r.Post("/contests", h.Contest.Create)
		r.Put("/contests/{id}", h.Contest.Update)
		r.Delete("/contests/{id}", h.Contest.Delete)
		r.Patch("/contests/{id}/status", h.Contest.ChangeStatus)
		r.Get("/contests/{id}/settings", h.Contest.GetSettings)
		r.Put("/contests/{id}/settings", h.Contest.UpdateSettings)

		r.Post("/announcements", h.Announcement.Create)
		r.Delete("/announcements/{id}", h.Announcement.Delete)

		r.Get("/analytics", h.Dashboard.Stats)
		r.Get("/audit-logs", h.Dashboard.AuditLogs)
		r.Get("/submissions", h.Dashboard.Submissions)
	})

	return r
}
