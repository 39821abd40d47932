package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, sessions *SessionRegistry, db *sql.DB, spaDir string) {
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("RedPen API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	// Play surface — one session per bearer token.
	r.Route("/api/session", func(r chi.Router) {
		r.Post("/", handleSessionOpen(sessions))
		r.Get("/state", handleSessionState(sessions))
		r.Post("/attempt", handleAttempt(sessions, store))
		r.Post("/tap", handleTap(sessions, broker))
		r.Post("/pause", handleSessionPause(sessions))
		r.Post("/resume", handleSessionResume(sessions))
		r.Post("/finish", handleSessionFinish(sessions, store, logger))
		r.Post("/reset", handleSessionReset(sessions))
		r.Get("/events", handleEvents(sessions, broker))
	})

	// Leaderboard.
	r.Post("/api/ranking", handleRankingSubmit(sessions, store))
	r.Get("/api/ranking", handleRankingList(store))

	// Admin auth.
	r.Post("/api/admin/login", handleAdminLogin(store))
	r.Post("/api/admin/logout", handleAdminLogout(store))
	r.Get("/api/admin/me", handleAdminMe(store))

	// Admin stage authoring.
	r.Route("/api/admin/stages", func(r chi.Router) {
		r.Use(adminAuthMiddleware(store))
		r.Get("/", handleAdminListStages(store))
		r.Post("/", handleAdminCreateStage(store))
		r.Get("/export", handleAdminExportStages(store))
		r.Post("/import", handleAdminImportStages(store))
		r.Get("/{id}", handleAdminGetStage(store))
		r.Put("/{id}", handleAdminUpdateStage(store))
		r.Delete("/{id}", handleAdminDeleteStage(store))
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving admin SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
