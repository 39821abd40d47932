package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/redpenkr/redpen/internal/quiz"
)

// RankingSubmitRequest publishes the session's score under a nickname.
// The score itself is read from the server-side session, never from the
// request body.
type RankingSubmitRequest struct {
	Nickname string `json:"nickname"`
	Region   string `json:"region,omitempty"`
	Country  string `json:"country,omitempty"`
}

func handleRankingSubmit(sessions *SessionRegistry, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req RankingSubmitRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Nickname = strings.TrimSpace(req.Nickname)
		if req.Nickname == "" {
			writeError(w, http.StatusBadRequest, "nickname is required")
			return
		}

		p.mu.Lock()
		p.advance(sessions.Now())
		if p.game.Status == quiz.StatusPlaying || p.game.Status == quiz.StatusPaused {
			p.mu.Unlock()
			writeError(w, http.StatusConflict, "attempt still in progress")
			return
		}
		entry := RankingEntry{
			Nickname: req.Nickname,
			Region:   strings.TrimSpace(req.Region),
			Country:  strings.TrimSpace(req.Country),
			Score:    p.game.SessionScore,
		}
		p.mu.Unlock()

		entry, err = store.SubmitRanking(r.Context(), entry)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, entry)
	}
}

func handleRankingList(store Store) http.HandlerFunc {
	const (
		defaultLimit = 20
		maxLimit     = 100
	)

	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = min(n, maxLimit)
		}

		entries, err := store.ListRankings(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if entries == nil {
			entries = []RankingEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}
