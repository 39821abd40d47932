package server

import (
	"log/slog"
	"net/http"

	"github.com/redpenkr/redpen/internal/quiz"
)

// SessionResponse is returned when a new play session is opened.
type SessionResponse struct {
	Token        string `json:"token"`
	Lives        int    `json:"lives"`
	SessionScore int    `json:"sessionScore"`
}

// StateResponse is the read-only snapshot of a play session.
type StateResponse struct {
	Status        quiz.Status        `json:"status"`
	TimeLeft      int                `json:"timeLeft"`
	Lives         int                `json:"lives"`
	SessionScore  int                `json:"sessionScore"`
	FailureReason quiz.FailureReason `json:"failureReason,omitempty"`
	StageID       string             `json:"stageId,omitempty"`
	VariantID     string             `json:"variantId,omitempty"`
}

// snapshot must be called with p.mu held.
func snapshot(p *playSession) StateResponse {
	return StateResponse{
		Status:        p.game.Status,
		TimeLeft:      p.game.TimeLeft,
		Lives:         p.game.Lives,
		SessionScore:  p.game.SessionScore,
		FailureReason: p.game.FailureReason,
		StageID:       p.stageID,
		VariantID:     p.variantID,
	}
}

func handleSessionOpen(sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, p := sessions.Open()

		p.mu.Lock()
		resp := SessionResponse{
			Token:        token,
			Lives:        p.game.Lives,
			SessionScore: p.game.SessionScore,
		}
		p.mu.Unlock()

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleSessionState(sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		p.mu.Lock()
		p.advance(sessions.Now())
		resp := snapshot(p)
		p.mu.Unlock()

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleSessionPause(sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		p.mu.Lock()
		p.advance(sessions.Now())
		p.game.Pause()
		resp := snapshot(p)
		p.mu.Unlock()

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleSessionResume(sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		p.mu.Lock()
		p.advance(sessions.Now())
		p.game.Resume()
		// Re-anchor so time spent paused is not replayed as ticks.
		p.lastTick = sessions.Now()
		resp := snapshot(p)
		p.mu.Unlock()

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleSessionReset(sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		p.mu.Lock()
		p.game.Reset()
		p.tokens = nil
		p.stageID = ""
		p.variantID = ""
		p.holdTicks = false
		p.recorded = false
		p.lastTick = sessions.Now()
		resp := snapshot(p)
		p.mu.Unlock()

		writeJSON(w, http.StatusOK, resp)
	}
}

// FinishRequest ends the current attempt. Success true is only honored
// after a correct tap (the client sends it once the explanation modal
// closes); success false abandons or acknowledges a failed attempt.
type FinishRequest struct {
	Success bool `json:"success"`
}

type FinishResponse struct {
	Result       quiz.Result `json:"result"`
	SessionScore int         `json:"sessionScore"`
}

func handleSessionFinish(sessions *SessionRegistry, store Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req FinishRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		p.mu.Lock()
		defer p.mu.Unlock()
		p.advance(sessions.Now())

		if p.stageID == "" {
			writeError(w, http.StatusConflict, "no attempt in progress")
			return
		}

		switch {
		case p.game.Status.Terminal():
			// Timeout or no_lives already ended the attempt; the client
			// is acknowledging. Nothing left to transition.
		case req.Success && !p.holdTicks:
			writeError(w, http.StatusConflict, "no correct answer to confirm")
			return
		case req.Success:
			p.game.End(true, quiz.FailureNone)
		default:
			p.game.End(false, p.game.FailureReason)
		}
		p.holdTicks = false

		result := p.game.Result()
		if !p.recorded {
			p.recorded = true
			// Fire-and-forget: a storage failure must not corrupt the
			// in-memory session.
			res := AttemptResult{
				StageID:        p.stageID,
				Level:          result.Level,
				Success:        result.Success,
				StageScore:     result.StageScore,
				SessionScore:   p.game.SessionScore,
				RemainingLives: result.RemainingLives,
				FailureReason:  string(result.FailureReason),
			}
			if err := store.RecordResult(r.Context(), res); err != nil {
				logger.Error("recording attempt result", "stage_id", res.StageID, "error", err)
			}
		}

		writeJSON(w, http.StatusOK, FinishResponse{
			Result:       result,
			SessionScore: p.game.SessionScore,
		})
	}
}
