package server

import (
	"net/http"

	"github.com/redpenkr/redpen/internal/quiz"
)

type TapRequest struct {
	TokenIndex int `json:"tokenIndex"`
}

type TapResponse struct {
	IsCorrect    bool          `json:"isCorrect"`
	LifeRestored bool          `json:"lifeRestored,omitempty"`
	WrongText    string        `json:"wrongText,omitempty"`
	CorrectText  string        `json:"correctText,omitempty"`
	Explanation  string        `json:"explanation,omitempty"`
	State        StateResponse `json:"state"`
}

func handleTap(sessions *SessionRegistry, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}
		token := sessionToken(r)

		var req TapRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		p.mu.Lock()
		defer p.mu.Unlock()
		p.advance(sessions.Now())

		if p.game.Status != quiz.StatusPlaying {
			writeError(w, http.StatusConflict, "attempt is not active")
			return
		}
		if req.TokenIndex < 0 || req.TokenIndex >= len(p.tokens) {
			writeError(w, http.StatusBadRequest, "tokenIndex out of range")
			return
		}

		resp := TapResponse{}
		if quiz.ResolveTap(p.tokens[req.TokenIndex]) {
			resp.IsCorrect = true
			resp.LifeRestored = p.game.HandleCorrect()
			// Explanation surfaces only with the correct verdict; the
			// clock holds while the client shows it.
			e := p.game.Variant.Error
			resp.WrongText = e.WrongText
			resp.CorrectText = e.CorrectText
			resp.Explanation = e.Explanation
			p.holdTicks = true
		} else {
			p.game.HandleWrong()
		}

		resp.State = snapshot(p)

		broker.Publish(token, Event{
			Type:          "tap",
			IsCorrect:     resp.IsCorrect,
			LifeRestored:  resp.LifeRestored,
			Status:        p.game.Status,
			FailureReason: p.game.FailureReason,
			SessionScore:  p.game.SessionScore,
		})

		writeJSON(w, http.StatusOK, resp)
	}
}
