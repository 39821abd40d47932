package server

import (
	"errors"
	"net/http"

	"github.com/redpenkr/redpen/internal/quiz"
)

// AttemptRequest starts a stage attempt, addressed either by stage id
// (admin preview, replays) or by level (normal progression).
type AttemptRequest struct {
	StageID string `json:"stageId,omitempty"`
	Level   int    `json:"level,omitempty"`
}

// SegmentInfo is one tap-target as sent to the client. The error mark
// stays server-side; the client taps by index and the server judges.
type SegmentInfo struct {
	Text        string `json:"text"`
	IsSeparator bool   `json:"isSeparator,omitempty"`
	MessageID   string `json:"messageId,omitempty"`
}

type AttemptResponse struct {
	StageID      string        `json:"stageId"`
	VariantID    string        `json:"variantId"`
	Level        int           `json:"level"`
	Mode         quiz.Mode     `json:"mode"`
	TimeLimit    int           `json:"timeLimit"`
	Content      quiz.Content  `json:"content"`
	Segments     []SegmentInfo `json:"segments"`
	Lives        int           `json:"lives"`
	SessionScore int           `json:"sessionScore"`
}

func handleAttempt(sessions *SessionRegistry, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req AttemptRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.StageID == "" && req.Level < 1 {
			writeError(w, http.StatusBadRequest, "stageId or level is required")
			return
		}

		var stage quiz.Stage
		if req.StageID != "" {
			stage, err = store.StageForPlay(r.Context(), req.StageID)
		} else {
			stage, err = store.StageByLevel(r.Context(), req.Level)
		}
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "stage not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		p.mu.Lock()
		defer p.mu.Unlock()
		p.advance(sessions.Now())

		if p.game.Status == quiz.StatusPlaying || p.game.Status == quiz.StatusPaused {
			writeError(w, http.StatusConflict, "an attempt is already in progress")
			return
		}

		if err := p.game.Begin(&stage); err != nil {
			// A stage with no variants is an authoring defect the
			// catalog validation should have caught; refuse loudly.
			writeError(w, http.StatusInternalServerError, "stage is not playable")
			return
		}
		p.game.Start()

		p.tokens = quiz.SegmentVariant(stage.Mode, p.game.Variant)
		p.stageID = stage.ID
		p.variantID = p.game.Variant.ID
		p.lastTick = sessions.Now()
		p.holdTicks = false
		p.recorded = false

		segments := make([]SegmentInfo, len(p.tokens))
		for i, tok := range p.tokens {
			segments[i] = SegmentInfo{
				Text:        tok.Text,
				IsSeparator: tok.IsSeparator,
				MessageID:   tok.MessageID,
			}
		}

		writeJSON(w, http.StatusOK, AttemptResponse{
			StageID:      stage.ID,
			VariantID:    p.game.Variant.ID,
			Level:        stage.Level,
			Mode:         stage.Mode,
			TimeLimit:    stage.TimeLimit,
			Content:      p.game.Variant.Content,
			Segments:     segments,
			Lives:        p.game.Lives,
			SessionScore: p.game.SessionScore,
		})
	}
}
