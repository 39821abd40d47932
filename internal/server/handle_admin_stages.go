package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/redpenkr/redpen/internal/quiz"
)

// AdminStageRequest is the authoring payload for create/update/import.
type AdminStageRequest struct {
	Level     int                 `json:"level"`
	Mode      quiz.Mode           `json:"mode"`
	TimeLimit int                 `json:"timeLimit"`
	Variants  []quiz.StageVariant `json:"variants"`
}

// validate runs the full catalog invariants, including the occurrence
// check that every variant's wrongText appears in its scoped content.
// Returns an empty string when valid.
func (req *AdminStageRequest) validate() string {
	stage := quiz.Stage{
		Level:     req.Level,
		Mode:      req.Mode,
		TimeLimit: req.TimeLimit,
		Variants:  req.Variants,
	}
	if err := stage.Validate(); err != nil {
		return err.Error()
	}
	return ""
}

func handleAdminListStages(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stages, err := store.ListStages(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if stages == nil {
			stages = []AdminStageSummary{}
		}
		writeJSON(w, http.StatusOK, stages)
	}
}

func handleAdminCreateStage(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminStageRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		stage, err := store.CreateStage(r.Context(), req)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, stage)
	}
}

func handleAdminGetStage(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		stage, err := store.GetStage(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "stage not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, stage)
	}
}

func handleAdminUpdateStage(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req AdminStageRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		stage, err := store.UpdateStage(r.Context(), id, req)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "stage not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, stage)
	}
}

func handleAdminDeleteStage(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		hasResults, err := store.StageHasResults(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if hasResults {
			writeError(w, http.StatusConflict, "cannot delete a stage with recorded results")
			return
		}

		if err := store.DeleteStage(r.Context(), id); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "stage not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
