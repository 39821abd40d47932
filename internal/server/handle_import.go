package server

import (
	"fmt"
	"net/http"
)

// ImportRequest is the batch payload for POST /api/admin/stages/import,
// the same shape GET /api/admin/stages/export produces (minus ids and
// timestamps), so an export can be re-imported into another deployment.
type ImportRequest struct {
	Stages []AdminStageRequest `json:"stages"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

type ExportResponse struct {
	Stages []AdminStageDetail `json:"stages"`
}

func handleAdminImportStages(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ImportRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Stages) == 0 {
			writeError(w, http.StatusBadRequest, "stages is required")
			return
		}

		// Validate the whole batch before touching storage, so a bad
		// entry in the middle cannot leave a partial import behind.
		for i := range req.Stages {
			if msg := req.Stages[i].validate(); msg != "" {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("stage %d: %s", i+1, msg))
				return
			}
		}

		n, err := store.ImportStages(r.Context(), req.Stages)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, ImportResponse{Imported: n})
	}
}

func handleAdminExportStages(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stages, err := store.ExportStages(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if stages == nil {
			stages = []AdminStageDetail{}
		}
		writeJSON(w, http.StatusOK, ExportResponse{Stages: stages})
	}
}
