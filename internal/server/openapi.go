package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi31"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi31.Spec {
	r := openapi31.NewReflector()
	r.Spec.Info.Title = "RedPen API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the RedPen spelling game: play sessions, rankings, and stage authoring.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/session
	postSession, _ := r.NewOperationContext(http.MethodPost, "/api/session")
	postSession.SetSummary("Open a play session")
	postSession.SetDescription("Opens a fresh session with full lives and zero score. Returns a bearer token for all further session calls.")
	postSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postSession)

	// GET /api/session/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/session/state")
	getState.SetSummary("Get session state")
	getState.SetDescription("Returns the current session snapshot. Elapsed seconds are applied to the attempt clock on every observation. Requires Bearer token.")
	getState.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getState)

	// POST /api/session/attempt
	postAttempt, _ := r.NewOperationContext(http.MethodPost, "/api/session/attempt")
	postAttempt.SetSummary("Start a stage attempt")
	postAttempt.SetDescription("Picks a variant of the requested stage at random and returns its tap segments. Requires Bearer token.")
	postAttempt.AddReqStructure(AttemptRequest{})
	postAttempt.AddRespStructure(AttemptResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAttempt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postAttempt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAttempt)

	// POST /api/session/tap
	postTap, _ := r.NewOperationContext(http.MethodPost, "/api/session/tap")
	postTap.SetSummary("Tap a segment")
	postTap.SetDescription("Judges a tap on a segment by index. A correct tap returns the explanation; a wrong tap spends a life. Requires Bearer token.")
	postTap.AddReqStructure(TapRequest{})
	postTap.AddRespStructure(TapResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postTap.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postTap)

	// POST /api/session/pause
	postPause, _ := r.NewOperationContext(http.MethodPost, "/api/session/pause")
	postPause.SetSummary("Pause the attempt")
	postPause.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postPause)

	// POST /api/session/resume
	postResume, _ := r.NewOperationContext(http.MethodPost, "/api/session/resume")
	postResume.SetSummary("Resume a paused attempt")
	postResume.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postResume)

	// POST /api/session/finish
	postFinish, _ := r.NewOperationContext(http.MethodPost, "/api/session/finish")
	postFinish.SetSummary("Finish the attempt")
	postFinish.SetDescription("Explicitly ends the attempt (after the explanation modal on success) and records the result.")
	postFinish.AddReqStructure(FinishRequest{})
	postFinish.AddRespStructure(FinishResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postFinish.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postFinish)

	// POST /api/session/reset
	postReset, _ := r.NewOperationContext(http.MethodPost, "/api/session/reset")
	postReset.SetSummary("Reset the session")
	postReset.SetDescription("Clears score, lives, and bonus progress back to defaults. Used when the player abandons the whole run.")
	postReset.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postReset)

	// GET /api/session/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/session/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of play events. Pass the session token as a query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/ranking
	postRanking, _ := r.NewOperationContext(http.MethodPost, "/api/ranking")
	postRanking.SetSummary("Submit a score")
	postRanking.SetDescription("Publishes the session's final score under a nickname. Requires Bearer token; the score is read server-side.")
	postRanking.AddReqStructure(RankingSubmitRequest{})
	postRanking.AddRespStructure(RankingEntry{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRanking.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postRanking)

	// GET /api/ranking
	getRanking, _ := r.NewOperationContext(http.MethodGet, "/api/ranking")
	getRanking.SetSummary("List top scores")
	getRanking.AddRespStructure([]RankingEntry{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getRanking)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// GET /api/admin/stages
	getStages, _ := r.NewOperationContext(http.MethodGet, "/api/admin/stages")
	getStages.SetSummary("List stages")
	getStages.AddRespStructure([]AdminStageSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getStages)

	// POST /api/admin/stages
	postStages, _ := r.NewOperationContext(http.MethodPost, "/api/admin/stages")
	postStages.SetSummary("Create a stage")
	postStages.SetDescription("Validates the full authoring invariants, including that every variant's wrongText occurs in its content.")
	postStages.AddReqStructure(AdminStageRequest{})
	postStages.AddRespStructure(AdminStageDetail{}, openapi.WithHTTPStatus(http.StatusCreated))
	postStages.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postStages)

	// GET /api/admin/stages/export
	getExport, _ := r.NewOperationContext(http.MethodGet, "/api/admin/stages/export")
	getExport.SetSummary("Export the catalog")
	getExport.AddRespStructure(ExportResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getExport)

	// POST /api/admin/stages/import
	postImport, _ := r.NewOperationContext(http.MethodPost, "/api/admin/stages/import")
	postImport.SetSummary("Import stages")
	postImport.SetDescription("Validates and inserts a batch of stages; nothing is inserted if any entry is invalid.")
	postImport.AddReqStructure(ImportRequest{})
	postImport.AddRespStructure(ImportResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postImport.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postImport)

	// GET /api/admin/stages/{id}
	getStage, _ := r.NewOperationContext(http.MethodGet, "/api/admin/stages/{id}")
	getStage.SetSummary("Get a stage")
	getStage.AddRespStructure(AdminStageDetail{}, openapi.WithHTTPStatus(http.StatusOK))
	getStage.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getStage)

	// PUT /api/admin/stages/{id}
	putStage, _ := r.NewOperationContext(http.MethodPut, "/api/admin/stages/{id}")
	putStage.SetSummary("Update a stage")
	putStage.AddReqStructure(AdminStageRequest{})
	putStage.AddRespStructure(AdminStageDetail{}, openapi.WithHTTPStatus(http.StatusOK))
	putStage.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putStage)

	// DELETE /api/admin/stages/{id}
	delStage, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/stages/{id}")
	delStage.SetSummary("Delete a stage")
	delStage.SetDescription("Refused while recorded results still reference the stage.")
	delStage.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	delStage.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(delStage)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(spec)
	}
}
