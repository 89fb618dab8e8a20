package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"algomentor/internal/api/middleware"
	"algomentor/internal/app/service"
	"algomentor/internal/common"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(ss *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator) // All submission routes require auth
	r.Post("/", h.createSubmission)
	r.Get("/{submissionID}", h.getSubmission)
	r.Get("/problem/{problemID}/history", h.getHistory)
}

func (h *SubmissionHandler) createSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	// Synchronous: the response carries the full grading result.
	resp, err := h.submissionService.Submit(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *SubmissionHandler) getSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	submission, err := h.submissionService.GetSubmission(r.Context(), userID, chi.URLParam(r, "submissionID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submission)
}

func (h *SubmissionHandler) getHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	submissions, err := h.submissionService.GetHistory(r.Context(), userID, chi.URLParam(r, "problemID"), limit, offset)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submissions)
}
