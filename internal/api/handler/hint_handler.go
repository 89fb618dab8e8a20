package handler

import (
	"encoding/json"
	"net/http"

	"algomentor/internal/api/middleware"
	"algomentor/internal/app/service"
	"algomentor/internal/common"

	"github.com/go-chi/chi/v5"
)

type HintHandler struct {
	hintService *service.HintService
}

func NewHintHandler(hs *service.HintService) *HintHandler {
	return &HintHandler{hintService: hs}
}

func (h *HintHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/problem/{problemID}", h.requestHint)
	r.Get("/problem/{problemID}", h.getUnlockedLevels)
}

func (h *HintHandler) requestHint(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req struct {
		Level int `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	usage, err := h.hintService.RequestHint(r.Context(), userID, chi.URLParam(r, "problemID"), req.Level)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, usage)
}

func (h *HintHandler) getUnlockedLevels(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	levels, err := h.hintService.GetUnlockedLevels(r.Context(), userID, chi.URLParam(r, "problemID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string][]int{"unlocked_levels": levels})
}
