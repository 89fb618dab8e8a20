package handler

import (
	"net/http"

	"algomentor/internal/api/middleware"
	"algomentor/internal/app/service"
	"algomentor/internal/common"

	"github.com/go-chi/chi/v5"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(ps *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: ps}
}

func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/me", h.getMyProfile)
}

func (h *ProfileHandler) getMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, profile)
}
