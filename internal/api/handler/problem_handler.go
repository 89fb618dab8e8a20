package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"algomentor/internal/api/middleware"
	"algomentor/internal/app/service"
	"algomentor/internal/common"
	"algomentor/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	problemService *service.ProblemService
}

func NewProblemHandler(ps *service.ProblemService) *ProblemHandler {
	return &ProblemHandler{problemService: ps}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProblems)            // GET /api/v1/problems
	r.Get("/{problemSlug}", h.getProblem) // GET /api/v1/problems/two-sum

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createProblem) // POST /api/v1/problems
	})
}

func (h *ProblemHandler) createProblem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	problem, err := h.problemService.CreateProblem(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, problem)
}

func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	var difficulty *int
	if difficultyStr := r.URL.Query().Get("difficulty"); difficultyStr != "" {
		d, err := strconv.Atoi(difficultyStr)
		if err != nil || d < model.MinDifficulty || d > model.MaxDifficulty {
			common.RespondWithError(w, http.StatusBadRequest, "Invalid difficulty filter")
			return
		}
		difficulty = &d
	}

	problems, total, err := h.problemService.ListProblems(r.Context(), page, pageSize, difficulty)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	type PaginatedProblemsResponse struct {
		Problems []model.Problem `json:"problems"`
		Total    int             `json:"total"`
		Page     int             `json:"page"`
		PageSize int             `json:"page_size"`
	}
	common.RespondWithJSON(w, http.StatusOK, PaginatedProblemsResponse{
		Problems: problems,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	problemSlug := chi.URLParam(r, "problemSlug")

	problem, err := h.problemService.GetProblemBySlug(r.Context(), problemSlug)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}
