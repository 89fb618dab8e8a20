package service

import (
	"context"
	"errors"
	"log"
	"slices"

	"algomentor/internal/common"
	"algomentor/internal/domain/model"
	"algomentor/internal/domain/repository"
	"algomentor/internal/platform/analyzer"

	"github.com/google/uuid"
)

// HintGenerator produces the opaque hint text for one level of one problem.
type HintGenerator interface {
	GenerateHint(ctx context.Context, problemDescription string, level int, opts analyzer.Options) (string, error)
}

type HintService struct {
	hintRepo       repository.HintUsageRepository
	problemService *ProblemService
	profileService *ProfileService
	generator      HintGenerator
}

func NewHintService(hintRepo repository.HintUsageRepository, problemService *ProblemService, profileService *ProfileService, generator HintGenerator) *HintService {
	return &HintService{
		hintRepo:       hintRepo,
		problemService: problemService,
		profileService: profileService,
		generator:      generator,
	}
}

// RequestHint unlocks hint level `level` for (user, problem). Levels unlock
// strictly in order: level L requires a usage record for L-1. Requesting an
// already-unlocked level returns the stored hint instead of generating a
// new one.
func (s *HintService) RequestHint(ctx context.Context, userID, problemID string, level int) (*model.HintUsage, error) {
	if level < model.MinHintLevel || level > model.MaxHintLevel {
		return nil, common.Errorf("hint level must be in [%d,%d]: %w", model.MinHintLevel, model.MaxHintLevel, common.ErrValidation)
	}

	problem, _, err := s.problemService.GetProblemWithTestCases(ctx, problemID)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.hintRepo.GetUnlockedLevels(ctx, userID, problem.ID)
	if err != nil {
		return nil, common.Errorf("failed to load unlocked hints: %w", err)
	}

	if slices.Contains(unlocked, level) {
		return s.hintRepo.GetHintUsage(ctx, userID, problem.ID, level)
	}
	if level > model.MinHintLevel && !slices.Contains(unlocked, level-1) {
		return nil, common.Errorf("hint level %d requires level %d first: %w", level, level-1, common.ErrBadRequest)
	}

	opts := s.profileService.ResolveLLMOptions(ctx, userID)
	content, err := s.generator.GenerateHint(ctx, problem.Description, level, opts)
	if err != nil {
		return nil, common.Errorf("hint generation failed: %v: %w", err, common.ErrServiceUnavailable)
	}

	usage := &model.HintUsage{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProblemID: problem.ID,
		HintLevel: level,
		Content:   content,
	}
	if err := s.hintRepo.CreateHintUsage(ctx, usage); err != nil {
		if errors.Is(err, common.ErrConflict) {
			// Raced with another request for the same level; serve the winner's hint.
			log.Printf("INFO: Hint level %d for user %s already recorded, returning existing", level, userID)
			return s.hintRepo.GetHintUsage(ctx, userID, problem.ID, level)
		}
		return nil, err
	}
	return usage, nil
}

func (s *HintService) GetUnlockedLevels(ctx context.Context, userID, problemID string) ([]int, error) {
	return s.hintRepo.GetUnlockedLevels(ctx, userID, problemID)
}
