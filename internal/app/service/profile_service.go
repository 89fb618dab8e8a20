package service

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"algomentor/internal/common"
	"algomentor/internal/domain/evaluation"
	"algomentor/internal/domain/model"
	"algomentor/internal/domain/repository"
	"algomentor/internal/platform/analyzer"
)

type ProfileService struct {
	profileRepo repository.UserProfileRepository
	userRepo    repository.UserRepository
	// maxRetries bounds the compare-and-swap loop on concurrent profile writes.
	maxRetries int
}

func NewProfileService(profileRepo repository.UserProfileRepository, userRepo repository.UserRepository, maxRetries int) *ProfileService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &ProfileService{profileRepo: profileRepo, userRepo: userRepo, maxRetries: maxRetries}
}

// NewDefaultProfile is the state a fresh account starts from.
func NewDefaultProfile(userID string) *model.UserProfile {
	return &model.UserProfile{
		UserID:               userID,
		CurrentLevel:         evaluation.MinLevel,
		AlgorithmProficiency: map[string]float64{},
		RecentScores:         []float64{},
	}
}

func (s *ProfileService) CreateProfile(ctx context.Context, tx *sql.Tx, userID string) error {
	return s.profileRepo.CreateProfile(ctx, tx, NewDefaultProfile(userID))
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	return s.profileRepo.GetProfile(ctx, userID)
}

// ResolveLLMOptions resolves the per-request LLM settings: the user's
// override when present, else the platform default (the zero Options).
func (s *ProfileService) ResolveLLMOptions(ctx context.Context, userID string) analyzer.Options {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		log.Printf("WARN: Failed to resolve LLM settings for user %s, using defaults: %v", userID, err)
		return analyzer.Options{}
	}
	if user.PreferredModel != nil && *user.PreferredModel != "" {
		return analyzer.Options{Model: *user.PreferredModel}
	}
	return analyzer.Options{}
}

// SubmissionOutcome is what a graded submission contributes to the profile.
type SubmissionOutcome struct {
	Score      float64
	Accepted   bool
	FirstSolve bool
	Categories []string
}

// ApplySubmissionOutcome performs the read-modify-write on the user's
// profile: counters, the recent-score window, the difficulty decision and
// the proficiency map, all in one versioned update. A concurrent submission
// by the same user bumps the version and forces a re-read, so no update is
// lost. Returns the difficulty adjustment that was persisted, if any.
//
// The recent-score window and solve counter move only on accepted
// submissions; proficiency moves on every graded attempt.
func (s *ProfileService) ApplySubmissionOutcome(ctx context.Context, userID string, outcome SubmissionOutcome) (*evaluation.Adjustment, error) {
	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		profile, err := s.profileRepo.GetProfile(ctx, userID)
		if err != nil {
			return nil, common.Errorf("load profile for user %s: %w", userID, err)
		}
		expectedVersion := profile.Version

		profile.TotalSubmissions++
		if outcome.Accepted {
			if outcome.FirstSolve {
				profile.TotalProblemsSolved++
			}
			profile.RecentScores = evaluation.PushRecentScore(profile.RecentScores, outcome.Score)
		}

		adjustment := evaluation.EvaluateDifficulty(profile.CurrentLevel, profile.RecentScoresDescending())
		if adjustment.ShouldAdjust {
			profile.CurrentLevel = adjustment.NewLevel
		}

		profile.AlgorithmProficiency = evaluation.UpdateProficiency(
			profile.AlgorithmProficiency, outcome.Categories, outcome.Score)

		err = s.profileRepo.UpdateProfileCAS(ctx, profile, expectedVersion)
		if err == nil {
			if adjustment.ShouldAdjust {
				return &adjustment, nil
			}
			return nil, nil
		}
		if !errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		lastErr = err
		log.Printf("INFO: Profile update conflict for user %s (attempt %d), retrying", userID, attempt+1)
	}
	return nil, common.Errorf("profile update for user %s exhausted %d attempts: %w", userID, s.maxRetries, lastErr)
}
