package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"algomentor/internal/common"
	"algomentor/internal/domain/model"
)

// UserProfileRepository persists the adaptive-learning state. All writes go
// through a versioned compare-and-swap: an update with a stale version
// affects zero rows and surfaces common.ErrConflict, so callers retry with
// a fresh read instead of silently losing a concurrent update.
type UserProfileRepository interface {
	CreateProfile(ctx context.Context, tx *sql.Tx, profile *model.UserProfile) error
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)
	UpdateProfileCAS(ctx context.Context, profile *model.UserProfile, expectedVersion int) error
}

type pgUserProfileRepository struct {
	db *sql.DB
}

func NewPgUserProfileRepository(db *sql.DB) UserProfileRepository {
	return &pgUserProfileRepository{db: db}
}

func (r *pgUserProfileRepository) CreateProfile(ctx context.Context, tx *sql.Tx, profile *model.UserProfile) error {
	proficiency, err := json.Marshal(profile.AlgorithmProficiency)
	if err != nil {
		return fmt.Errorf("pgUserProfileRepository.CreateProfile: marshal proficiency: %w", err)
	}
	scores, err := json.Marshal(profile.RecentScores)
	if err != nil {
		return fmt.Errorf("pgUserProfileRepository.CreateProfile: marshal scores: %w", err)
	}

	query := `INSERT INTO user_profiles
	          (user_id, current_level, algorithm_proficiency, recent_scores, total_problems_solved, total_submissions, version)
	          VALUES ($1, $2, $3, $4, $5, $6, 1)`
	_, err = tx.ExecContext(ctx, query, profile.UserID, profile.CurrentLevel, proficiency, scores,
		profile.TotalProblemsSolved, profile.TotalSubmissions)
	if err != nil {
		return fmt.Errorf("pgUserProfileRepository.CreateProfile: %w", err)
	}
	profile.Version = 1
	return nil
}

func (r *pgUserProfileRepository) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	query := `SELECT user_id, current_level, algorithm_proficiency, recent_scores,
	                 total_problems_solved, total_submissions, version, updated_at
	          FROM user_profiles WHERE user_id = $1`

	profile := &model.UserProfile{}
	var proficiency, scores []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID, &profile.CurrentLevel, &proficiency, &scores,
		&profile.TotalProblemsSolved, &profile.TotalSubmissions, &profile.Version, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserProfileRepository.GetProfile: %w", err)
	}

	if err := json.Unmarshal(proficiency, &profile.AlgorithmProficiency); err != nil {
		return nil, fmt.Errorf("pgUserProfileRepository.GetProfile: unmarshal proficiency: %w", err)
	}
	if err := json.Unmarshal(scores, &profile.RecentScores); err != nil {
		return nil, fmt.Errorf("pgUserProfileRepository.GetProfile: unmarshal scores: %w", err)
	}
	return profile, nil
}

func (r *pgUserProfileRepository) UpdateProfileCAS(ctx context.Context, profile *model.UserProfile, expectedVersion int) error {
	proficiency, err := json.Marshal(profile.AlgorithmProficiency)
	if err != nil {
		return fmt.Errorf("pgUserProfileRepository.UpdateProfileCAS: marshal proficiency: %w", err)
	}
	scores, err := json.Marshal(profile.RecentScores)
	if err != nil {
		return fmt.Errorf("pgUserProfileRepository.UpdateProfileCAS: marshal scores: %w", err)
	}

	query := `UPDATE user_profiles
	          SET current_level = $1, algorithm_proficiency = $2, recent_scores = $3,
	              total_problems_solved = $4, total_submissions = $5,
	              version = version + 1, updated_at = CURRENT_TIMESTAMP
	          WHERE user_id = $6 AND version = $7`
	result, err := r.db.ExecContext(ctx, query, profile.CurrentLevel, proficiency, scores,
		profile.TotalProblemsSolved, profile.TotalSubmissions, profile.UserID, expectedVersion)
	if err != nil {
		return fmt.Errorf("pgUserProfileRepository.UpdateProfileCAS: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgUserProfileRepository.UpdateProfileCAS: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("profile %s changed concurrently (expected version %d): %w",
			profile.UserID, expectedVersion, common.ErrConflict)
	}
	profile.Version = expectedVersion + 1
	return nil
}
