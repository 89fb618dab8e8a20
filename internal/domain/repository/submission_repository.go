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

// SubmissionRepository is append-only: records are created once and never
// updated or deleted. CreateSubmission writes the submission and its
// per-case results atomically.
type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, sub *model.Submission, results []model.SubmissionTestCaseResult) error
	GetSubmissionByID(ctx context.Context, id string) (*model.Submission, error)
	GetSubmissionsForUserProblem(ctx context.Context, userID, problemID string, limit, offset int) ([]model.Submission, error)
	HasAcceptedSubmission(ctx context.Context, userID, problemID string) (bool, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) CreateSubmission(ctx context.Context, sub *model.Submission, results []model.SubmissionTestCaseResult) error {
	hintsUsed, err := json.Marshal(sub.HintsUsed)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.CreateSubmission: marshal hints: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.CreateSubmission: begin tx: %w", err)
	}
	defer tx.Rollback()

	subQuery := `INSERT INTO submissions
	             (id, user_id, problem_id, language, code, status, passed_cases, total_cases,
	              execution_time_ms, score, correctness_coef, time_coef, hint_penalty_coef, quality_coef, hints_used)
	             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = tx.ExecContext(ctx, subQuery, sub.ID, sub.UserID, sub.ProblemID, sub.Language, sub.Code,
		sub.Status, sub.PassedCases, sub.TotalCases, sub.ExecutionTimeMs, sub.Score,
		sub.Correctness, sub.TimeCoef, sub.HintPenalty, sub.Quality, hintsUsed)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.CreateSubmission: %w", err)
	}

	resQuery := `INSERT INTO submission_test_results
	             (id, submission_id, test_case_id, passed, actual_output, stderr, execution_time_ms, memory_kb, error_detail)
	             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, res := range results {
		if _, err := tx.ExecContext(ctx, resQuery, res.ID, res.SubmissionID, res.TestCaseID, res.Passed,
			res.ActualOutput, res.Stderr, res.ExecutionTimeMs, res.MemoryKb, res.ErrorDetail); err != nil {
			return fmt.Errorf("pgSubmissionRepository.CreateSubmission: test result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgSubmissionRepository.CreateSubmission: commit: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) GetSubmissionByID(ctx context.Context, id string) (*model.Submission, error) {
	query := `SELECT id, user_id, problem_id, language, code, status, passed_cases, total_cases,
	                 execution_time_ms, score, correctness_coef, time_coef, hint_penalty_coef, quality_coef,
	                 hints_used, submitted_at
	          FROM submissions WHERE id = $1`

	sub := &model.Submission{}
	var hintsUsed []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.UserID, &sub.ProblemID, &sub.Language, &sub.Code, &sub.Status,
		&sub.PassedCases, &sub.TotalCases, &sub.ExecutionTimeMs, &sub.Score,
		&sub.Correctness, &sub.TimeCoef, &sub.HintPenalty, &sub.Quality, &hintsUsed, &sub.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.GetSubmissionByID: %w", err)
	}
	if err := json.Unmarshal(hintsUsed, &sub.HintsUsed); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.GetSubmissionByID: unmarshal hints: %w", err)
	}
	return sub, nil
}

func (r *pgSubmissionRepository) GetSubmissionsForUserProblem(ctx context.Context, userID, problemID string, limit, offset int) ([]model.Submission, error) {
	query := `SELECT id, user_id, problem_id, language, status, passed_cases, total_cases,
	                 execution_time_ms, score, submitted_at
	          FROM submissions WHERE user_id = $1 AND problem_id = $2
	          ORDER BY submitted_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, query, userID, problemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.GetSubmissionsForUserProblem: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var sub model.Submission
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.ProblemID, &sub.Language, &sub.Status,
			&sub.PassedCases, &sub.TotalCases, &sub.ExecutionTimeMs, &sub.Score, &sub.SubmittedAt); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.GetSubmissionsForUserProblem: scan: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *pgSubmissionRepository) HasAcceptedSubmission(ctx context.Context, userID, problemID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM submissions WHERE user_id = $1 AND problem_id = $2 AND status = $3)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, problemID, model.StatusAccepted).Scan(&exists); err != nil {
		return false, fmt.Errorf("pgSubmissionRepository.HasAcceptedSubmission: %w", err)
	}
	return exists, nil
}
