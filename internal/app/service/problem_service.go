package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"strings"
	"time"

	"algomentor/internal/common"
	"algomentor/internal/domain/model"
	"algomentor/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
)

const problemCacheKeyPrefix = "problem:"

type ProblemService struct {
	problemRepo repository.ProblemRepository
	rdb         *redis.Client
	cacheTTL    time.Duration
	db          *sql.DB // For transactions
}

func NewProblemService(problemRepo repository.ProblemRepository, rdb *redis.Client, cacheTTLSeconds int, db *sql.DB) *ProblemService {
	return &ProblemService{
		problemRepo: problemRepo,
		rdb:         rdb,
		cacheTTL:    time.Duration(cacheTTLSeconds) * time.Second,
		db:          db,
	}
}

type CreateProblemRequest struct {
	Title          string                  `json:"title"`
	Description    string                  `json:"description"`
	Difficulty     int                     `json:"difficulty"`
	AlgorithmTypes []string                `json:"algorithm_types"`
	TestCases      []CreateTestCaseRequest `json:"test_cases"`
}

type CreateTestCaseRequest struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

func (s *ProblemService) CreateProblem(ctx context.Context, userID string, req CreateProblemRequest) (*model.Problem, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, common.Errorf("title is required: %w", common.ErrValidation)
	}
	if req.Difficulty < model.MinDifficulty || req.Difficulty > model.MaxDifficulty {
		return nil, common.Errorf("difficulty must be in [%d,%d]: %w", model.MinDifficulty, model.MaxDifficulty, common.ErrValidation)
	}
	if len(req.AlgorithmTypes) == 0 {
		return nil, common.Errorf("at least one algorithm type is required: %w", common.ErrValidation)
	}
	if len(req.TestCases) == 0 {
		return nil, common.Errorf("at least one test case is required: %w", common.ErrValidation)
	}

	problem := &model.Problem{
		ID:             uuid.NewString(),
		Title:          req.Title,
		Slug:           slug.Make(req.Title),
		Description:    req.Description,
		Difficulty:     req.Difficulty,
		AlgorithmTypes: req.AlgorithmTypes,
		CreatedByID:    &userID,
	}

	cases := make([]model.TestCase, 0, len(req.TestCases))
	for i, tc := range req.TestCases {
		cases = append(cases, model.TestCase{
			ID:             uuid.NewString(),
			ProblemID:      problem.ID,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			SortOrder:      i,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.problemRepo.CreateProblem(ctx, tx, problem); err != nil {
		return nil, common.Errorf("failed to create problem: %w", err)
	}
	if err := s.problemRepo.CreateTestCases(ctx, tx, cases); err != nil {
		return nil, common.Errorf("failed to create test cases: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	problem.TestCases = cases
	return problem, nil
}

// cachedProblem is the redis representation: the problem plus its hidden
// test cases, so the submission pipeline needs a single lookup.
type cachedProblem struct {
	Problem   model.Problem    `json:"problem"`
	TestCases []model.TestCase `json:"test_cases"`
}

// GetProblemWithTestCases fetches a problem and its hidden test cases,
// serving from the redis cache when warm. Cache failures degrade to the
// database, never to an error.
func (s *ProblemService) GetProblemWithTestCases(ctx context.Context, problemID string) (*model.Problem, []model.TestCase, error) {
	cacheKey := problemCacheKeyPrefix + problemID

	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached cachedProblem
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached.Problem, cached.TestCases, nil
			}
			log.Printf("WARN: Corrupt problem cache entry for %s, falling through to DB", problemID)
		}
	}

	problem, err := s.problemRepo.FindProblemByID(ctx, problemID)
	if err != nil {
		return nil, nil, err
	}
	cases, err := s.problemRepo.GetTestCasesByProblemID(ctx, problemID)
	if err != nil {
		return nil, nil, err
	}

	if s.rdb != nil {
		payload, err := json.Marshal(cachedProblem{Problem: *problem, TestCases: cases})
		if err == nil {
			if err := s.rdb.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				log.Printf("WARN: Failed to cache problem %s: %v", problemID, err)
			}
		}
	}

	return problem, cases, nil
}

// GetProblemBySlug is the public problem view: no hidden test cases.
func (s *ProblemService) GetProblemBySlug(ctx context.Context, problemSlug string) (*model.Problem, error) {
	return s.problemRepo.FindProblemBySlug(ctx, problemSlug)
}

func (s *ProblemService) ListProblems(ctx context.Context, page, pageSize int, difficulty *int) ([]model.Problem, int, error) {
	return s.problemRepo.ListProblems(ctx, page, pageSize, difficulty)
}
