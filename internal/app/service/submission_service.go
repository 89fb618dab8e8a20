package service

import (
	"context"
	"log"
	"strings"

	"algomentor/internal/common"
	"algomentor/internal/domain/evaluation"
	"algomentor/internal/domain/model"
	"algomentor/internal/domain/repository"
	"algomentor/internal/platform/analyzer"
	"algomentor/internal/platform/judge0"

	"github.com/google/uuid"
)

// CodeRunner executes one test case in the external sandbox. A returned
// error means the runner itself failed (distinct from wrong output).
type CodeRunner interface {
	RunTestCase(ctx context.Context, code string, languageID int, stdin, expectedOutput string) (*judge0.CaseResult, error)
}

// QualityAnalyzer rates an accepted solution. Best-effort: the pipeline
// falls back to a neutral coefficient when it fails.
type QualityAnalyzer interface {
	Analyze(ctx context.Context, code, language, problemDescription string, opts analyzer.Options) (*analyzer.QualityReport, error)
}

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	hintRepo       repository.HintUsageRepository
	problemService *ProblemService
	profileService *ProfileService
	runner         CodeRunner
	analyzer       QualityAnalyzer
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	hintRepo repository.HintUsageRepository,
	problemService *ProblemService,
	profileService *ProfileService,
	runner CodeRunner,
	qualityAnalyzer QualityAnalyzer,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		hintRepo:       hintRepo,
		problemService: problemService,
		profileService: profileService,
		runner:         runner,
		analyzer:       qualityAnalyzer,
	}
}

type CreateSubmissionRequest struct {
	ProblemID string `json:"problem_id"`
	Language  string `json:"language"`
	Code      string `json:"code"`
}

// DifficultyNotice tells the user their level moved as a result of this
// submission.
type DifficultyNotice struct {
	Changed   bool                 `json:"changed"`
	NewLevel  int                  `json:"new_level,omitempty"`
	Direction evaluation.Direction `json:"direction,omitempty"`
	Reason    string               `json:"reason,omitempty"`
}

type SubmissionResponse struct {
	SubmissionID         string                           `json:"submission_id"`
	Status               model.SubmissionStatus           `json:"status"`
	PassedCases          int                              `json:"passed_cases"`
	TotalCases           int                              `json:"total_cases"`
	ExecutionTimeMs      int                              `json:"execution_time_ms"`
	Score                evaluation.ScoreResult           `json:"score"`
	TestCaseResults      []model.SubmissionTestCaseResult `json:"test_case_results"`
	DifficultyAdjustment *DifficultyNotice                `json:"difficulty_adjustment,omitempty"`
}

// Submit drives one code submission through the full pipeline:
// run tests, score, persist, adjust difficulty, update proficiency.
//
// The submission record write is the request's point of no return: a
// failure there fails the request, while every profile mutation after it
// is best-effort and only logged. The persisted submission history stays
// the source of truth profile state could be recomputed from.
func (s *SubmissionService) Submit(ctx context.Context, userID string, req CreateSubmissionRequest) (*SubmissionResponse, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, common.Errorf("code is required: %w", common.ErrValidation)
	}
	if req.ProblemID == "" {
		return nil, common.Errorf("problem_id is required: %w", common.ErrValidation)
	}
	language, ok := model.LanguageBySlug(req.Language)
	if !ok {
		return nil, common.Errorf("language %q is not supported: %w", req.Language, common.ErrValidation)
	}

	problem, testCases, err := s.problemService.GetProblemWithTestCases(ctx, req.ProblemID)
	if err != nil {
		return nil, common.Errorf("problem %s: %w", req.ProblemID, err)
	}

	// Whether this problem was solved before must be decided before the new
	// submission is persisted, or the first accept would never be counted.
	alreadySolved, err := s.submissionRepo.HasAcceptedSubmission(ctx, userID, problem.ID)
	if err != nil {
		log.Printf("WARN: Could not check prior solves for user %s problem %s: %v", userID, problem.ID, err)
		alreadySolved = true // fail closed: don't double-count solves
	}

	submissionID := uuid.NewString()
	caseResults, passed, executionTimeMs := s.runTestCases(ctx, submissionID, req.Code, language.RunnerID, testCases)

	status := model.StatusWrongAnswer
	if len(testCases) > 0 && passed == len(testCases) {
		status = model.StatusAccepted
	}

	var quality *float64
	if status == model.StatusAccepted {
		quality = s.analyzeQuality(ctx, userID, req.Code, language.Slug, problem.Description)
	}

	hintsUsed, err := s.hintRepo.GetUnlockedLevels(ctx, userID, problem.ID)
	if err != nil {
		return nil, common.Errorf("failed to load hint usage: %w", err)
	}

	score, err := evaluation.ComputeScore(evaluation.ScoreInput{
		PassedCases:     passed,
		TotalCases:      len(testCases),
		ExecutionTimeMs: executionTimeMs,
		Difficulty:      problem.Difficulty,
		HintsUsed:       hintsUsed,
		Quality:         quality,
	})
	if err != nil {
		return nil, common.Errorf("scoring failed: %w", err)
	}

	submission := &model.Submission{
		ID:              submissionID,
		UserID:          userID,
		ProblemID:       problem.ID,
		Language:        language.Slug,
		Code:            req.Code,
		Status:          status,
		PassedCases:     passed,
		TotalCases:      len(testCases),
		ExecutionTimeMs: executionTimeMs,
		Score:           score.FinalScore,
		Correctness:     score.CorrectnessCoefficient,
		TimeCoef:        score.TimeCoefficient,
		HintPenalty:     score.HintPenaltyCoefficient,
		Quality:         score.QualityCoefficient,
		HintsUsed:       hintsUsed,
	}
	if err := s.submissionRepo.CreateSubmission(ctx, submission, caseResults); err != nil {
		return nil, common.Errorf("failed to persist submission: %w", err)
	}

	// Profile state updates are best-effort from here on: the submission is
	// durably recorded, so a failure below must not fail the request.
	notice := s.updateProfile(ctx, userID, problem, status, float64(score.FinalScore), alreadySolved)

	return &SubmissionResponse{
		SubmissionID:         submission.ID,
		Status:               status,
		PassedCases:          passed,
		TotalCases:           len(testCases),
		ExecutionTimeMs:      executionTimeMs,
		Score:                score,
		TestCaseResults:      caseResults,
		DifficultyAdjustment: notice,
	}, nil
}

// runTestCases executes every test case, never aborting on a runner-level
// failure: a case the sandbox could not run counts as failed with an error
// detail. Scoring needs the complete pass/fail vector, so all cases are
// collected before returning. ExecutionTimeMs is the slowest case, as the
// representative execution time.
func (s *SubmissionService) runTestCases(ctx context.Context, submissionID, code string, runnerID int, testCases []model.TestCase) ([]model.SubmissionTestCaseResult, int, int) {
	results := make([]model.SubmissionTestCaseResult, 0, len(testCases))
	passed := 0
	maxTimeMs := 0

	for _, tc := range testCases {
		record := model.SubmissionTestCaseResult{
			ID:           uuid.NewString(),
			SubmissionID: submissionID,
			TestCaseID:   tc.ID,
		}

		caseResult, err := s.runner.RunTestCase(ctx, code, runnerID, tc.Input, tc.ExpectedOutput)
		if err != nil {
			log.Printf("WARN: Runner failed on test case %s: %v", tc.ID, err)
			detail := err.Error()
			record.ErrorDetail = &detail
			results = append(results, record)
			continue
		}

		record.Passed = caseResult.Passed
		if caseResult.Stdout != "" {
			stdout := caseResult.Stdout
			record.ActualOutput = &stdout
		}
		if caseResult.Stderr != "" {
			stderr := caseResult.Stderr
			record.Stderr = &stderr
		}
		timeMs := caseResult.TimeMs
		record.ExecutionTimeMs = &timeMs
		memoryKb := caseResult.MemoryKb
		record.MemoryKb = &memoryKb

		if caseResult.Passed {
			passed++
		}
		if caseResult.TimeMs > maxTimeMs {
			maxTimeMs = caseResult.TimeMs
		}
		results = append(results, record)
	}

	return results, passed, maxTimeMs
}

// analyzeQuality returns the quality coefficient for an accepted solution,
// or nil (neutral 1.0) when analysis fails. Analyzer failure never blocks
// a submission.
func (s *SubmissionService) analyzeQuality(ctx context.Context, userID, code, language, problemDescription string) *float64 {
	opts := s.profileService.ResolveLLMOptions(ctx, userID)
	report, err := s.analyzer.Analyze(ctx, code, language, problemDescription, opts)
	if err != nil {
		log.Printf("WARN: Quality analysis failed, using neutral coefficient: %v", err)
		return nil
	}
	coef := report.Coefficient()
	return &coef
}

func (s *SubmissionService) updateProfile(ctx context.Context, userID string, problem *model.Problem, status model.SubmissionStatus, score float64, alreadySolved bool) *DifficultyNotice {
	accepted := status == model.StatusAccepted
	adjustment, err := s.profileService.ApplySubmissionOutcome(ctx, userID, SubmissionOutcome{
		Score:      score,
		Accepted:   accepted,
		FirstSolve: accepted && !alreadySolved,
		Categories: problem.AlgorithmTypes,
	})
	if err != nil {
		log.Printf("ERROR: Profile update failed for user %s (submission recorded, response unaffected): %v", userID, err)
		return nil
	}
	if adjustment == nil {
		return nil
	}
	return &DifficultyNotice{
		Changed:   true,
		NewLevel:  adjustment.NewLevel,
		Direction: adjustment.Direction,
		Reason:    adjustment.Reason,
	}
}

// GetSubmission returns one submission with its per-case details.
func (s *SubmissionService) GetSubmission(ctx context.Context, userID, submissionID string) (*model.Submission, error) {
	submission, err := s.submissionRepo.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.UserID != userID {
		return nil, common.Errorf("submission belongs to another user: %w", common.ErrForbidden)
	}
	return submission, nil
}

// GetHistory lists the user's submissions for one problem, newest first.
func (s *SubmissionService) GetHistory(ctx context.Context, userID, problemID string, limit, offset int) ([]model.Submission, error) {
	return s.submissionRepo.GetSubmissionsForUserProblem(ctx, userID, problemID, limit, offset)
}
