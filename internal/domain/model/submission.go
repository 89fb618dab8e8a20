package model

import "time"

type SubmissionStatus string

const (
	StatusAccepted    SubmissionStatus = "accepted"
	StatusWrongAnswer SubmissionStatus = "wrong_answer"
)

// Submission is append-only: created once per submit, never mutated.
type Submission struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	ProblemID       string           `json:"problem_id"`
	Language        string           `json:"language"`
	Code            string           `json:"code"` // Might omit from general listings
	Status          SubmissionStatus `json:"status"`
	PassedCases     int              `json:"passed_cases"`
	TotalCases      int              `json:"total_cases"`
	ExecutionTimeMs int              `json:"execution_time_ms"`
	Score           int              `json:"score"`
	Correctness     float64          `json:"correctness_coefficient"`
	TimeCoef        float64          `json:"time_coefficient"`
	HintPenalty     float64          `json:"hint_penalty_coefficient"`
	Quality         float64          `json:"quality_coefficient"`
	HintsUsed       []int            `json:"hints_used"`
	SubmittedAt     time.Time        `json:"submitted_at"`

	TestCaseResults []SubmissionTestCaseResult `json:"test_case_results,omitempty"`
}

type SubmissionTestCaseResult struct {
	ID              string    `json:"id"`
	SubmissionID    string    `json:"submission_id"`
	TestCaseID      string    `json:"test_case_id"`
	Passed          bool      `json:"passed"`
	ActualOutput    *string   `json:"actual_output,omitempty"`
	Stderr          *string   `json:"stderr,omitempty"`
	ExecutionTimeMs *int      `json:"execution_time_ms,omitempty"`
	MemoryKb        *int      `json:"memory_kb,omitempty"`
	// ErrorDetail is set when the runner itself failed (timeout, crash),
	// as opposed to the code producing wrong output.
	ErrorDetail *string   `json:"error_detail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
