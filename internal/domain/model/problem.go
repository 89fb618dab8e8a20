package model

import (
	"time"
)

const (
	MinDifficulty = 1
	MaxDifficulty = 10
)

type Problem struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Description    string     `json:"description"`
	Difficulty     int        `json:"difficulty"` // 1..10
	AlgorithmTypes []string   `json:"algorithm_types"`
	TestCases      []TestCase `json:"test_cases,omitempty"` // hidden, admin only view
	CreatedByID    *string    `json:"created_by_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type TestCase struct {
	ID             string    `json:"id"`
	ProblemID      string    `json:"problem_id"`
	Input          string    `json:"input"`
	ExpectedOutput string    `json:"expected_output"`
	SortOrder      int       `json:"sort_order"`
	CreatedAt      time.Time `json:"created_at"`
}
