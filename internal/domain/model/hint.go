package model

import "time"

const (
	MinHintLevel = 1
	MaxHintLevel = 4
)

// HintUsage records that a user unlocked one hint level for one problem.
// One record per (user, problem, level); level L+1 cannot be requested
// before level L exists.
type HintUsage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProblemID string    `json:"problem_id"`
	HintLevel int       `json:"hint_level"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
