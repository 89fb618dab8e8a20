package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	HashedPassword string  `json:"-"` // Not exposed
	Role           string  `json:"role"`
	// PreferredModel overrides the platform default LLM model for this
	// user's analyzer and hint calls. Nil means use the platform default.
	PreferredModel *string   `json:"preferred_model,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserProfile is the adaptive-learning state attached to a user. It is
// mutated by every graded submission, always through a versioned
// compare-and-swap so concurrent submissions cannot lose updates.
type UserProfile struct {
	UserID               string             `json:"user_id"`
	CurrentLevel         int                `json:"current_level"` // 1..10
	AlgorithmProficiency map[string]float64 `json:"algorithm_proficiency"`
	RecentScores         []float64          `json:"recent_scores"` // oldest first, capacity 10
	TotalProblemsSolved  int                `json:"total_problems_solved"`
	TotalSubmissions     int                `json:"total_submissions"`
	Version              int                `json:"-"` // optimistic concurrency token
	UpdatedAt            time.Time          `json:"updated_at"`
}

// RecentScoresDescending returns the recent-score window ordered
// most-recent-first, the shape the difficulty rules consume.
func (p *UserProfile) RecentScoresDescending() []float64 {
	desc := make([]float64, len(p.RecentScores))
	for i, s := range p.RecentScores {
		desc[len(p.RecentScores)-1-i] = s
	}
	return desc
}
