package evaluation

import (
	"math"

	"algomentor/internal/common"
)

// Expected solve times (ms) per difficulty band. Only used as the
// denominator of the time ratio, never as a hard limit.
const (
	expectedTimeTrivialMs = 300_000
	expectedTimeEasyMs    = 600_000
	expectedTimeMediumMs  = 900_000
	expectedTimeHardMs    = 1_200_000
	expectedTimeExpertMs  = 1_800_000
)

type ScoreInput struct {
	PassedCases     int
	TotalCases      int
	ExecutionTimeMs int
	Difficulty      int // 1..10
	HintsUsed       []int
	// Quality is the optional code-quality coefficient in [0,1].
	// Nil means quality analysis was skipped and counts as 1.0.
	Quality *float64
}

type ScoreResult struct {
	FinalScore             int     `json:"final_score"`
	CorrectnessCoefficient float64 `json:"correctness_coefficient"`
	TimeCoefficient        float64 `json:"time_coefficient"`
	HintPenaltyCoefficient float64 `json:"hint_penalty_coefficient"`
	QualityCoefficient     float64 `json:"quality_coefficient"`
}

// ComputeScore turns raw test execution results into a 100-point score
// via four multiplicative coefficients. Deterministic and side-effect free.
//
// The final score is intentionally not clamped at 100: a full pass inside
// half the expected time earns the 1.2 time bonus, so 120 is reachable.
func ComputeScore(in ScoreInput) (ScoreResult, error) {
	if in.PassedCases < 0 || in.TotalCases < 0 {
		return ScoreResult{}, common.Errorf("test case counts must be non-negative: %w", common.ErrValidation)
	}
	if in.PassedCases > in.TotalCases {
		return ScoreResult{}, common.Errorf("passed cases %d exceed total cases %d: %w", in.PassedCases, in.TotalCases, common.ErrValidation)
	}
	if in.ExecutionTimeMs < 0 {
		return ScoreResult{}, common.Errorf("execution time must be non-negative: %w", common.ErrValidation)
	}
	if in.Difficulty < 1 || in.Difficulty > 10 {
		return ScoreResult{}, common.Errorf("difficulty %d out of range 1..10: %w", in.Difficulty, common.ErrValidation)
	}
	for _, level := range in.HintsUsed {
		if level < 1 || level > 4 {
			return ScoreResult{}, common.Errorf("hint level %d out of range 1..4: %w", level, common.ErrValidation)
		}
	}

	correctness := correctnessCoefficient(in.PassedCases, in.TotalCases)
	timeCoef := timeCoefficient(in.ExecutionTimeMs, expectedTimeMs(in.Difficulty))
	hintPenalty := hintPenaltyCoefficient(in.HintsUsed)

	quality := 1.0
	if in.Quality != nil {
		quality = *in.Quality
	}

	final := math.Round(100 * correctness * timeCoef * hintPenalty * quality)

	return ScoreResult{
		FinalScore:             int(final),
		CorrectnessCoefficient: correctness,
		TimeCoefficient:        timeCoef,
		HintPenaltyCoefficient: hintPenalty,
		QualityCoefficient:     quality,
	}, nil
}

func correctnessCoefficient(passed, total int) float64 {
	if total == 0 {
		return 0.0 // pass rate defined as 0, not NaN
	}
	rate := float64(passed) / float64(total)
	switch {
	case rate == 1.0:
		return 1.0
	case rate >= 0.8:
		return 0.7
	case rate >= 0.5:
		return 0.4
	default:
		return 0.0
	}
}

func expectedTimeMs(difficulty int) int {
	switch {
	case difficulty <= 2:
		return expectedTimeTrivialMs
	case difficulty <= 4:
		return expectedTimeEasyMs
	case difficulty <= 6:
		return expectedTimeMediumMs
	case difficulty <= 8:
		return expectedTimeHardMs
	default:
		return expectedTimeExpertMs
	}
}

func timeCoefficient(executionMs, expectedMs int) float64 {
	ratio := float64(executionMs) / float64(expectedMs)
	switch {
	case ratio < 0.5:
		return 1.2
	case ratio <= 1.0:
		return 1.0
	case ratio <= 2.0:
		return 0.9
	default:
		return 0.7
	}
}

func hintPenaltyCoefficient(hintsUsed []int) float64 {
	maxLevel := 0
	for _, level := range hintsUsed {
		if level > maxLevel {
			maxLevel = level
		}
	}
	switch maxLevel {
	case 0:
		return 1.0
	case 1:
		return 0.95
	case 2:
		return 0.85
	case 3:
		return 0.70
	default:
		return 0.50
	}
}
