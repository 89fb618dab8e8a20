package evaluation

import "math"

const (
	// DefaultProficiency is assumed for a category the user has never attempted.
	DefaultProficiency = 5.0

	MinProficiency = 1.0
	MaxProficiency = 10.0

	// RecentScoreCapacity bounds the FIFO window of a user's latest final scores.
	RecentScoreCapacity = 10
)

// UpdateProficiency applies the score-driven delta to every category the
// problem exercises and returns a fresh map. Categories the problem does not
// touch are carried over unchanged. Pure: the input map is not mutated.
func UpdateProficiency(current map[string]float64, categories []string, score float64) map[string]float64 {
	updated := make(map[string]float64, len(current)+len(categories))
	for category, value := range current {
		updated[category] = value
	}

	delta := proficiencyDelta(score)
	for _, category := range categories {
		value, ok := updated[category]
		if !ok {
			value = DefaultProficiency
		}
		value = clamp(value+delta, MinProficiency, MaxProficiency)
		updated[category] = roundToTenth(value)
	}
	return updated
}

func proficiencyDelta(score float64) float64 {
	switch {
	case score >= 90:
		return 0.3
	case score >= 80:
		return 0.2
	case score >= 70:
		return 0.1
	case score >= 60:
		return 0.0
	case score >= 50:
		return -0.1
	default:
		return -0.2
	}
}

// PushRecentScore appends a score to the fixed-capacity FIFO window,
// evicting the oldest entry when full. Returns a new slice.
func PushRecentScore(window []float64, score float64) []float64 {
	updated := make([]float64, 0, len(window)+1)
	updated = append(updated, window...)
	updated = append(updated, score)
	if len(updated) > RecentScoreCapacity {
		updated = updated[len(updated)-RecentScoreCapacity:]
	}
	return updated
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
