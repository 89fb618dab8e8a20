package evaluation

const (
	MinLevel = 1
	MaxLevel = 10

	// difficultyWindow is how many of the most recent scores are considered.
	difficultyWindow = 5
)

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

type Adjustment struct {
	ShouldAdjust bool      `json:"should_adjust"`
	Direction    Direction `json:"direction,omitempty"`
	NewLevel     int       `json:"new_level"`
	Reason       string    `json:"reason,omitempty"`
}

// EvaluateDifficulty decides whether a user's difficulty level should move,
// based on their scored submissions ordered most-recent-first.
//
// Increase is checked before decrease; only one adjustment fires per
// evaluation, and a level already at a boundary blocks movement in that
// direction. Fewer than 2 scores is insufficient signal: never adjust.
func EvaluateDifficulty(currentLevel int, recentScoresDesc []float64) Adjustment {
	none := Adjustment{ShouldAdjust: false, NewLevel: currentLevel}

	if len(recentScoresDesc) < 2 {
		return none
	}

	scores := recentScoresDesc
	if len(scores) > difficultyWindow {
		scores = scores[:difficultyWindow]
	}

	if currentLevel < MaxLevel {
		if len(scores) >= 3 && allAtLeast(scores[:3], 80) {
			return Adjustment{
				ShouldAdjust: true,
				Direction:    DirectionUp,
				NewLevel:     currentLevel + 1,
				Reason:       "3 consecutive scores >= 80",
			}
		}
		if len(scores) >= 5 && mean(scores) >= 85 {
			return Adjustment{
				ShouldAdjust: true,
				Direction:    DirectionUp,
				NewLevel:     currentLevel + 1,
				Reason:       "5-submission average >= 85",
			}
		}
	}

	if currentLevel > MinLevel {
		if scores[0] < 50 && scores[1] < 50 {
			return Adjustment{
				ShouldAdjust: true,
				Direction:    DirectionDown,
				NewLevel:     currentLevel - 1,
				Reason:       "2 consecutive scores < 50",
			}
		}
		if len(scores) >= 5 && mean(scores) < 40 {
			return Adjustment{
				ShouldAdjust: true,
				Direction:    DirectionDown,
				NewLevel:     currentLevel - 1,
				Reason:       "5-submission average < 40",
			}
		}
	}

	return none
}

func allAtLeast(scores []float64, threshold float64) bool {
	for _, s := range scores {
		if s < threshold {
			return false
		}
	}
	return true
}

func mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
