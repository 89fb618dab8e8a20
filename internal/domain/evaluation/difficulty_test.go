package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateDifficulty_InsufficientData(t *testing.T) {
	assert.False(t, EvaluateDifficulty(5, nil).ShouldAdjust)
	assert.False(t, EvaluateDifficulty(5, []float64{95}).ShouldAdjust)
}

func TestEvaluateDifficulty_IncreaseOnThreeHighScores(t *testing.T) {
	adj := EvaluateDifficulty(4, []float64{90, 85, 82})
	assert.True(t, adj.ShouldAdjust)
	assert.Equal(t, DirectionUp, adj.Direction)
	assert.Equal(t, 5, adj.NewLevel)
	assert.Equal(t, "3 consecutive scores >= 80", adj.Reason)
}

func TestEvaluateDifficulty_IncreaseOnHighAverage(t *testing.T) {
	// No run of 3 >= 80, but the 5-score mean is 86.
	adj := EvaluateDifficulty(4, []float64{95, 75, 95, 75, 90})
	assert.True(t, adj.ShouldAdjust)
	assert.Equal(t, DirectionUp, adj.Direction)
	assert.Equal(t, 5, adj.NewLevel)
	assert.Equal(t, "5-submission average >= 85", adj.Reason)
}

func TestEvaluateDifficulty_DecreaseOnTwoLowScores(t *testing.T) {
	adj := EvaluateDifficulty(3, []float64{20, 30})
	assert.True(t, adj.ShouldAdjust)
	assert.Equal(t, DirectionDown, adj.Direction)
	assert.Equal(t, 2, adj.NewLevel)
	assert.Equal(t, "2 consecutive scores < 50", adj.Reason)
}

func TestEvaluateDifficulty_DecreaseOnLowAverage(t *testing.T) {
	// Most recent two are mixed, but the 5-score mean is below 40.
	adj := EvaluateDifficulty(3, []float64{60, 30, 30, 30, 30})
	assert.True(t, adj.ShouldAdjust)
	assert.Equal(t, DirectionDown, adj.Direction)
	assert.Equal(t, 2, adj.NewLevel)
	assert.Equal(t, "5-submission average < 40", adj.Reason)
}

func TestEvaluateDifficulty_IncreaseTakesPrecedence(t *testing.T) {
	// Satisfies the 3-high-scores increase rule; older low scores in the
	// window must not trigger a decrease in the same evaluation.
	adj := EvaluateDifficulty(5, []float64{90, 88, 85, 10, 10})
	assert.True(t, adj.ShouldAdjust)
	assert.Equal(t, DirectionUp, adj.Direction)
}

func TestEvaluateDifficulty_CapBlocksIncrease(t *testing.T) {
	adj := EvaluateDifficulty(MaxLevel, []float64{90, 90, 90})
	assert.False(t, adj.ShouldAdjust)
	assert.Equal(t, MaxLevel, adj.NewLevel)
}

func TestEvaluateDifficulty_FloorBlocksDecrease(t *testing.T) {
	adj := EvaluateDifficulty(MinLevel, []float64{10, 10})
	assert.False(t, adj.ShouldAdjust)
	assert.Equal(t, MinLevel, adj.NewLevel)
}

func TestEvaluateDifficulty_WindowTruncatedToFive(t *testing.T) {
	// The five most recent average exactly 85; the sixth score would drag
	// the mean down if counted. Only the five most recent may be used.
	adj := EvaluateDifficulty(5, []float64{85, 75, 86, 85, 94, 0})
	assert.True(t, adj.ShouldAdjust)
	assert.Equal(t, DirectionUp, adj.Direction)
}

func TestEvaluateDifficulty_SteadyMiddleScores(t *testing.T) {
	adj := EvaluateDifficulty(5, []float64{70, 65, 72, 68, 75})
	assert.False(t, adj.ShouldAdjust)
	assert.Equal(t, 5, adj.NewLevel)
}
