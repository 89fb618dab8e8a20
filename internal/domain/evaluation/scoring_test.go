package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeScore_FullPassWithTimeBonus(t *testing.T) {
	// 10/10 in 250s on a mid-band problem: ratio 250000/900000 < 0.5
	// earns the 1.2 bonus and the un-clamped score of 120.
	result, err := ComputeScore(ScoreInput{
		PassedCases:     10,
		TotalCases:      10,
		ExecutionTimeMs: 250_000,
		Difficulty:      5,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.CorrectnessCoefficient)
	assert.Equal(t, 1.2, result.TimeCoefficient)
	assert.Equal(t, 1.0, result.HintPenaltyCoefficient)
	assert.Equal(t, 1.0, result.QualityCoefficient)
	assert.Equal(t, 120, result.FinalScore)
}

func TestComputeScore_PartialPassWithHint(t *testing.T) {
	// 7/10 sits in the [0.5,0.8) pass-rate band, so correctness is 0.4.
	// With a level-2 hint and slightly over expected time:
	// round(100 * 0.4 * 0.9 * 0.85) = 31.
	result, err := ComputeScore(ScoreInput{
		PassedCases:     7,
		TotalCases:      10,
		ExecutionTimeMs: 1_000_000,
		Difficulty:      5,
		HintsUsed:       []int{2},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.4, result.CorrectnessCoefficient)
	assert.Equal(t, 0.9, result.TimeCoefficient)
	assert.Equal(t, 0.85, result.HintPenaltyCoefficient)
	assert.Equal(t, 1.0, result.QualityCoefficient)
	assert.Equal(t, 31, result.FinalScore)
}

func TestComputeScore_ZeroTestCases(t *testing.T) {
	result, err := ComputeScore(ScoreInput{
		PassedCases:     0,
		TotalCases:      0,
		ExecutionTimeMs: 1000,
		Difficulty:      3,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.CorrectnessCoefficient)
	assert.Equal(t, 0, result.FinalScore)
}

func TestComputeScore_CorrectnessBands(t *testing.T) {
	tests := []struct {
		name   string
		passed int
		total  int
		want   float64
	}{
		{"all pass", 10, 10, 1.0},
		{"nine of ten", 9, 10, 0.7},
		{"exactly 80 percent", 8, 10, 0.7},
		{"seven of ten", 7, 10, 0.4},
		{"exactly half", 5, 10, 0.4},
		{"below half", 4, 10, 0.0},
		{"none pass", 0, 10, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputeScore(ScoreInput{
				PassedCases:     tt.passed,
				TotalCases:      tt.total,
				ExecutionTimeMs: 100_000,
				Difficulty:      5,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.CorrectnessCoefficient)
		})
	}
}

func TestComputeScore_TimeBands(t *testing.T) {
	// Difficulty 5 selects a 900000ms expected time.
	tests := []struct {
		name   string
		execMs int
		want   float64
	}{
		{"under half expected", 449_999, 1.2},
		{"exactly half expected", 450_000, 1.0},
		{"exactly expected", 900_000, 1.0},
		{"within double", 1_800_000, 0.9},
		{"over double", 1_800_001, 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputeScore(ScoreInput{
				PassedCases:     10,
				TotalCases:      10,
				ExecutionTimeMs: tt.execMs,
				Difficulty:      5,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.TimeCoefficient)
		})
	}
}

func TestComputeScore_ExpectedTimeByDifficulty(t *testing.T) {
	tests := []struct {
		difficulty int
		want       int
	}{
		{1, 300_000},
		{2, 300_000},
		{3, 600_000},
		{4, 600_000},
		{5, 900_000},
		{6, 900_000},
		{7, 1_200_000},
		{8, 1_200_000},
		{9, 1_800_000},
		{10, 1_800_000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, expectedTimeMs(tt.difficulty), "difficulty %d", tt.difficulty)
	}
}

func TestComputeScore_HintPenaltyMonotonic(t *testing.T) {
	base := ScoreInput{PassedCases: 10, TotalCases: 10, ExecutionTimeMs: 600_000, Difficulty: 5}

	scoreFor := func(hints []int) int {
		in := base
		in.HintsUsed = hints
		result, err := ComputeScore(in)
		require.NoError(t, err)
		return result.FinalScore
	}

	noHints := scoreFor(nil)
	level1 := scoreFor([]int{1})
	level4 := scoreFor([]int{4})

	assert.LessOrEqual(t, level4, level1)
	assert.LessOrEqual(t, level1, noHints)
}

func TestComputeScore_HintPenaltyUsesMaxLevel(t *testing.T) {
	result, err := ComputeScore(ScoreInput{
		PassedCases:     10,
		TotalCases:      10,
		ExecutionTimeMs: 600_000,
		Difficulty:      5,
		HintsUsed:       []int{1, 2, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.70, result.HintPenaltyCoefficient)
}

func TestComputeScore_QualityCoefficient(t *testing.T) {
	quality := 0.8
	result, err := ComputeScore(ScoreInput{
		PassedCases:     10,
		TotalCases:      10,
		ExecutionTimeMs: 600_000,
		Difficulty:      5,
		Quality:         &quality,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.8, result.QualityCoefficient)
	assert.Equal(t, 80, result.FinalScore)
}

func TestComputeScore_Deterministic(t *testing.T) {
	in := ScoreInput{PassedCases: 8, TotalCases: 10, ExecutionTimeMs: 400_000, Difficulty: 6, HintsUsed: []int{1}}
	first, err := ComputeScore(in)
	require.NoError(t, err)
	for range 10 {
		again, err := ComputeScore(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeScore_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   ScoreInput
	}{
		{"negative passed", ScoreInput{PassedCases: -1, TotalCases: 5, Difficulty: 5}},
		{"negative total", ScoreInput{PassedCases: 0, TotalCases: -1, Difficulty: 5}},
		{"passed exceeds total", ScoreInput{PassedCases: 6, TotalCases: 5, Difficulty: 5}},
		{"negative execution time", ScoreInput{PassedCases: 5, TotalCases: 5, ExecutionTimeMs: -1, Difficulty: 5}},
		{"difficulty too low", ScoreInput{PassedCases: 5, TotalCases: 5, Difficulty: 0}},
		{"difficulty too high", ScoreInput{PassedCases: 5, TotalCases: 5, Difficulty: 11}},
		{"hint level out of range", ScoreInput{PassedCases: 5, TotalCases: 5, Difficulty: 5, HintsUsed: []int{5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeScore(tt.in)
			assert.Error(t, err)
		})
	}
}
