package service

import (
	"context"
	"testing"

	"algomentor/internal/common"
	"algomentor/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileFixture(maxRetries int) (*ProfileService, *fakeProfileRepo, *fakeUserRepo) {
	profileRepo := &fakeProfileRepo{profile: &model.UserProfile{
		UserID:               "user-1",
		CurrentLevel:         3,
		AlgorithmProficiency: map[string]float64{},
		RecentScores:         []float64{},
		Version:              1,
	}}
	userRepo := &fakeUserRepo{user: &model.User{ID: "user-1"}}
	return NewProfileService(profileRepo, userRepo, maxRetries), profileRepo, userRepo
}

func TestNewDefaultProfile(t *testing.T) {
	p := NewDefaultProfile("user-1")

	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, 1, p.CurrentLevel)
	assert.NotNil(t, p.AlgorithmProficiency)
	assert.Empty(t, p.AlgorithmProficiency)
	assert.NotNil(t, p.RecentScores)
	assert.Empty(t, p.RecentScores)
	assert.Equal(t, 0, p.TotalProblemsSolved)
	assert.Equal(t, 0, p.TotalSubmissions)
}

func TestApplySubmissionOutcome_RetriesOnVersionConflict(t *testing.T) {
	svc, profileRepo, _ := newProfileFixture(3)
	profileRepo.conflicts = 2

	_, err := svc.ApplySubmissionOutcome(context.Background(), "user-1", SubmissionOutcome{
		Score:      85,
		Accepted:   true,
		FirstSolve: true,
		Categories: []string{"graphs"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, profileRepo.updateHits)
	require.NotNil(t, profileRepo.updated)
	assert.Equal(t, []float64{85}, profileRepo.updated.RecentScores)
	assert.Equal(t, 1, profileRepo.updated.TotalProblemsSolved)
}

func TestApplySubmissionOutcome_GivesUpAfterMaxRetries(t *testing.T) {
	svc, profileRepo, _ := newProfileFixture(2)
	profileRepo.conflicts = 10

	_, err := svc.ApplySubmissionOutcome(context.Background(), "user-1", SubmissionOutcome{
		Score: 85, Accepted: true, Categories: []string{"graphs"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.Equal(t, 2, profileRepo.updateHits)
}

func TestApplySubmissionOutcome_RejectedAttemptOnlyMovesProficiency(t *testing.T) {
	svc, profileRepo, _ := newProfileFixture(1)
	profileRepo.profile.AlgorithmProficiency = map[string]float64{"graphs": 6.0}

	adjustment, err := svc.ApplySubmissionOutcome(context.Background(), "user-1", SubmissionOutcome{
		Score:      0,
		Accepted:   false,
		Categories: []string{"graphs"},
	})
	require.NoError(t, err)
	assert.Nil(t, adjustment)

	require.NotNil(t, profileRepo.updated)
	assert.Empty(t, profileRepo.updated.RecentScores)
	assert.Equal(t, 1, profileRepo.updated.TotalSubmissions)
	assert.Equal(t, 0, profileRepo.updated.TotalProblemsSolved)
	assert.InDelta(t, 5.8, profileRepo.updated.AlgorithmProficiency["graphs"], 1e-9)
}

func TestApplySubmissionOutcome_PersistsDifficultyChange(t *testing.T) {
	svc, profileRepo, _ := newProfileFixture(1)
	profileRepo.profile.RecentScores = []float64{82, 91}

	adjustment, err := svc.ApplySubmissionOutcome(context.Background(), "user-1", SubmissionOutcome{
		Score:      88,
		Accepted:   true,
		FirstSolve: true,
		Categories: []string{"graphs"},
	})
	require.NoError(t, err)

	require.NotNil(t, adjustment)
	assert.Equal(t, 4, adjustment.NewLevel)
	assert.Equal(t, 4, profileRepo.updated.CurrentLevel)
}

func TestResolveLLMOptions(t *testing.T) {
	svc, _, userRepo := newProfileFixture(1)

	opts := svc.ResolveLLMOptions(context.Background(), "user-1")
	assert.Empty(t, opts.Model)

	preferred := "gpt-4o"
	userRepo.user.PreferredModel = &preferred
	opts = svc.ResolveLLMOptions(context.Background(), "user-1")
	assert.Equal(t, "gpt-4o", opts.Model)

	// Lookup failures fall back to the platform default instead of erroring.
	userRepo.user = nil
	opts = svc.ResolveLLMOptions(context.Background(), "user-1")
	assert.Empty(t, opts.Model)
}
