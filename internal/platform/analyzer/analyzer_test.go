package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestAnalyze_ParsesQualityReport(t *testing.T) {
	server := stubCompletionServer(t, `{"overall_score": 8.5, "feedback": "clean two-pointer solution"}`)
	defer server.Close()

	cfg := openai.DefaultConfig("test")
	cfg.BaseURL = server.URL + "/v1"
	a := newOpenAIAnalyzerWithConfig(cfg, "gpt-4o-mini", 1)

	report, err := a.Analyze(context.Background(), "def solve(): ...", "python", "Two Sum", Options{})
	require.NoError(t, err)
	assert.Equal(t, 8.5, report.OverallScore)
	assert.Equal(t, "clean two-pointer solution", report.Feedback)
	assert.InDelta(t, 0.85, report.Coefficient(), 1e-9)
}

func TestAnalyze_MalformedReportIsAnError(t *testing.T) {
	server := stubCompletionServer(t, `not json at all`)
	defer server.Close()

	cfg := openai.DefaultConfig("test")
	cfg.BaseURL = server.URL + "/v1"
	a := newOpenAIAnalyzerWithConfig(cfg, "gpt-4o-mini", 1)

	_, err := a.Analyze(context.Background(), "code", "python", "desc", Options{})
	assert.Error(t, err)
}

func TestQualityReport_CoefficientClamped(t *testing.T) {
	tests := []struct {
		score float64
		want  float64
	}{
		{0, 0},
		{5, 0.5},
		{10, 1},
		{12, 1},  // model ignored the scale
		{-1, 0},
	}
	for _, tt := range tests {
		report := QualityReport{OverallScore: tt.score}
		assert.Equal(t, tt.want, report.Coefficient(), "score %v", tt.score)
	}
}
