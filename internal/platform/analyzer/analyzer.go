// Package analyzer holds the LLM-backed collaborators: the code quality
// analyzer and the hint generator. Both are opaque to the evaluation core;
// callers treat them as best-effort and fall back on failure.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	openai "github.com/sashabaranov/go-openai"
)

const qualitySystemPrompt = `You are a code reviewer for an algorithm learning platform.
Rate the submitted solution for readability, idiomatic style and algorithmic cleanliness.
Respond with a JSON object: {"overall_score": <number 0-10>, "feedback": "<one short paragraph>"}.`

// QualityReport is the analyzer verdict. OverallScore is on the 0..10 scale
// the model is prompted for; Coefficient maps it into the [0,1] multiplier
// the scoring engine consumes.
type QualityReport struct {
	OverallScore float64 `json:"overall_score"`
	Feedback     string  `json:"feedback"`
}

func (r *QualityReport) Coefficient() float64 {
	coef := r.OverallScore / 10
	if coef < 0 {
		return 0
	}
	if coef > 1 {
		return 1
	}
	return coef
}

// Options carries the per-request LLM settings (user override already
// resolved against platform defaults by the caller). Zero value means
// "use the platform default".
type Options struct {
	Model string
}

type OpenAIAnalyzer struct {
	client  *openai.Client
	model   string
	retrier retry.Retry[*QualityReport]
}

func NewOpenAIAnalyzer(apiKey, model string, maxAttempts int) *OpenAIAnalyzer {
	return &OpenAIAnalyzer{
		client: openai.NewClient(apiKey),
		model:  model,
		retrier: retry.New[*QualityReport](retry.Config{
			MaxAttempts:   maxAttempts,
			InitialDelay:  time.Second,
			MaxDelay:      15 * time.Second,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
		}),
	}
}

// newOpenAIAnalyzerWithConfig is used by tests to point the client at a stub server.
func newOpenAIAnalyzerWithConfig(cfg openai.ClientConfig, model string, maxAttempts int) *OpenAIAnalyzer {
	a := NewOpenAIAnalyzer("test", model, maxAttempts)
	a.client = openai.NewClientWithConfig(cfg)
	return a
}

// Analyze asks the LLM for a quality verdict on an accepted solution.
// Transient provider errors are retried with exponential backoff; a
// terminal failure is returned to the caller, which falls back to a
// neutral coefficient rather than failing the submission.
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, code, language, problemDescription string, opts Options) (*QualityReport, error) {
	model := a.model
	if opts.Model != "" {
		model = opts.Model
	}

	prompt := fmt.Sprintf("Problem:\n%s\n\nLanguage: %s\n\nSolution:\n%s", problemDescription, language, code)

	return a.retrier.Do(ctx, func(ctx context.Context) (*QualityReport, error) {
		resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: qualitySystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("quality analysis request: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("quality analysis returned no choices")
		}

		var report QualityReport
		if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &report); err != nil {
			return nil, fmt.Errorf("decode quality report: %w", err)
		}
		return &report, nil
	})
}
