package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	openai "github.com/sashabaranov/go-openai"
)

// hintLevelPrompts controls how much each hint level is allowed to reveal.
var hintLevelPrompts = map[int]string{
	1: "Give a gentle nudge about which direction to think in. Do not name the algorithm.",
	2: "Name the algorithmic technique or data structure to use, without describing the steps.",
	3: "Outline the solution approach step by step, without any code.",
	4: "Explain the full solution in detail, including pseudocode.",
}

type OpenAIHintGenerator struct {
	client  *openai.Client
	model   string
	retrier retry.Retry[string]
}

func NewOpenAIHintGenerator(apiKey, model string, maxAttempts int) *OpenAIHintGenerator {
	return &OpenAIHintGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
		retrier: retry.New[string](retry.Config{
			MaxAttempts:   maxAttempts,
			InitialDelay:  time.Second,
			MaxDelay:      15 * time.Second,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
		}),
	}
}

// GenerateHint produces the hint text for one level of one problem.
func (g *OpenAIHintGenerator) GenerateHint(ctx context.Context, problemDescription string, level int, opts Options) (string, error) {
	levelPrompt, ok := hintLevelPrompts[level]
	if !ok {
		return "", fmt.Errorf("unknown hint level %d", level)
	}

	model := g.model
	if opts.Model != "" {
		model = opts.Model
	}

	system := "You write hints for an algorithm learning platform. " + levelPrompt
	prompt := fmt.Sprintf("Problem:\n%s\n\nWrite hint level %d.", problemDescription, level)

	return g.retrier.Do(ctx, func(ctx context.Context) (string, error) {
		resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return "", fmt.Errorf("hint generation request: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("hint generation returned no choices")
		}
		return resp.Choices[0].Message.Content, nil
	})
}
