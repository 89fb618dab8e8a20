package judge0

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"algomentor/internal/common"
)

// Judge0 terminal status IDs. 1 (In Queue) and 2 (Processing) are the
// non-terminal states the poll loop waits out.
const (
	statusInQueue       = 1
	statusProcessing    = 2
	statusAccepted      = 3
	statusWrongAnswer   = 4
	statusInternalError = 13
	statusExecFormatErr = 14
)

// CaseResult is the outcome of one test case execution. Passed reports
// whether the output matched; a runner-level failure (timeout, sandbox
// crash, poll budget exhausted) is returned as an error instead, so the
// caller can tell "wrong output" apart from "could not execute".
type CaseResult struct {
	Passed            bool
	Stdout            string
	Stderr            string
	StatusDescription string
	TimeMs            int
	MemoryKb          int
}

type Client struct {
	baseURL      string
	apiKey       string
	pollAttempts int
	pollDelay    time.Duration
	httpClient   *http.Client
}

func NewClient(baseURL, apiKey string, pollAttempts, pollDelayMs, timeoutSec int) *Client {
	return &Client{
		baseURL:      baseURL,
		apiKey:       apiKey,
		pollAttempts: pollAttempts,
		pollDelay:    time.Duration(pollDelayMs) * time.Millisecond,
		httpClient:   &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}
}

type submissionRequest struct {
	SourceCode     string `json:"source_code"`
	LanguageID     int    `json:"language_id"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
}

type submissionToken struct {
	Token string `json:"token"`
}

type submissionResult struct {
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Time          *string `json:"time"`   // seconds, e.g. "0.024"
	Memory        *int    `json:"memory"` // kilobytes
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

// RunTestCase executes code against a single test case. It submits to the
// sandbox with wait=false and polls the returned token under a bounded
// budget; exhaustion is a runner failure, never an indefinite hang.
func (c *Client) RunTestCase(ctx context.Context, code string, languageID int, stdin, expectedOutput string) (*CaseResult, error) {
	token, err := c.submit(ctx, submissionRequest{
		SourceCode:     code,
		LanguageID:     languageID,
		Stdin:          stdin,
		ExpectedOutput: expectedOutput,
	})
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		result, err := c.fetch(ctx, token)
		if err != nil {
			return nil, err
		}

		if result.Status.ID == statusInQueue || result.Status.ID == statusProcessing {
			select {
			case <-ctx.Done():
				return nil, common.Errorf("runner poll cancelled: %w", ctx.Err())
			case <-time.After(c.pollDelay):
			}
			continue
		}

		return c.toCaseResult(result)
	}

	return nil, common.Errorf("runner did not finish within %d poll attempts: %w", c.pollAttempts, common.ErrRunnerFailure)
}

func (c *Client) submit(ctx context.Context, req submissionRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", common.Errorf("marshal runner submission: %w", err)
	}

	url := c.baseURL + "/submissions?base64_encoded=false&wait=false"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", common.Errorf("build runner request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-Auth-Token", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", common.Errorf("runner submit failed: %v: %w", err, common.ErrRunnerFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", common.Errorf("runner submit returned status %d: %w", resp.StatusCode, common.ErrRunnerFailure)
	}

	var token submissionToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil || token.Token == "" {
		return "", common.Errorf("runner submit returned no token: %w", common.ErrRunnerFailure)
	}
	return token.Token, nil
}

func (c *Client) fetch(ctx context.Context, token string) (*submissionResult, error) {
	url := c.baseURL + "/submissions/" + token + "?base64_encoded=false&fields=stdout,stderr,compile_output,time,memory,status"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, common.Errorf("build runner poll request: %w", err)
	}
	if c.apiKey != "" {
		httpReq.Header.Set("X-Auth-Token", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, common.Errorf("runner poll failed: %v: %w", err, common.ErrRunnerFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, common.Errorf("runner poll returned status %d: %w", resp.StatusCode, common.ErrRunnerFailure)
	}

	var result submissionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, common.Errorf("decode runner poll response: %w", err)
	}
	return &result, nil
}

func (c *Client) toCaseResult(result *submissionResult) (*CaseResult, error) {
	if result.Status.ID == statusInternalError || result.Status.ID == statusExecFormatErr {
		return nil, common.Errorf("runner reported %q: %w", result.Status.Description, common.ErrRunnerFailure)
	}

	caseResult := &CaseResult{
		Passed:            result.Status.ID == statusAccepted,
		StatusDescription: result.Status.Description,
	}
	if result.Stdout != nil {
		caseResult.Stdout = *result.Stdout
	}
	if result.Stderr != nil {
		caseResult.Stderr = *result.Stderr
	} else if result.CompileOutput != nil {
		caseResult.Stderr = *result.CompileOutput
	}
	if result.Time != nil {
		if seconds, err := strconv.ParseFloat(*result.Time, 64); err == nil {
			caseResult.TimeMs = int(seconds * 1000)
		}
	}
	if result.Memory != nil {
		caseResult.MemoryKb = *result.Memory
	}
	return caseResult, nil
}
