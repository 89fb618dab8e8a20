package judge0

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"algomentor/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultJSON(statusID int, description, stdout, execTime string) map[string]any {
	return map[string]any{
		"stdout": stdout,
		"time":   execTime,
		"memory": 10240,
		"status": map[string]any{"id": statusID, "description": description},
	}
}

func TestRunTestCase_SubmitThenPoll(t *testing.T) {
	polls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/submissions", r.URL.Path)
			var req submissionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, 71, req.LanguageID)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(submissionToken{Token: "tok-1"})
		case http.MethodGet:
			assert.Equal(t, "/submissions/tok-1", r.URL.Path)
			polls++
			if polls < 3 {
				json.NewEncoder(w).Encode(resultJSON(statusProcessing, "Processing", "", ""))
				return
			}
			json.NewEncoder(w).Encode(resultJSON(statusAccepted, "Accepted", "42\n", "0.250"))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 10, 1, 5)
	result, err := client.RunTestCase(context.Background(), "print(42)", 71, "", "42")
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, "42\n", result.Stdout)
	assert.Equal(t, 250, result.TimeMs)
	assert.Equal(t, 10240, result.MemoryKb)
	assert.Equal(t, 3, polls)
}

func TestRunTestCase_WrongAnswerIsNotARunnerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(submissionToken{Token: "tok-2"})
			return
		}
		json.NewEncoder(w).Encode(resultJSON(statusWrongAnswer, "Wrong Answer", "41\n", "0.100"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5, 1, 5)
	result, err := client.RunTestCase(context.Background(), "print(41)", 71, "", "42")
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Equal(t, "Wrong Answer", result.StatusDescription)
}

func TestRunTestCase_PollBudgetExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(submissionToken{Token: "tok-3"})
			return
		}
		json.NewEncoder(w).Encode(resultJSON(statusInQueue, "In Queue", "", ""))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 3, 1, 5)
	_, err := client.RunTestCase(context.Background(), "while True: pass", 71, "", "42")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRunnerFailure))
}

func TestRunTestCase_InternalErrorIsRunnerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(submissionToken{Token: "tok-4"})
			return
		}
		json.NewEncoder(w).Encode(resultJSON(statusInternalError, "Internal Error", "", ""))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5, 1, 5)
	_, err := client.RunTestCase(context.Background(), "print(1)", 71, "", "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRunnerFailure))
}

func TestRunTestCase_SubmitRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5, 1, 5)
	_, err := client.RunTestCase(context.Background(), "print(1)", 71, "", "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRunnerFailure))
}
