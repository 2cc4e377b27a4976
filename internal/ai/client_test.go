package ai_test

import (
	"context"
	"encoding/json"
	"github.com/myrjola/dossier/internal/ai"
	"github.com/myrjola/dossier/internal/models"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func fakeOpenAI(t *testing.T, answer string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		require.Contains(t, req.Messages[0].Content, "- seal_archive: Seal Archive.")
		require.Equal(t, "lock the suppressed stuff away", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = io.WriteString(w, `{"error": {"message": "rate limited", "type": "requests"}}`)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "gpt-3.5-turbo-1106",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": answer},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

var actions = []models.ActionOption{
	{ID: "seal_archive", Label: "Seal Archive", Enabled: true, Cost: "2 money",
		Desc: "Move the first suppressed item into the sealed archive.", DisabledReason: ""},
}

func TestClient_ChooseAction(t *testing.T) {
	srv := fakeOpenAI(t, " `seal_archive`.\n", http.StatusOK)
	client := ai.NewClient(ai.Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"})

	got, err := client.ChooseAction(context.Background(), "lock the suppressed stuff away", actions)
	require.NoError(t, err)
	require.Equal(t, "seal_archive", got)
}

func TestClient_ChooseAction_apiError(t *testing.T) {
	srv := fakeOpenAI(t, "", http.StatusTooManyRequests)
	client := ai.NewClient(ai.Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"})

	_, err := client.ChooseAction(context.Background(), "lock the suppressed stuff away", actions)
	require.Error(t, err)
	require.Contains(t, err.Error(), "choose action")
}
