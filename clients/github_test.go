package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitHubClient_CreateIssue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/ARCOMM/ARCHUB/issues", r.URL.Path)
		assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "My title", body["title"])
		assert.Equal(t, "My body", body["body"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"html_url": "https://github.com/ARCOMM/ARCHUB/issues/1"}`))
	}))
	defer server.Close()

	client := NewGitHubClient(NewHTTPClient("bot-token"), server.URL, "gh-token")
	url, err := client.CreateIssue(context.Background(), "ARCOMM/ARCHUB", "My title", "My body")

	require.NoError(t, err)
	assert.Equal(t, "https://github.com/ARCOMM/ARCHUB/issues/1", url)
}

func TestGitHubClient_CreateIssue_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message": "Validation Failed"}`))
	}))
	defer server.Close()

	client := NewGitHubClient(NewHTTPClient("bot-token"), server.URL, "gh-token")
	_, err := client.CreateIssue(context.Background(), "ARCOMM/ARCHUB", "My title", "My body")

	assert.Error(t, err)
}
