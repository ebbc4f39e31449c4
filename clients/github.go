package clients

import (
	"context"
	"fmt"
	"net/http"
)

// DefaultGitHubAPIBase is the issue tracker's REST base URL.
const DefaultGitHubAPIBase = "https://api.github.com"

// GitHubClient wraps the issue tracker's issue-creation endpoint.
type GitHubClient struct {
	http    *HTTPClient
	baseURL string
	headers map[string]string
}

func NewGitHubClient(httpClient *HTTPClient, baseURL, token string) *GitHubClient {
	return &GitHubClient{
		http:    httpClient,
		baseURL: baseURL,
		headers: map[string]string{
			"Authorization": "Bearer " + token,
		},
	}
}

// CreateIssue opens an issue on the repository (owner/name form) and returns
// the created issue's web URL.
func (c *GitHubClient) CreateIssue(ctx context.Context, repo, title, body string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/issues", c.baseURL, repo)
	payload := map[string]string{"title": title, "body": body}

	resp, err := c.http.Post(ctx, []int{http.StatusCreated}, url, c.headers, payload)
	if err != nil {
		return "", fmt.Errorf("failed to create issue: %w", err)
	}

	var issue struct {
		HTMLURL string `json:"html_url"`
	}
	if err := resp.JSON(&issue); err != nil {
		return "", err
	}
	return issue.HTMLURL, nil
}
