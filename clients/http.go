package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// requestTimeout bounds every outbound call; upstream APIs answering slower
// than this are treated as failed.
const requestTimeout = 5 * time.Second

// RequestError is returned when a downstream call answers with a status
// outside the caller's expected set. The response text is carried for logs.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

// Response is the fully-read result of a request whose status was in the
// expected set.
type Response struct {
	StatusCode int
	Body       []byte
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// HTTPClient issues requests against external APIs under an expected-status
// contract: any status outside the expected set is logged and surfaced as a
// *RequestError. It never retries.
type HTTPClient struct {
	httpClient     *http.Client
	defaultHeaders map[string]string
}

// NewHTTPClient creates a client whose requests default to the bot
// authorization header. Individual calls may override the headers entirely,
// e.g. with a bearer token for another service.
func NewHTTPClient(botToken string) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{Timeout: requestTimeout},
		defaultHeaders: map[string]string{
			"Authorization": "Bot " + botToken,
		},
	}
}

// Request performs the call and enforces the expected-status contract. A nil
// headers map selects the default bot-authorization headers; a non-nil map
// replaces them. A non-nil body is serialized as JSON.
func (c *HTTPClient) Request(
	ctx context.Context,
	method string,
	statuses []int,
	rawURL string,
	headers map[string]string,
	body any,
) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if headers == nil {
		headers = c.defaultHeaders
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, statuses)
}

// PostForm performs a form-encoded POST under the same expected-status
// contract, without the default authorization headers.
func (c *HTTPClient) PostForm(
	ctx context.Context,
	statuses []int,
	rawURL string,
	form url.Values,
) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, statuses)
}

func (c *HTTPClient) do(req *http.Request, statuses []int) (*Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if !statusExpected(resp.StatusCode, statuses) {
		log.Printf("❌ Received unexpected status code %d (expected %v)\n%s",
			resp.StatusCode, statuses, string(respBody))
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

func statusExpected(status int, statuses []int) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Get issues a GET with the default headers.
func (c *HTTPClient) Get(ctx context.Context, statuses []int, url string) (*Response, error) {
	return c.Request(ctx, http.MethodGet, statuses, url, nil, nil)
}

// Delete issues a DELETE with the default headers.
func (c *HTTPClient) Delete(ctx context.Context, statuses []int, url string) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, statuses, url, nil, nil)
}

// Put issues a PUT with the default headers and no body.
func (c *HTTPClient) Put(ctx context.Context, statuses []int, url string) (*Response, error) {
	return c.Request(ctx, http.MethodPut, statuses, url, nil, nil)
}

// Post issues a JSON POST. A nil headers map selects the default headers.
func (c *HTTPClient) Post(
	ctx context.Context,
	statuses []int,
	url string,
	headers map[string]string,
	body any,
) (*Response, error) {
	return c.Request(ctx, http.MethodPost, statuses, url, headers, body)
}

// Patch issues a JSON PATCH. A nil headers map selects the default headers.
func (c *HTTPClient) Patch(
	ctx context.Context,
	statuses []int,
	url string,
	headers map[string]string,
	body any,
) (*Response, error) {
	return c.Request(ctx, http.MethodPatch, statuses, url, headers, body)
}
