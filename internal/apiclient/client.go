// Package apiclient talks to the tests API: listing tests, fetching a playable quiz and
// saving an authored test.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quiz-ladders/internal/domain"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.Status)
	}
	return e.Message
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the API rooted at baseURL (for example http://localhost:5001).
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// ListTests fetches the test listing.
func (c *Client) ListTests(ctx context.Context) ([]domain.TestSummary, error) {
	var out []domain.TestSummary
	if err := c.do(ctx, http.MethodGet, "/api/tests", nil, &out); err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	return out, nil
}

// GetQuiz fetches the playable document of a test.
func (c *Client) GetQuiz(ctx context.Context, testID string) (domain.Quiz, error) {
	var out domain.Quiz
	if err := c.do(ctx, http.MethodGet, "/api/quiz/"+url.PathEscape(testID), nil, &out); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return domain.Quiz{}, fmt.Errorf("get quiz %s: %w", testID, domain.ErrTestNotFound)
		}
		return domain.Quiz{}, fmt.Errorf("get quiz %s: %w", testID, err)
	}
	return out, nil
}

// SaveTest submits a full test document. Failures carry the server's error message.
func (c *Client) SaveTest(ctx context.Context, t domain.Test) error {
	return c.do(ctx, http.MethodPost, "/api/tests", t, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return &APIError{Status: resp.StatusCode, Message: eb.Error}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
