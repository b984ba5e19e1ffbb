package classpulse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Per-call deadlines, matching the backend's expected latencies: lookups are
// cheap, create/submit may touch aggregation state.
const (
	createTimeout = 10 * time.Second
	lookupTimeout = 5 * time.Second
	submitTimeout = 10 * time.Second
)

// ErrSessionNotFound signals that a lookup by identifier hit a 404.
var ErrSessionNotFound = errors.New("session not found")

// APIError carries a non-2xx backend response. Callers branch on the status
// code instead of parsing error strings.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Body)
}

// Client talks to the ClassPulse session API. All calls are blocking and
// carry their own timeout on top of the caller's context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the backend rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// CreateSession provisions a new session around the given question.
func (c *Client) CreateSession(ctx context.Context, question string) (CreatedSession, error) {
	payload := struct {
		Question string `json:"question"`
	}{Question: question}

	var created CreatedSession
	if err := c.do(ctx, http.MethodPost, "/api/sessions", createTimeout, payload, &created); err != nil {
		return CreatedSession{}, fmt.Errorf("create session: %w", err)
	}
	return created, nil
}

// GetSession looks up an existing session by identifier. A backend 404 is
// reported as ErrSessionNotFound so callers can treat it as fatal.
func (c *Client) GetSession(ctx context.Context, sessionID string) (Session, error) {
	var session Session
	err := c.do(ctx, http.MethodGet, "/api/sessions/"+sessionID, lookupTimeout, nil, &session)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return Session{}, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
		}
		return Session{}, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	return session, nil
}

// SubmitResponse records one student answer against the session.
func (c *Client) SubmitResponse(ctx context.Context, sessionID, studentName, answer string) (Response, error) {
	payload := struct {
		StudentName string `json:"student_name"`
		Answer      string `json:"answer"`
	}{StudentName: studentName, Answer: answer}

	var response Response
	if err := c.do(ctx, http.MethodPost, "/api/sessions/"+sessionID+"/responses", submitTimeout, payload, &response); err != nil {
		return Response{}, err
	}
	return response, nil
}

// do issues one JSON request and decodes the body into out. Non-2xx statuses
// become *APIError; transport problems come back as wrapped plain errors.
func (c *Client) do(ctx context.Context, method, path string, timeout time.Duration, payload, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
