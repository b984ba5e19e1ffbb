package stubapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func setupRouter() (*chi.Mux, *Store) {
	store := NewStore()
	r := chi.NewRouter()
	New(store, "http://localhost:8000").RegisterRoutes(r)
	return r, store
}

func postJSON(t *testing.T, r http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCreateSessionEndpoint(t *testing.T) {
	r, _ := setupRouter()

	resp := postJSON(t, r, "/api/sessions", map[string]string{"question": "What did you learn?"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var created struct {
		SessionID  string `json:"session_id"`
		StudentURL string `json:"student_url"`
		AdminURL   string `json:"admin_url"`
		AdminToken string `json:"admin_token"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(created.SessionID) != 8 {
		t.Fatalf("unexpected session id %q", created.SessionID)
	}
	if created.AdminToken == "" {
		t.Fatal("missing admin token")
	}
	if created.StudentURL != "http://localhost:8000/session/"+created.SessionID {
		t.Fatalf("unexpected student url %q", created.StudentURL)
	}
	if !strings.Contains(created.AdminURL, "token="+created.AdminToken) {
		t.Fatalf("admin url missing token: %q", created.AdminURL)
	}
}

func TestCreateSessionMissingQuestion(t *testing.T) {
	r, _ := setupRouter()

	resp := postJSON(t, r, "/api/sessions", map[string]string{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetSessionEndpoint(t *testing.T) {
	r, store := setupRouter()
	ctx := context.Background()

	session, err := store.CreateSession(ctx, "Why does caching help?")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	if _, err := store.AddResponse(ctx, session.ID, "Alex Smith", "hi"); err != nil {
		t.Fatalf("AddResponse err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+session.ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var got struct {
		Question      string `json:"question"`
		ResponseCount int    `json:"response_count"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.Question != "Why does caching help?" || got.ResponseCount != 1 {
		t.Fatalf("unexpected session payload: %+v", got)
	}
}

func TestGetSessionEndpointNotFound(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/missing1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestSubmitResponseEndpoint(t *testing.T) {
	r, store := setupRouter()

	session, err := store.CreateSession(context.Background(), "q")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	resp := postJSON(t, r, "/api/sessions/"+session.ID+"/responses", map[string]string{
		"student_name": "Alex Smith",
		"answer":       "I think that practice builds confidence.",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var created struct {
		ResponseID  string `json:"response_id"`
		StudentName string `json:"student_name"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if created.ResponseID == "" || created.StudentName != "Alex Smith" {
		t.Fatalf("unexpected response payload: %+v", created)
	}
}

func TestSubmitResponseUnknownSession(t *testing.T) {
	r, _ := setupRouter()

	resp := postJSON(t, r, "/api/sessions/missing1/responses", map[string]string{
		"student_name": "Alex Smith",
		"answer":       "hi",
	})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestSubmitResponseMissingFields(t *testing.T) {
	r, store := setupRouter()

	session, err := store.CreateSession(context.Background(), "q")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	resp := postJSON(t, r, "/api/sessions/"+session.ID+"/responses", map[string]string{"answer": "hi"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestListResponsesRequiresAdminToken(t *testing.T) {
	r, store := setupRouter()
	ctx := context.Background()

	session, err := store.CreateSession(ctx, "q")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	if _, err := store.AddResponse(ctx, session.ID, "Alex Smith", "hi"); err != nil {
		t.Fatalf("AddResponse err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+session.ID+"/responses?token=wrong", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong token, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/sessions/"+session.ID+"/responses?token="+session.AdminToken, nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var listed struct {
		Responses []map[string]any `json:"responses"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(listed.Responses) != 1 {
		t.Fatalf("expected 1 listed response, got %d", len(listed.Responses))
	}
}

func TestStreamDeliversSubmittedResponses(t *testing.T) {
	r, store := setupRouter()

	session, err := store.CreateSession(context.Background(), "q")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	server := httptest.NewServer(r)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/sessions/"+session.ID+"/stream", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	// The watcher is registered before the first chunk is flushed, so a
	// response submitted now must show up on the stream.
	go func() {
		time.Sleep(50 * time.Millisecond)
		_, _ = store.AddResponse(context.Background(), session.ID, "Ada Lovelace", "streamed answer")
	}()

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), "Ada Lovelace") {
			return
		}
	}
	t.Fatalf("stream closed without delivering the response: %v", scanner.Err())
}
