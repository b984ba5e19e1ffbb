package stubapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/classpulse/seeder/pkg/utils"
)

// Handler exposes the store over the same HTTP surface the real ClassPulse
// backend serves, so the seeder needs no special casing to run against it.
type Handler struct {
	store     *Store
	publicURL string
}

// New creates a handler. publicURL is the externally reachable root used to
// build student and admin links.
func New(store *Store, publicURL string) *Handler {
	return &Handler{store: store, publicURL: publicURL}
}

// RegisterRoutes mounts the session API under the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/sessions", func(api chi.Router) {
		api.Post("/", h.handleCreateSession)
		api.Get("/{sessionID}", h.handleGetSession)
		api.Post("/{sessionID}/responses", h.handleSubmitResponse)
		api.Get("/{sessionID}/responses", h.handleListResponses)
		api.Get("/{sessionID}/stream", h.handleStream)
	})
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Question string `json:"question"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.store.CreateSession(r.Context(), payload.Question)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]string{
		"session_id":  session.ID,
		"question":    session.Question,
		"student_url": fmt.Sprintf("%s/session/%s", h.publicURL, session.ID),
		"admin_url":   fmt.Sprintf("%s/session/%s/admin?token=%s", h.publicURL, session.ID, session.AdminToken),
		"admin_token": session.AdminToken,
	})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.store.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	responses, err := h.store.ListResponses(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"session_id":     session.ID,
		"question":       session.Question,
		"response_count": len(responses),
		"created_at":     session.CreatedAt,
	})
}

func (h *Handler) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		StudentName string `json:"student_name"`
		Answer      string `json:"answer"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := h.store.AddResponse(r.Context(), sessionID, payload.StudentName, payload.Answer)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, responsePayload(response))
}

func (h *Handler) handleListResponses(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.store.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	if r.URL.Query().Get("token") != session.AdminToken {
		utils.RespondError(w, http.StatusUnauthorized, "invalid admin token")
		return
	}

	responses, err := h.store.ListResponses(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	payload := make([]map[string]any, 0, len(responses))
	for _, response := range responses {
		payload = append(payload, responsePayload(response))
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"responses":  payload,
	})
}

// handleStream pushes submitted responses to dashboard-style consumers as
// server-sent events, with a heartbeat to keep idle connections open.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	responses, cancel, err := h.store.Watch(sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	defer cancel()

	utils.SetupSSEHeaders(w)

	ctx := r.Context()
	log.Printf("[sse] opening response stream for session=%s", sessionID)

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	utils.SendSSEChunk(w, flusher, map[string]any{
		"event":   "status",
		"message": "stream established",
	})

	for {
		select {
		case <-ctx.Done():
			log.Printf("[sse] closing response stream for session=%s", sessionID)
			return
		case response := <-responses:
			utils.SendSSEEvent(w, flusher, "response", responsePayload(response))
		case t := <-ticker.C:
			utils.SendSSEChunk(w, flusher, map[string]any{
				"event": "heartbeat",
				"time":  t.UTC().Format(time.RFC3339),
			})
		}
	}
}

func responsePayload(response Response) map[string]any {
	return map[string]any{
		"response_id":  response.ID,
		"session_id":   response.SessionID,
		"student_name": response.StudentName,
		"answer":       response.Answer,
		"created_at":   response.CreatedAt,
	}
}
