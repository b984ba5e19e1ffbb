package stubapi

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrQuestionRequired = errors.New("question is required")
	ErrNameRequired     = errors.New("student_name is required")
	ErrAnswerRequired   = errors.New("answer is required")
	ErrSessionNotFound  = errors.New("session not found")
)

// Session is a stored question with its admin credentials.
type Session struct {
	ID         string
	Question   string
	AdminToken string
	CreatedAt  time.Time
}

// Response is a stored student answer.
type Response struct {
	ID          string
	SessionID   string
	StudentName string
	Answer      string
	CreatedAt   time.Time
}

// Store keeps sessions and responses in memory. It stands in for the real
// ClassPulse backend during local runs and tests.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]Session
	responses map[string][]Response
	watchers  map[string][]chan Response
}

// NewStore bootstraps an empty in-memory store.
func NewStore() *Store {
	return &Store{
		sessions:  make(map[string]Session),
		responses: make(map[string][]Response),
		watchers:  make(map[string][]chan Response),
	}
}

// CreateSession provisions a session around the given question.
func (s *Store) CreateSession(_ context.Context, question string) (Session, error) {
	if strings.TrimSpace(question) == "" {
		return Session{}, ErrQuestionRequired
	}

	session := Session{
		// Short ids keep the student URL typeable from a projector.
		ID:         strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		Question:   question,
		AdminToken: uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.responses[session.ID] = make([]Response, 0, 16)
	s.mu.Unlock()

	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Store) GetSession(_ context.Context, sessionID string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

// AddResponse appends a student answer to the session and notifies watchers.
func (s *Store) AddResponse(_ context.Context, sessionID, studentName, answer string) (Response, error) {
	if strings.TrimSpace(studentName) == "" {
		return Response{}, ErrNameRequired
	}
	if strings.TrimSpace(answer) == "" {
		return Response{}, ErrAnswerRequired
	}

	response := Response{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		StudentName: studentName,
		Answer:      answer,
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return Response{}, ErrSessionNotFound
	}

	s.responses[sessionID] = append(s.responses[sessionID], response)
	for _, watcher := range s.watchers[sessionID] {
		select {
		case watcher <- response:
		default:
			// A stalled dashboard consumer must not block submissions.
		}
	}
	return response, nil
}

// ListResponses returns a copy of the stored responses for the session.
func (s *Store) ListResponses(_ context.Context, sessionID string) ([]Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	responses, ok := s.responses[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]Response, len(responses))
	copy(copied, responses)
	return copied, nil
}

// Watch subscribes to responses submitted to the session after this call.
// The returned cancel func must be called to release the subscription.
func (s *Store) Watch(sessionID string) (<-chan Response, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return nil, nil, ErrSessionNotFound
	}

	ch := make(chan Response, 16)
	s.watchers[sessionID] = append(s.watchers[sessionID], ch)

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		watchers := s.watchers[sessionID]
		for i, watcher := range watchers {
			if watcher == ch {
				s.watchers[sessionID] = append(watchers[:i], watchers[i+1:]...)
				break
			}
		}
	}
	return ch, cancel, nil
}
