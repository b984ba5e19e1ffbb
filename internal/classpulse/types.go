package classpulse

import "time"

// Session is the backend's view of a question and its collected responses.
// The seeder only ever holds a read-only copy.
type Session struct {
	ID            string    `json:"session_id"`
	Question      string    `json:"question"`
	ResponseCount int       `json:"response_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreatedSession is the payload returned by the create-session endpoint.
type CreatedSession struct {
	SessionID  string `json:"session_id"`
	StudentURL string `json:"student_url"`
	AdminURL   string `json:"admin_url"`
	AdminToken string `json:"admin_token,omitempty"`
}

// HasAdminToken reports whether the backend handed out an admin token.
// Deployments that manage tokens out of band omit the field entirely.
func (s CreatedSession) HasAdminToken() bool {
	return s.AdminToken != ""
}

// Response is a single submitted student answer.
type Response struct {
	ID          string    `json:"response_id"`
	SessionID   string    `json:"session_id"`
	StudentName string    `json:"student_name"`
	Answer      string    `json:"answer"`
	CreatedAt   time.Time `json:"created_at"`
}
