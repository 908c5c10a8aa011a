package services

import "time"

// User is an authenticated subject. The password hash is one-way (bcrypt,
// per-call salt) and never leaves the service layer.
type User struct {
	ID        string
	Email     string
	PassHash  []byte
	CreatedAt time.Time
}

// Question is a data-described form field sourced from the catalog. It is
// immutable from the engine's perspective.
type Question struct {
	ID          string
	Code        string
	SurveyID    string
	Title       string
	Description string
	Kind        QuestionKind
	Required    bool
	Options     []string
	Position    int
}

// Answer is the persisted response for one (subject, question) pair. The
// response is always a flat string; checkbox selections are comma-joined.
type Answer struct {
	ID         string
	SubjectID  string
	QuestionID string
	Response   string
	UpdatedAt  time.Time
}

// AnswerInput mirrors the inbound wire payload for a single answer.
type AnswerInput struct {
	QuestionID string
	Response   string
}
