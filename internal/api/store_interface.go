package api

import "errors"

// ErrDuplicateEmail reports an AddUser that lost the race against another
// registration for the same address.
var ErrDuplicateEmail = errors.New("email already registered")

// Store is the persistence boundary for subjects, the question catalog and
// answers. Implementations must guarantee at most one answer row per
// (subject, question) pair; last write wins. AddUser must refuse a second
// user with the same email with ErrDuplicateEmail.
type Store interface {
	AddUser(u *User) error
	FindUserByEmail(email string) (*User, error)
	FindUserByID(id string) (*User, error)

	UpsertQuestion(q *Question) error
	ListQuestions(surveyID string) ([]*Question, error)

	UpsertAnswer(a *Answer) (*Answer, error)
	ListAnswersBySubject(subjectID string) ([]*Answer, error)
}

var _ Store = (*memoryStore)(nil)
