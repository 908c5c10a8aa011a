package api

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// User is a registered subject. The email is unique, case-insensitively.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	PassHash  []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Question is one field of the active survey. The wire names follow the
// survey payload schema: "type" carries the kind.
type Question struct {
	ID          string   `json:"id"`
	Code        string   `json:"code"`
	SurveyID    string   `json:"surveyId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Options     []string `json:"options,omitempty"`
	Position    int      `json:"-"`
}

// Answer is the stored response for one (subject, question) pair.
type Answer struct {
	ID         string    `json:"id"`
	SubjectID  string    `json:"-"`
	QuestionID string    `json:"questionId"`
	Response   string    `json:"response"`
	UpdatedAt  time.Time `json:"-"`
}

type memoryStore struct {
	mu           sync.RWMutex
	usersByEmail map[string]*User
	usersByID    map[string]*User
	questions    map[string]*Question
	answers      map[string]*Answer // keyed by subjectID+"\x00"+questionID
}

// NewMemoryStore builds the in-memory Store used for development and tests.
func NewMemoryStore() Store {
	return newMemoryStore()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		usersByEmail: map[string]*User{},
		usersByID:    map[string]*User{},
		questions:    map[string]*Question{},
		answers:      map[string]*Answer{},
	}
}

func answerKey(subjectID, questionID string) string {
	return subjectID + "\x00" + questionID
}

func (s *memoryStore) AddUser(u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := s.usersByEmail[key]; ok {
		return ErrDuplicateEmail
	}
	cp := *u
	s.usersByEmail[key] = &cp
	s.usersByID[u.ID] = &cp
	return nil
}

func (s *memoryStore) FindUserByEmail(email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.usersByEmail[strings.ToLower(email)]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *memoryStore) FindUserByID(id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.usersByID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

// UpsertQuestion creates or overwrites a catalog entry keyed by its stable
// code. Ids stay stable across reseeding.
func (s *memoryStore) UpsertQuestion(q *Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.questions {
		if existing.Code == q.Code {
			cp := *q
			cp.ID = existing.ID
			s.questions[existing.ID] = &cp
			return nil
		}
	}
	cp := *q
	s.questions[q.ID] = &cp
	return nil
}

func (s *memoryStore) ListQuestions(surveyID string) ([]*Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*Question{}
	for _, q := range s.questions {
		if q.SurveyID == surveyID {
			cp := *q
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// UpsertAnswer keeps at most one row per (subject, question): the stored id
// survives, the response is overwritten.
func (s *memoryStore) UpsertAnswer(a *Answer) (*Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := answerKey(a.SubjectID, a.QuestionID)
	if existing, ok := s.answers[key]; ok {
		existing.Response = a.Response
		existing.UpdatedAt = a.UpdatedAt
		cp := *existing
		return &cp, nil
	}
	cp := *a
	s.answers[key] = &cp
	out := cp
	return &out, nil
}

func (s *memoryStore) ListAnswersBySubject(subjectID string) ([]*Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*Answer{}
	for _, a := range s.answers {
		if a.SubjectID == subjectID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}
