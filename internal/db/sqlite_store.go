package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/mjaus29/survey/internal/api"
)

// SQLiteStore persists subjects, the question catalog and answers. The
// answers table carries a UNIQUE(subject_id, question_id) constraint; the
// upsert rides on it, so concurrent submissions by one subject settle to
// last-write-wins without duplicate rows.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func NewStore(db *sql.DB) (api.Store, error) {
	return NewSQLiteStore(db)
}

func boolToInt64(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func encodeOptions(opts []string) (sql.NullString, error) {
	if len(opts) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(opts)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeOptions(ns sql.NullString) []string {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		log.Printf("sqlite store: decode options: %v", err)
		return nil
	}
	return out
}

func (s *SQLiteStore) AddUser(u *api.User) error {
	_, err := s.db.Exec(
		`INSERT INTO users (id, email, pass_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.PassHash, u.CreatedAt,
	)
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) && sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return api.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindUserByEmail(email string) (*api.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, email, pass_hash, created_at FROM users WHERE email = ?`, email,
	))
}

func (s *SQLiteStore) FindUserByID(id string) (*api.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, email, pass_hash, created_at FROM users WHERE id = ?`, id,
	))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*api.User, error) {
	var u api.User
	err := row.Scan(&u.ID, &u.Email, &u.PassHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *SQLiteStore) UpsertQuestion(q *api.Question) error {
	opts, err := encodeOptions(q.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO questions (id, code, survey_id, title, description, kind, required, options, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET
		   survey_id = excluded.survey_id,
		   title = excluded.title,
		   description = excluded.description,
		   kind = excluded.kind,
		   required = excluded.required,
		   options = excluded.options,
		   position = excluded.position`,
		q.ID, q.Code, q.SurveyID, q.Title, q.Description, q.Type, boolToInt64(q.Required), opts, q.Position,
	)
	if err != nil {
		return fmt.Errorf("upsert question: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListQuestions(surveyID string) ([]*api.Question, error) {
	rows, err := s.db.Query(
		`SELECT id, code, survey_id, title, description, kind, required, options, position
		 FROM questions WHERE survey_id = ? ORDER BY position`, surveyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	out := []*api.Question{}
	for rows.Next() {
		var q api.Question
		var required int64
		var opts sql.NullString
		if err := rows.Scan(&q.ID, &q.Code, &q.SurveyID, &q.Title, &q.Description, &q.Type, &required, &opts, &q.Position); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Required = required != 0
		q.Options = decodeOptions(opts)
		out = append(out, &q)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpsertAnswer(a *api.Answer) (*api.Answer, error) {
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO answers (id, subject_id, question_id, response, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(subject_id, question_id) DO UPDATE SET
		   response = excluded.response,
		   updated_at = excluded.updated_at`,
		a.ID, a.SubjectID, a.QuestionID, a.Response, a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert answer: %w", err)
	}
	row := s.db.QueryRow(
		`SELECT id, subject_id, question_id, response, updated_at
		 FROM answers WHERE subject_id = ? AND question_id = ?`,
		a.SubjectID, a.QuestionID,
	)
	var stored api.Answer
	if err := row.Scan(&stored.ID, &stored.SubjectID, &stored.QuestionID, &stored.Response, &stored.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scan answer: %w", err)
	}
	return &stored, nil
}

func (s *SQLiteStore) ListAnswersBySubject(subjectID string) ([]*api.Answer, error) {
	rows, err := s.db.Query(
		`SELECT id, subject_id, question_id, response, updated_at
		 FROM answers WHERE subject_id = ?`, subjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	out := []*api.Answer{}
	for rows.Next() {
		var a api.Answer
		if err := rows.Scan(&a.ID, &a.SubjectID, &a.QuestionID, &a.Response, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

var _ api.Store = (*SQLiteStore)(nil)
