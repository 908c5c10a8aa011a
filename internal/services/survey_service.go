package services

import (
	"sort"
	"time"
)

// SurveyStore abstracts the catalog and answer persistence the survey engine
// depends on. Upserts are keyed by (subject, question); the store guarantees
// at most one row per pair.
type SurveyStore interface {
	ListQuestions(surveyID string) ([]*Question, error)
	ListAnswersBySubject(subjectID string) ([]*Answer, error)
	UpsertAnswer(a *Answer) (*Answer, error)
}

// SurveyService drives the single active survey: loading the catalog plus a
// subject's saved answers, validating full submissions against the compiled
// schema, and reconciling them into the store.
type SurveyService struct {
	store    SurveyStore
	surveyID string
	now      func() time.Time
	idGen    func(prefix string, n int) string
}

type SurveyData struct {
	Questions []*Question
	Answers   []*Answer
}

func NewSurveyService(store SurveyStore, surveyID string) *SurveyService {
	return &SurveyService{
		store:    store,
		surveyID: surveyID,
		now:      func() time.Time { return time.Now().UTC() },
		idGen:    func(prefix string, n int) string { return prefix + shortID(n) },
	}
}

// Load fetches the ordered question catalog and the subject's prior answers.
// Answers referencing questions outside the active survey are dropped.
func (s *SurveyService) Load(subjectID string) (*SurveyData, error) {
	questions, err := s.store.ListQuestions(s.surveyID)
	if err != nil {
		return nil, NewStorageError("failed to retrieve data")
	}
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Position < questions[j].Position })

	answers, err := s.store.ListAnswersBySubject(subjectID)
	if err != nil {
		return nil, NewStorageError("failed to retrieve data")
	}
	known := make(map[string]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}
	kept := make([]*Answer, 0, len(answers))
	for _, a := range answers {
		if known[a.QuestionID] {
			kept = append(kept, a)
		}
	}
	return &SurveyData{Questions: questions, Answers: kept}, nil
}

// SubmitAnswers validates the whole form against the compiled schema, then
// upserts each answer. Nothing is persisted when any field fails. Inputs for
// unknown question ids are ignored.
func (s *SurveyService) SubmitAnswers(subjectID string, inputs []AnswerInput) ([]*Answer, error) {
	questions, err := s.store.ListQuestions(s.surveyID)
	if err != nil {
		return nil, NewStorageError("failed to retrieve data")
	}
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Position < questions[j].Position })
	schema := CompileSchema(questions)

	responses := make(map[string]string, len(inputs))
	for _, in := range inputs {
		responses[in.QuestionID] = in.Response
	}

	var failed []FieldError
	for _, q := range questions {
		rule := schema[q.ID]
		if err := rule.Validate(rule.Coerce(responses[q.ID])); err != nil {
			ve, _ := AsValidationError(err)
			for _, fe := range ve.Fields {
				failed = append(failed, FieldError{QuestionID: q.ID, Message: fe.Message})
			}
		}
	}
	if len(failed) > 0 {
		return nil, &ValidationError{Fields: failed}
	}

	now := s.now()
	persisted := make([]*Answer, 0, len(questions))
	for _, q := range questions {
		a := &Answer{
			ID:         s.idGen("a", 12),
			SubjectID:  subjectID,
			QuestionID: q.ID,
			Response:   responses[q.ID],
			UpdatedAt:  now,
		}
		stored, err := s.store.UpsertAnswer(a)
		if err != nil {
			return nil, NewStorageError("failed to save answers")
		}
		persisted = append(persisted, stored)
	}
	return persisted, nil
}

// Session builds the step-by-step answering state machine for a subject,
// wired to this service for final persistence.
func (s *SurveyService) Session(subjectID string) (*SurveySession, error) {
	data, err := s.Load(subjectID)
	if err != nil {
		return nil, err
	}
	return NewSurveySession(data.Questions, data.Answers, func(inputs []AnswerInput) ([]*Answer, error) {
		return s.SubmitAnswers(subjectID, inputs)
	}), nil
}
