package services

// SessionState tracks which surface the subject is on. The loading phase
// happens before construction, while the catalog and prior answers are being
// fetched.
type SessionState int

const (
	StateAnswering SessionState = iota
	StateReviewing
)

func (s SessionState) String() string {
	switch s {
	case StateAnswering:
		return "answering"
	case StateReviewing:
		return "reviewing"
	default:
		return "unknown"
	}
}

// SubmitFunc persists a full set of wire answers and returns the freshly
// persisted rows.
type SubmitFunc func(inputs []AnswerInput) ([]*Answer, error)

// SurveySession is the per-subject answering state machine: a step cursor
// over the question catalog, a typed draft per question, and the compiled
// schema used for per-step and whole-form validation. Operations run to
// completion before the next is accepted; an in-flight submission blocks
// navigation until it resolves.
type SurveySession struct {
	questions []*Question
	schema    Schema
	drafts    map[string]Value
	review    []*Answer
	step      int
	state     SessionState
	persist   SubmitFunc
	inFlight  bool
}

// NewSurveySession seeds the draft from prior answers and starts in
// Reviewing iff a previous full submission exists, otherwise Answering at
// step 0.
func NewSurveySession(questions []*Question, prior []*Answer, persist SubmitFunc) *SurveySession {
	schema := CompileSchema(questions)
	s := &SurveySession{
		questions: questions,
		schema:    schema,
		drafts:    DraftFromAnswers(schema, questions, prior),
		review:    prior,
		persist:   persist,
	}
	if len(prior) > 0 {
		s.state = StateReviewing
	}
	return s
}

func (s *SurveySession) State() SessionState { return s.state }

func (s *SurveySession) Step() int { return s.step }

// Current returns the question at the step cursor, or nil outside Answering.
func (s *SurveySession) Current() *Question {
	if s.state != StateAnswering || s.step >= len(s.questions) {
		return nil
	}
	return s.questions[s.step]
}

// Progress reports (step+1)/questionCount.
func (s *SurveySession) Progress() float64 {
	if len(s.questions) == 0 {
		return 0
	}
	return float64(s.step+1) / float64(len(s.questions))
}

// Draft returns the typed working value for a question.
func (s *SurveySession) Draft(questionID string) Value {
	return s.drafts[questionID]
}

// Review returns the persisted answer set shown on the review surface.
func (s *SurveySession) Review() []*Answer {
	return s.review
}

// SetValue records a field edit on the draft.
func (s *SurveySession) SetValue(questionID string, v Value) error {
	if s.state != StateAnswering || s.inFlight {
		return NewInvalidError("survey is not being answered")
	}
	if _, ok := s.schema[questionID]; !ok {
		return NewInvalidError("unknown question")
	}
	s.drafts[questionID] = v
	return nil
}

// Advance validates only the current step's field. On failure the cursor
// stays put and the rule's error is surfaced; on success the cursor moves
// forward unless already at the last step.
func (s *SurveySession) Advance() error {
	if s.state != StateAnswering || s.inFlight {
		return NewInvalidError("survey is not being answered")
	}
	if len(s.questions) == 0 {
		return NewInvalidError("survey has no questions")
	}
	q := s.questions[s.step]
	rule := s.schema[q.ID]
	if err := rule.Validate(s.drafts[q.ID]); err != nil {
		ve, _ := AsValidationError(err)
		return NewFieldError(q.ID, ve.Fields[0].Message)
	}
	if s.step < len(s.questions)-1 {
		s.step++
	}
	return nil
}

// Retreat moves the cursor back one step, floored at 0. It never validates.
func (s *SurveySession) Retreat() {
	if s.state != StateAnswering || s.inFlight {
		return
	}
	if s.step > 0 {
		s.step--
	}
}

// Submit validates the entire draft, converts it to the wire answer list and
// persists it. On validation failure nothing is persisted and the failing
// fields are surfaced. On persistence failure the session stays in Answering
// at the last step. On success the session flips to Reviewing, re-seeded
// with the freshly persisted answers.
func (s *SurveySession) Submit() error {
	if s.state != StateAnswering || s.inFlight {
		return NewInvalidError("survey is not being answered")
	}
	if s.step != len(s.questions)-1 {
		return NewInvalidError("submit is only allowed on the last step")
	}

	var failed []FieldError
	for _, q := range s.questions {
		rule := s.schema[q.ID]
		if err := rule.Validate(s.drafts[q.ID]); err != nil {
			ve, _ := AsValidationError(err)
			failed = append(failed, FieldError{QuestionID: q.ID, Message: ve.Fields[0].Message})
		}
	}
	if len(failed) > 0 {
		return &ValidationError{Fields: failed}
	}

	s.inFlight = true
	defer func() { s.inFlight = false }()

	persisted, err := s.persist(WireFromDraft(s.schema, s.questions, s.drafts))
	if err != nil {
		if _, ok := AsValidationError(err); ok {
			return err
		}
		if _, ok := AsServiceError(err); ok {
			return err
		}
		return NewStorageError("failed to save answers")
	}
	s.review = persisted
	s.drafts = DraftFromAnswers(s.schema, s.questions, persisted)
	s.state = StateReviewing
	return nil
}

// Edit leaves Reviewing and restarts answering at step 0 with the draft
// re-seeded from the currently persisted answers.
func (s *SurveySession) Edit() error {
	if s.state != StateReviewing {
		return NewInvalidError("survey is not in review")
	}
	s.drafts = DraftFromAnswers(s.schema, s.questions, s.review)
	s.step = 0
	s.state = StateAnswering
	return nil
}
