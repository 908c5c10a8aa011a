package api

import (
	"github.com/mjaus29/survey/internal/services"
)

type surveyStoreAdapter struct {
	store Store
}

func newSurveyStoreAdapter(store Store) services.SurveyStore {
	return &surveyStoreAdapter{store: store}
}

func (a *surveyStoreAdapter) ListQuestions(surveyID string) ([]*services.Question, error) {
	qs, err := a.store.ListQuestions(surveyID)
	if err != nil {
		return nil, err
	}
	out := make([]*services.Question, 0, len(qs))
	for _, q := range qs {
		out = append(out, convertAPIQuestion(q))
	}
	return out, nil
}

func (a *surveyStoreAdapter) ListAnswersBySubject(subjectID string) ([]*services.Answer, error) {
	as, err := a.store.ListAnswersBySubject(subjectID)
	if err != nil {
		return nil, err
	}
	out := make([]*services.Answer, 0, len(as))
	for _, ans := range as {
		out = append(out, convertAPIAnswer(ans))
	}
	return out, nil
}

func (a *surveyStoreAdapter) UpsertAnswer(ans *services.Answer) (*services.Answer, error) {
	if ans == nil {
		return nil, services.NewInvalidError("answer required")
	}
	stored, err := a.store.UpsertAnswer(convertServiceAnswer(ans))
	if err != nil {
		return nil, err
	}
	return convertAPIAnswer(stored), nil
}

func convertAPIQuestion(q *Question) *services.Question {
	return &services.Question{
		ID:          q.ID,
		Code:        q.Code,
		SurveyID:    q.SurveyID,
		Title:       q.Title,
		Description: q.Description,
		Kind:        services.QuestionKind(q.Type),
		Required:    q.Required,
		Options:     q.Options,
		Position:    q.Position,
	}
}

func convertAPIAnswer(a *Answer) *services.Answer {
	return &services.Answer{ID: a.ID, SubjectID: a.SubjectID, QuestionID: a.QuestionID, Response: a.Response, UpdatedAt: a.UpdatedAt}
}

func convertServiceAnswer(a *services.Answer) *Answer {
	return &Answer{ID: a.ID, SubjectID: a.SubjectID, QuestionID: a.QuestionID, Response: a.Response, UpdatedAt: a.UpdatedAt}
}

var _ services.SurveyStore = (*surveyStoreAdapter)(nil)
