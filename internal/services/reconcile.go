package services

import (
	"strconv"
	"strings"
)

// Answers are stored as flat strings; checkbox selections are joined with a
// comma. An option value that itself contains a comma is ambiguous on
// reload. Known fidelity gap, kept for wire compatibility.
const optionSeparator = ","

func splitOptions(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, optionSeparator)
}

func joinOptions(opts []string) string {
	return strings.Join(opts, optionSeparator)
}

// DraftFromAnswers seeds a draft map from persisted answers, coercing each
// stored string to the typed value its question kind expects. Questions
// without a prior answer get the kind-appropriate empty default.
func DraftFromAnswers(schema Schema, questions []*Question, answers []*Answer) map[string]Value {
	byQuestion := make(map[string]*Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}
	draft := make(map[string]Value, len(questions))
	for _, q := range questions {
		rule := schema[q.ID]
		if a, ok := byQuestion[q.ID]; ok {
			draft[q.ID] = rule.Coerce(a.Response)
		} else {
			draft[q.ID] = rule.Empty()
		}
	}
	return draft
}

// WireFromDraft converts a typed draft back to the wire representation for
// persistence: one flat string per question, in catalog order. Unset values
// stringify to the empty string.
func WireFromDraft(schema Schema, questions []*Question, draft map[string]Value) []AnswerInput {
	out := make([]AnswerInput, 0, len(questions))
	for _, q := range questions {
		rule := schema[q.ID]
		out = append(out, AnswerInput{QuestionID: q.ID, Response: wireString(rule, draft[q.ID])})
	}
	return out
}

func wireString(rule FieldRule, v Value) string {
	switch rule.Kind {
	case KindCheckbox:
		return joinOptions(v.Set)
	case KindCurrency:
		if !v.Present {
			return ""
		}
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return v.Text
	}
}
