package services

import (
	"math"
	"strconv"
)

// QuestionKind is the closed set of field kinds the engine understands.
type QuestionKind string

const (
	KindText     QuestionKind = "text"
	KindDate     QuestionKind = "date"
	KindCurrency QuestionKind = "currency"
	KindRadio    QuestionKind = "radio"
	KindSelect   QuestionKind = "select"
	KindCheckbox QuestionKind = "checkbox"
)

const (
	msgInvalidNumber = "Please enter a valid number."
	msgSelectOne     = "Please select at least one option."
	msgFieldRequired = "This field is required"
)

// Value is the typed in-memory representation of one draft answer. Exactly
// one of Text, Number or Set is meaningful, chosen by the question kind.
// Present reports whether the subject supplied anything at all.
type Value struct {
	Text    string
	Number  float64
	Set     []string
	Present bool
}

func StringValue(s string) Value    { return Value{Text: s, Present: true} }
func NumberValue(n float64) Value   { return Value{Number: n, Present: true} }
func SetValue(opts ...string) Value { return Value{Set: opts, Present: true} }

// Contains reports set membership for checkbox values. Selection order is
// not significant.
func (v Value) Contains(opt string) bool {
	for _, s := range v.Set {
		if s == opt {
			return true
		}
	}
	return false
}

// FieldRule is the validator plus coercion derived from a question's kind
// and required flag.
type FieldRule struct {
	Kind     QuestionKind
	Required bool
}

// Validate checks a typed draft value against the rule. Failures are
// reported as a single-field ValidationError with an empty question id; the
// caller scopes it to the question being checked.
func (r FieldRule) Validate(v Value) error {
	switch r.Kind {
	case KindCurrency:
		if !v.Present {
			if r.Required {
				return NewFieldError("", msgInvalidNumber)
			}
			return nil
		}
		if math.IsNaN(v.Number) {
			return NewFieldError("", msgInvalidNumber)
		}
		return nil
	case KindCheckbox:
		if r.Required && len(v.Set) == 0 {
			return NewFieldError("", msgSelectOne)
		}
		return nil
	case KindText, KindDate, KindRadio, KindSelect:
		if r.Required && (!v.Present || v.Text == "") {
			return NewFieldError("", msgFieldRequired)
		}
		return nil
	default:
		// Unknown kinds validate as plain strings.
		if r.Required && (!v.Present || v.Text == "") {
			return NewFieldError("", msgFieldRequired)
		}
		return nil
	}
}

// Coerce converts a wire response string into the typed value for this
// rule's kind. A failed numeric parse yields NaN so validation can reject it
// regardless of the required flag.
func (r FieldRule) Coerce(raw string) Value {
	switch r.Kind {
	case KindCurrency:
		if raw == "" {
			return Value{}
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{Number: math.NaN(), Present: true}
		}
		return NumberValue(n)
	case KindCheckbox:
		return Value{Set: splitOptions(raw), Present: true}
	default:
		return StringValue(raw)
	}
}

// Empty returns the kind-appropriate default used when no prior answer
// exists: an empty set for checkbox, unset otherwise.
func (r FieldRule) Empty() Value {
	if r.Kind == KindCheckbox {
		return Value{Set: []string{}, Present: true}
	}
	return Value{}
}

// Schema maps question id to its compiled rule.
type Schema map[string]FieldRule

// CompileSchema derives one FieldRule per question. It runs once per catalog
// load and is reused for both per-step and whole-form validation.
func CompileSchema(questions []*Question) Schema {
	schema := make(Schema, len(questions))
	for _, q := range questions {
		schema[q.ID] = FieldRule{Kind: q.Kind, Required: q.Required}
	}
	return schema
}
