package services

import (
	"math"
	"testing"
)

func TestCompileSchema(t *testing.T) {
	questions := []*Question{
		{ID: "q1", Kind: KindText, Required: true},
		{ID: "q2", Kind: KindCurrency},
		{ID: "q3", Kind: KindCheckbox, Required: true},
	}
	schema := CompileSchema(questions)
	if len(schema) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(schema))
	}
	if r := schema["q2"]; r.Kind != KindCurrency || r.Required {
		t.Fatalf("unexpected rule for q2: %+v", r)
	}
}

func TestCurrencyRule(t *testing.T) {
	required := FieldRule{Kind: KindCurrency, Required: true}
	optional := FieldRule{Kind: KindCurrency}

	if err := required.Validate(required.Coerce("")); err == nil {
		t.Fatalf("required currency must reject empty input")
	}
	if err := required.Validate(required.Coerce("abc")); err == nil {
		t.Fatalf("required currency must reject non-numeric input")
	}

	v := required.Coerce("1000")
	if !v.Present || v.Number != 1000 {
		t.Fatalf("expected 1000, got %+v", v)
	}
	if err := required.Validate(v); err != nil {
		t.Fatalf("valid number rejected: %v", err)
	}

	if err := optional.Validate(optional.Coerce("")); err != nil {
		t.Fatalf("optional currency must permit absence: %v", err)
	}
	// A supplied value must still be numeric even when optional.
	if err := optional.Validate(optional.Coerce("abc")); err == nil {
		t.Fatalf("optional currency must still reject non-numeric input")
	}
	if got := optional.Coerce("abc"); !math.IsNaN(got.Number) {
		t.Fatalf("failed parse should coerce to NaN, got %v", got.Number)
	}
}

func TestCheckboxRule(t *testing.T) {
	required := FieldRule{Kind: KindCheckbox, Required: true}
	optional := FieldRule{Kind: KindCheckbox}

	if err := required.Validate(SetValue()); err == nil {
		t.Fatalf("required checkbox must reject empty selection")
	}
	if err := required.Validate(SetValue("A", "B")); err != nil {
		t.Fatalf("non-empty selection rejected: %v", err)
	}
	if err := optional.Validate(SetValue()); err != nil {
		t.Fatalf("optional checkbox must permit empty selection: %v", err)
	}
}

func TestStringKinds(t *testing.T) {
	for _, kind := range []QuestionKind{KindText, KindDate, KindRadio, KindSelect} {
		required := FieldRule{Kind: kind, Required: true}
		if err := required.Validate(StringValue("")); err == nil {
			t.Fatalf("%s: required must reject empty string", kind)
		}
		if err := required.Validate(Value{}); err == nil {
			t.Fatalf("%s: required must reject unset value", kind)
		}
		if err := required.Validate(StringValue("x")); err != nil {
			t.Fatalf("%s: non-empty string rejected: %v", kind, err)
		}
		// Exact empty-string match is the failure condition; whitespace passes.
		if err := required.Validate(StringValue(" ")); err != nil {
			t.Fatalf("%s: whitespace-only string rejected: %v", kind, err)
		}

		optional := FieldRule{Kind: kind}
		if err := optional.Validate(StringValue("")); err != nil {
			t.Fatalf("%s: optional must permit empty string: %v", kind, err)
		}
	}
}

func TestUnknownKindFallsBackToText(t *testing.T) {
	rule := FieldRule{Kind: QuestionKind("slider"), Required: true}
	if err := rule.Validate(rule.Coerce("")); err == nil {
		t.Fatalf("unknown required kind must reject empty input")
	}
	if err := rule.Validate(rule.Coerce("3")); err != nil {
		t.Fatalf("unknown kind should validate as string: %v", err)
	}
}

func TestEmptyDefaults(t *testing.T) {
	if v := (FieldRule{Kind: KindCheckbox}).Empty(); v.Set == nil || len(v.Set) != 0 {
		t.Fatalf("checkbox default should be an empty set, got %+v", v)
	}
	if v := (FieldRule{Kind: KindText}).Empty(); v.Present {
		t.Fatalf("text default should be unset, got %+v", v)
	}
	if v := (FieldRule{Kind: KindCurrency}).Empty(); v.Present {
		t.Fatalf("currency default should be unset, got %+v", v)
	}
}
