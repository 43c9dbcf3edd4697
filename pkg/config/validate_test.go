package config

import (
	"errors"
	"testing"
)

type stubValidator struct {
	violations []string
	err        error
	gotDoc     map[string]any
}

func (s *stubValidator) Validate(_ []byte, doc map[string]any) ([]string, error) {
	s.gotDoc = doc
	return s.violations, s.err
}

func TestValidateSchema_Skipped(t *testing.T) {
	r := newTestResolver(t, "test-app")

	res := r.ValidateSchema([]byte(`{}`))
	if !res.Valid || !res.Skipped {
		t.Errorf("ValidateSchema() = %+v, want valid and skipped", res)
	}
}

func TestValidateSchema_Pass(t *testing.T) {
	v := &stubValidator{}
	r := newTestResolver(t, "test-app", WithSchemaValidator(v))
	r.Set("api.url", "u")

	res := r.ValidateSchema([]byte(`{}`))
	if !res.Valid || res.Skipped || len(res.Violations) != 0 {
		t.Errorf("ValidateSchema() = %+v, want clean pass", res)
	}
	if v.gotDoc["api"].(map[string]any)["url"] != "u" {
		t.Errorf("validator saw %v, want resolved namespace", v.gotDoc)
	}
}

func TestValidateSchema_Violations(t *testing.T) {
	v := &stubValidator{violations: []string{"api.url: expected string"}}
	r := newTestResolver(t, "test-app", WithSchemaValidator(v))

	res := r.ValidateSchema([]byte(`{}`))
	if res.Valid {
		t.Error("ValidateSchema().Valid = true, want false")
	}
	if len(res.Violations) != 1 {
		t.Errorf("Violations = %v, want 1", res.Violations)
	}
}

func TestValidateSchema_ValidatorError(t *testing.T) {
	v := &stubValidator{err: errors.New("bad schema")}
	r := newTestResolver(t, "test-app", WithSchemaValidator(v))

	res := r.ValidateSchema([]byte(`nope`))
	if res.Valid || res.Skipped {
		t.Errorf("ValidateSchema() = %+v, want failure", res)
	}
	if len(res.Violations) != 1 || res.Violations[0] != "bad schema" {
		t.Errorf("Violations = %v, want error message", res.Violations)
	}
}
