package config

// SchemaValidator checks a namespace against a schema document.
//
// Validate returns one human-readable description per violation. A non-nil
// error means the schema itself could not be used.
type SchemaValidator interface {
	Validate(schema []byte, doc map[string]any) ([]string, error)
}

// ValidationResult reports the outcome of ValidateSchema.
type ValidationResult struct {
	Valid      bool
	Skipped    bool
	Violations []string
}

// ValidateSchema checks the namespace against schema.
//
// Without a validator (see WithSchemaValidator) the check is skipped and the
// result is reported as valid.
func (r *Resolver) ValidateSchema(schema []byte) ValidationResult {
	if r.validator == nil {
		r.logger.Warn("schema validation skipped: no validator configured")
		return ValidationResult{Valid: true, Skipped: true}
	}

	violations, err := r.validator.Validate(schema, r.All())
	if err != nil {
		r.logger.Error("schema validation failed", "error", err)
		return ValidationResult{Violations: []string{err.Error()}}
	}
	if len(violations) > 0 {
		r.logger.Warn("configuration does not match schema", "violations", len(violations))
	}
	return ValidationResult{
		Valid:      len(violations) == 0,
		Violations: violations,
	}
}
