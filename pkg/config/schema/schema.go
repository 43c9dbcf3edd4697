// Package schema validates a configuration namespace against a JSON Schema.
//
// Schemas may use any draft supported by santhosh-tekuri/jsonschema; the
// draft is taken from $schema and defaults to 2020-12.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const resourceName = "config.schema.json"

// Validator implements config.SchemaValidator.
type Validator struct{}

// New returns a Validator.
func New() *Validator {
	return &Validator{}
}

// Validate checks doc against schema and returns one line per violation,
// formatted as "<dotted path>: <message>".
func (v *Validator) Validate(schema []byte, doc map[string]any) ([]string, error) {
	sch, err := compile(schema)
	if err != nil {
		return nil, err
	}

	inst, err := toJSON(doc)
	if err != nil {
		return nil, err
	}

	err = sch.Validate(inst)
	if err == nil {
		return nil, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return flatten(ve), nil
}

func compile(schema []byte) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(resourceName, bytes.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	sch, err := c.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return sch, nil
}

// toJSON converts a YAML-decoded namespace into the value shapes the
// validator expects (json.Number, []any, map[string]any).
func toJSON(doc map[string]any) (any, error) {
	if doc == nil {
		doc = map[string]any{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}

// flatten collects the leaf causes of a validation error.
func flatten(ve *jsonschema.ValidationError) []string {
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, fmt.Sprintf("%s: %s", dottedPath(e.InstanceLocation), e.Message))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)

	sort.Strings(out)
	return out
}

// dottedPath turns a JSON pointer ("/api/url") into "api.url".
func dottedPath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return "(root)"
	}
	segs := strings.Split(pointer, "/")
	for i, s := range segs {
		s = strings.ReplaceAll(s, "~1", "/")
		segs[i] = strings.ReplaceAll(s, "~0", "~")
	}
	return strings.Join(segs, ".")
}
