package confloader

import (
	"bytes"
	"fmt"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
)

// emptyDocument is what an empty namespace encodes to.
var emptyDocument = []byte("{}\n")

// Decode parses a YAML document into a namespace.
// An empty or null document yields an empty namespace, not an error.
// A document whose root is not a mapping is an error.
func Decode(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	mp, err := yaml.Parser().Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if mp == nil {
		return map[string]any{}, nil
	}

	// Non-string keys (e.g. `1: one`) come back as map[any]any.
	maps.IntfaceKeysToStrings(mp)
	return mp, nil
}

// Encode serializes a namespace as a YAML document.
func Encode(mp map[string]any) ([]byte, error) {
	if len(mp) == 0 {
		return append([]byte(nil), emptyDocument...), nil
	}

	out, err := yaml.Parser().Marshal(mp)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return out, nil
}

// ReadFile returns the raw contents of a layer file.
func ReadFile(path string) ([]byte, error) {
	data, err := file.Provider(path).ReadBytes()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// DecodeFile reads and parses a layer file.
func DecodeFile(path string) (map[string]any, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	mp, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mp, nil
}
