package confloader

import (
	"fmt"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/v2"
)

// Delimiter separates segments of a key path.
const Delimiter = "."

// Loader is a read-only typed view over a namespace.
//
// It copies whatever it loads, so later changes to the source map do not
// leak into the view.
type Loader struct {
	k *koanf.Koanf
}

// NewLoader creates an empty view.
func NewLoader() *Loader {
	return &Loader{k: koanf.New(Delimiter)}
}

// FromMap creates a view over a copy of mp.
func FromMap(mp map[string]any) (*Loader, error) {
	l := NewLoader()
	if err := l.LoadMap(mp); err != nil {
		return nil, err
	}
	return l, nil
}

// LoadMap merges a namespace into the view.
func (l *Loader) LoadMap(mp map[string]any) error {
	if len(mp) == 0 {
		return nil
	}
	if err := l.k.Load(mapProvider(maps.Copy(mp)), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// Unmarshal decodes the subtree at path into target using koanf struct tags.
// An empty path decodes the whole view.
func (l *Loader) Unmarshal(path string, target any) error {
	if err := l.k.Unmarshal(path, target); err != nil {
		return fmt.Errorf("unmarshal %q: %w", path, err)
	}
	return nil
}

// Exists reports whether path is set.
func (l *Loader) Exists(path string) bool {
	return l.k.Exists(path)
}

// GetString returns the value at path converted to a string.
func (l *Loader) GetString(path string) string {
	return l.k.String(path)
}

// GetInt returns the value at path converted to an int.
func (l *Loader) GetInt(path string) int {
	return l.k.Int(path)
}

// GetBool returns the value at path converted to a bool.
func (l *Loader) GetBool(path string) bool {
	return l.k.Bool(path)
}

// Keys returns every leaf path in the view.
func (l *Loader) Keys() []string {
	return l.k.Keys()
}
