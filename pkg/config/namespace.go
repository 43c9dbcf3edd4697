package config

import (
	"strings"

	"github.com/knadh/koanf/maps"

	"github.com/yndnr/clikit/internal/infra/confloader"
)

func splitPath(key string) []string {
	return strings.Split(key, confloader.Delimiter)
}

// Lookup returns the value at a dotted path and whether it is set.
// Namespaces are returned as copies.
func (r *Resolver) Lookup(key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	var cur any = r.data
	for _, seg := range splitPath(key) {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[seg]; !ok {
			return nil, false
		}
	}

	if m, ok := cur.(map[string]any); ok {
		return maps.Copy(m), true
	}
	return cur, true
}

// Get returns the value at a dotted path, or def when any segment is missing
// or an intermediate value is not a namespace.
func (r *Resolver) Get(key string, def any) any {
	if v, ok := r.Lookup(key); ok {
		return v
	}
	return def
}

// GetString is Get for string values. Non-string values yield def.
func (r *Resolver) GetString(key, def string) string {
	if s, ok := r.Get(key, def).(string); ok {
		return s
	}
	return def
}

// Set stores value at a dotted path. Missing intermediates, and intermediates
// that hold something other than a namespace, are replaced with empty
// namespaces.
func (r *Resolver) Set(key string, value any) {
	if key == "" {
		return
	}
	if m, ok := value.(map[string]any); ok {
		value = maps.Copy(m)
	}

	segs := splitPath(key)
	cur := r.data
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = value
}

// Update merges mapping into the namespace. Namespaces present on both sides
// are merged recursively; any other incoming value replaces the existing one.
func (r *Resolver) Update(mapping map[string]any) {
	if len(mapping) == 0 {
		return
	}
	maps.Merge(maps.Copy(mapping), r.data)
}

// Delete removes the value at a dotted path and reports whether it existed.
func (r *Resolver) Delete(key string) bool {
	if key == "" {
		return false
	}

	segs := splitPath(key)
	cur := r.data
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			return false
		}
		cur = next
	}

	leaf := segs[len(segs)-1]
	if _, ok := cur[leaf]; !ok {
		return false
	}
	delete(cur, leaf)
	return true
}

// Clear empties the in-memory namespace. The user file is not touched.
func (r *Resolver) Clear() {
	r.data = map[string]any{}
}

// All returns a deep copy of the namespace.
func (r *Resolver) All() map[string]any {
	return maps.Copy(r.data)
}

// Unmarshal decodes the subtree at a dotted path into target using koanf
// struct tags. An empty path decodes the whole namespace.
func (r *Resolver) Unmarshal(path string, target any) error {
	l, err := confloader.FromMap(r.data)
	if err != nil {
		return err
	}
	return l.Unmarshal(path, target)
}
