// Package model provides an ordered, dynamically shaped record type for
// command results.
//
// A Model keeps its keys in insertion order so that table output columns
// follow the source document. Nested objects become nested Models.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Formatter renders one column value for table output.
type Formatter func(value any) string

// ValidatorFunc reports constraint violations for a model.
type ValidatorFunc func(m *Model) []string

// Item is one key/value pair.
type Item struct {
	Key   string
	Value any
}

// Model is an ordered key/value record.
type Model struct {
	keys       []string
	data       map[string]any
	formatters map[string]Formatter
	validators []ValidatorFunc
}

type options struct {
	without map[string]struct{}
}

// Option configures model construction.
type Option func(*options)

// WithoutKeys drops the named keys at every nesting level.
func WithoutKeys(keys ...string) Option {
	return func(o *options) {
		for _, k := range keys {
			o.without[k] = struct{}{}
		}
	}
}

func buildOptions(opts []Option) *options {
	o := &options{without: map[string]struct{}{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// New builds a model from a map. Go maps are unordered, so keys are sorted.
func New(data map[string]any, opts ...Option) *Model {
	return fromMap(data, buildOptions(opts))
}

func fromMap(data map[string]any, o *options) *Model {
	m := empty()
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, skip := o.without[k]; skip {
			continue
		}
		m.set(k, convert(data[k], o))
	}
	return m
}

func empty() *Model {
	return &Model{
		data:       map[string]any{},
		formatters: map[string]Formatter{},
	}
}

// convert turns nested maps (also inside slices) into models.
func convert(v any, o *options) any {
	switch t := v.(type) {
	case map[string]any:
		return fromMap(t, o)
	case *Model:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = convert(e, o)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromMap(e, o)
		}
		return out
	default:
		return v
	}
}

func (m *Model) set(key string, value any) {
	if _, ok := m.data[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.data[key] = value
}

// Get returns the value for key, or def when the key is absent.
func (m *Model) Get(key string, def any) any {
	if v, ok := m.data[key]; ok {
		return v
	}
	return def
}

// Lookup returns the value for key and whether it is present.
func (m *Model) Lookup(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

// Set stores value under key. New keys go to the end of the order.
// Maps are converted to nested models.
func (m *Model) Set(key string, value any) {
	m.set(key, convert(value, buildOptions(nil)))
}

// Has reports whether key is present.
func (m *Model) Has(key string) bool {
	_, ok := m.data[key]
	return ok
}

// Delete removes key and reports whether it was present.
func (m *Model) Delete(key string) bool {
	if _, ok := m.data[key]; !ok {
		return false
	}
	delete(m.data, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of keys.
func (m *Model) Len() int {
	return len(m.keys)
}

// Keys returns the keys in order.
func (m *Model) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Values returns the values in key order.
func (m *Model) Values() []any {
	out := make([]any, len(m.keys))
	for i, k := range m.keys {
		out[i] = m.data[k]
	}
	return out
}

// Items returns the key/value pairs in order.
func (m *Model) Items() []Item {
	out := make([]Item, len(m.keys))
	for i, k := range m.keys {
		out[i] = Item{Key: k, Value: m.data[k]}
	}
	return out
}

// ToMap converts the model, and every nested model, to plain maps.
func (m *Model) ToMap() map[string]any {
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = plain(m.data[k])
	}
	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case *Model:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes the model as an object with keys in order.
func (m *Model) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := json.Marshal(m.data[k])
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String renders the model as "#<Model k=v ...>".
func (m *Model) String() string {
	parts := make([]string, len(m.keys))
	for i, k := range m.keys {
		parts[i] = fmt.Sprintf("%s=%v", k, m.data[k])
	}
	return "#<Model " + strings.Join(parts, " ") + ">"
}

// Clone returns a deep copy, formatters and validators included.
func (m *Model) Clone() *Model {
	c := empty()
	for _, k := range m.keys {
		c.set(k, cloneValue(m.data[k]))
	}
	for k, f := range m.formatters {
		c.formatters[k] = f
	}
	c.validators = append(c.validators, m.validators...)
	return c
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Model:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// FormatColumn registers a table formatter for key.
func (m *Model) FormatColumn(key string, f Formatter) {
	m.formatters[key] = f
}

// ColumnFormatter returns the formatter registered for key, if any.
func (m *Model) ColumnFormatter(key string) (Formatter, bool) {
	f, ok := m.formatters[key]
	return f, ok
}

// AddValidator registers a validation rule.
func (m *Model) AddValidator(v ValidatorFunc) {
	m.validators = append(m.validators, v)
}

// Validate runs every registered rule and returns all violations.
func (m *Model) Validate() []string {
	var errs []string
	for _, v := range m.validators {
		errs = append(errs, v(m)...)
	}
	return errs
}

// IsValid reports whether Validate returns no violations.
func (m *Model) IsValid() bool {
	return len(m.Validate()) == 0
}
