package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidJSON is returned for input that is not well-formed JSON.
	ErrInvalidJSON = errors.New("model: invalid JSON")
	// ErrNotObject is returned when an object was expected.
	ErrNotObject = errors.New("model: JSON value is not an object")
)

// FromJSON builds a model from a JSON object, keeping document key order.
// Numbers are kept as json.Number.
func FromJSON(data []byte, opts ...Option) (*Model, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return nil, ErrNotObject
	}
	return fromResult(res, buildOptions(opts)), nil
}

// FromJSONArray builds one model per element of a JSON array of objects.
// A single object yields a one-element slice.
func FromJSONArray(data []byte, opts ...Option) ([]*Model, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	res := gjson.ParseBytes(data)
	o := buildOptions(opts)

	if res.IsObject() {
		return []*Model{fromResult(res, o)}, nil
	}
	if !res.IsArray() {
		return nil, ErrNotObject
	}

	var (
		out []*Model
		err error
	)
	res.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			err = fmt.Errorf("element %d: %w", len(out), ErrNotObject)
			return false
		}
		out = append(out, fromResult(v, o))
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func fromResult(res gjson.Result, o *options) *Model {
	m := empty()
	res.ForEach(func(k, v gjson.Result) bool {
		if _, skip := o.without[k.String()]; !skip {
			m.set(k.String(), resultValue(v, o))
		}
		return true
	})
	return m
}

func resultValue(v gjson.Result, o *options) any {
	switch {
	case v.IsObject():
		return fromResult(v, o)
	case v.IsArray():
		arr := v.Array()
		out := make([]any, len(arr))
		for i, e := range arr {
			out[i] = resultValue(e, o)
		}
		return out
	}

	switch v.Type {
	case gjson.String:
		return v.String()
	case gjson.Number:
		return json.Number(v.Raw)
	case gjson.True:
		return true
	case gjson.False:
		return false
	default:
		return nil
	}
}
