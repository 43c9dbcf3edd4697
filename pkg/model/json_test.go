package model

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestFromJSON_DocumentOrder(t *testing.T) {
	m, err := FromJSON([]byte(`{"zeta": 1, "alpha": "a", "mid": {"y": 1, "b": 2}}`))
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"zeta", "alpha", "mid"}) {
		t.Errorf("Keys() = %v, want document order", got)
	}
	mid := m.Get("mid", nil).(*Model)
	if got := mid.Keys(); !reflect.DeepEqual(got, []string{"y", "b"}) {
		t.Errorf("mid.Keys() = %v, want document order", got)
	}
}

func TestFromJSON_Values(t *testing.T) {
	m, err := FromJSON([]byte(`{"n": 1.5, "i": 7, "t": true, "f": false, "z": null, "l": [1, {"k": "v"}]}`))
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}

	if m.Get("n", nil) != json.Number("1.5") {
		t.Errorf("n = %v (%T)", m.Get("n", nil), m.Get("n", nil))
	}
	if m.Get("i", nil) != json.Number("7") {
		t.Errorf("i = %v", m.Get("i", nil))
	}
	if m.Get("t", nil) != true || m.Get("f", nil) != false {
		t.Error("booleans not decoded")
	}
	if v, ok := m.Lookup("z"); !ok || v != nil {
		t.Errorf("z = %v, %v; want present nil", v, ok)
	}
	list := m.Get("l", nil).([]any)
	if _, ok := list[1].(*Model); !ok {
		t.Errorf("l[1] = %T, want *Model", list[1])
	}
}

func TestFromJSON_RoundTrip(t *testing.T) {
	in := `{"b":1,"a":{"d":[1,2],"c":"x"}}`
	m, err := FromJSON([]byte(in))
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != in {
		t.Errorf("Marshal() = %s, want %s", out, in)
	}
}

func TestFromJSON_Errors(t *testing.T) {
	if _, err := FromJSON([]byte(`{broken`)); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("FromJSON(broken) error = %v, want ErrInvalidJSON", err)
	}
	if _, err := FromJSON([]byte(`[1,2]`)); !errors.Is(err, ErrNotObject) {
		t.Errorf("FromJSON(array) error = %v, want ErrNotObject", err)
	}
}

func TestFromJSONArray(t *testing.T) {
	models, err := FromJSONArray([]byte(`[{"id": 1, "pw": "x"}, {"id": 2}]`), WithoutKeys("pw"))
	if err != nil {
		t.Fatalf("FromJSONArray() error = %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("len = %d, want 2", len(models))
	}
	if models[0].Has("pw") {
		t.Error("pw should be removed")
	}

	single, err := FromJSONArray([]byte(`{"id": 1}`))
	if err != nil || len(single) != 1 {
		t.Errorf("FromJSONArray(object) = %v, %v", single, err)
	}

	if _, err := FromJSONArray([]byte(`[{"id": 1}, 2]`)); !errors.Is(err, ErrNotObject) {
		t.Errorf("FromJSONArray(mixed) error = %v, want ErrNotObject", err)
	}
}
