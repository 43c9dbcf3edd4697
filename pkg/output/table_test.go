package output

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/clikit/pkg/model"
)

func TestTableFormatter_Format_Table(t *testing.T) {
	table := &Table{
		Headers: []string{"NAME", "VALUE"},
		Rows: [][]string{
			{"key1", "value1"},
			{"key2", "value2"},
		},
	}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Format() lines = %q, want header + 2 rows", lines)
	}
	if !strings.HasPrefix(lines[0], "NAME  ") {
		t.Errorf("header = %q, want aligned NAME column", lines[0])
	}
	if !strings.Contains(lines[1], "key1") || !strings.Contains(lines[1], "value1") {
		t.Errorf("row = %q, missing data", lines[1])
	}
}

func TestTableFormatter_Format_TableNoHeaders(t *testing.T) {
	table := Table{
		Headers: []string{"NAME"},
		Rows:    [][]string{{"data"}},
	}

	var buf bytes.Buffer
	if err := (&TableFormatter{NoHeaders: true}).Format(&buf, table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.Contains(buf.String(), "NAME") {
		t.Error("Format() should omit headers")
	}
	if !strings.Contains(buf.String(), "data") {
		t.Error("Format() missing row data")
	}
}

func TestTableFormatter_Format_Pretty(t *testing.T) {
	table := &Table{
		Headers: []string{"NAME", "COUNT"},
		Rows:    [][]string{{"alpha", "1"}, {"beta", "20"}},
	}

	var buf bytes.Buffer
	if err := (&TableFormatter{Pretty: true}).Format(&buf, table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"NAME", "COUNT", "alpha", "beta", "20", "┌", "┘"} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty output missing %q:\n%s", want, out)
		}
	}
}

type testRow struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Detail    string    `table:"wide"`
	Secret    string    `table:"-"`
	hidden    string
}

func TestToTable_StructSlice(t *testing.T) {
	rows := []testRow{
		{Name: "a", Detail: "d1", Secret: "s", hidden: "h"},
		{Name: "b", Detail: "d2"},
	}

	table, err := toTable(rows, false)
	if err != nil {
		t.Fatalf("toTable() error = %v", err)
	}
	if want := []string{"NAME", "CREATED_AT"}; !reflect.DeepEqual(table.Headers, want) {
		t.Errorf("Headers = %v, want %v", table.Headers, want)
	}
	if table.Rows[0][1] != "-" {
		t.Errorf("zero time = %q, want -", table.Rows[0][1])
	}

	wide, err := toTable(rows, true)
	if err != nil {
		t.Fatalf("toTable() error = %v", err)
	}
	if want := []string{"NAME", "CREATED_AT", "DETAIL"}; !reflect.DeepEqual(wide.Headers, want) {
		t.Errorf("wide Headers = %v, want %v", wide.Headers, want)
	}
}

func TestToTable_MapSorted(t *testing.T) {
	table, err := toTable(map[string]any{"b": 2, "a": "x", "c": nil}, false)
	if err != nil {
		t.Fatalf("toTable() error = %v", err)
	}
	want := [][]string{{"a", "x"}, {"b", "2"}, {"c", ""}}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Errorf("Rows = %v, want %v", table.Rows, want)
	}
}

func TestToTable_Struct(t *testing.T) {
	table, err := toTable(&testRow{Name: "n"}, false)
	if err != nil {
		t.Fatalf("toTable() error = %v", err)
	}
	if table.Headers[0] != "FIELD" || table.Rows[0][0] != "name" || table.Rows[0][1] != "n" {
		t.Errorf("table = %+v", table)
	}
}

func TestToTable_Unsupported(t *testing.T) {
	if _, err := toTable(42, false); err == nil {
		t.Error("toTable(int) should fail")
	}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, 42); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "42" {
		t.Errorf("Format(42) = %q, want JSON fallback", buf.String())
	}
}

func TestFormatValue(t *testing.T) {
	var nilPtr *string
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"empty string", "", "-"},
		{"int", 7, "7"},
		{"uint", uint8(3), "3"},
		{"float", 1.5, "1.50"},
		{"bool", true, "true"},
		{"slice", []int{1, 2}, "[2 items]"},
		{"empty slice", []int{}, "-"},
		{"map", map[string]int{"a": 1}, "{1 keys}"},
		{"nil pointer", nilPtr, ""},
		{"time", time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC), "2024-01-02 03:04"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(reflect.ValueOf(tt.in)); got != tt.want {
				t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCell(t *testing.T) {
	child := model.New(map[string]any{"k": "v"})
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "s", "s"},
		{"number", 3, "3"},
		{"model", child, `{"k":"v"}`},
		{"list", []any{"a", 1, child}, `a, 1, {"k":"v"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cell(tt.in); got != tt.want {
				t.Errorf("Cell() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTable_AddRowSetHeaders(t *testing.T) {
	table := &Table{}
	table.SetHeaders("A", "B")
	table.AddRow("1", "2")

	var buf bytes.Buffer
	if err := table.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "A  B") || !strings.Contains(buf.String(), "1  2") {
		t.Errorf("Render() = %q", buf.String())
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("CreatedAt"); got != "Created_At" {
		t.Errorf("toSnakeCase() = %q", got)
	}
}
