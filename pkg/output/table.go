package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/yndnr/clikit/pkg/model"
)

// TableFormatter formats data as a table.
type TableFormatter struct {
	Wide      bool
	NoHeaders bool
	// Pretty draws borders around cells.
	Pretty bool
}

// Format formats data as a table.
// Supports: Table, models, []T (slice of structs/maps), map[string]any, structs.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	var table *Table
	switch t := data.(type) {
	case *Table:
		table = t
	case Table:
		table = &t
	case *model.Model:
		table = modelToTable(t)
	case []*model.Model:
		table = ModelsTable(t, TableOptions{})
	default:
		var err error
		if table, err = toTable(data, f.Wide); err != nil {
			// Fallback to JSON for complex types
			return (&JSONFormatter{}).Format(w, data)
		}
	}

	if f.Pretty {
		return table.RenderPretty(w, f.NoHeaders)
	}
	return table.RenderWithOptions(w, f.NoHeaders)
}

// toTable converts various data types to a Table.
func toTable(data any, wide bool) (*Table, error) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return sliceToTable(v, wide)
	case reflect.Map:
		return mapToTable(v), nil
	case reflect.Struct:
		return structToTable(v), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", v.Kind())
	}
}

// structColumns returns the header names and field indices shown for t.
func structColumns(t reflect.Type, wide bool) ([]string, []int) {
	var headers []string
	var indices []int
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("table")
		if tag == "-" {
			continue
		}
		if strings.Contains(tag, "wide") && !wide {
			continue
		}
		headers = append(headers, strings.ToUpper(toSnakeCase(fieldName(field))))
		indices = append(indices, i)
	}
	return headers, indices
}

// fieldName prefers the json tag name over the Go field name.
func fieldName(field reflect.StructField) string {
	if tag := field.Tag.Get("json"); tag != "" {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}

func sliceToTable(v reflect.Value, wide bool) (*Table, error) {
	if v.Len() == 0 {
		return &Table{}, nil
	}

	first := indirect(v.Index(0))
	table := &Table{}
	var indices []int

	switch first.Kind() {
	case reflect.Struct:
		table.Headers, indices = structColumns(first.Type(), wide)
	case reflect.Map:
		table.Headers = []string{"KEY", "VALUE"}
	default:
		table.Headers = []string{"VALUE"}
	}

	for i := 0; i < v.Len(); i++ {
		elem := indirect(v.Index(i))
		switch elem.Kind() {
		case reflect.Struct:
			row := make([]string, 0, len(indices))
			for _, idx := range indices {
				row = append(row, formatValue(elem.Field(idx)))
			}
			table.Rows = append(table.Rows, row)
		case reflect.Map:
			table.Rows = append(table.Rows, mapToTable(elem).Rows...)
		default:
			table.Rows = append(table.Rows, []string{formatValue(elem)})
		}
	}
	return table, nil
}

// mapToTable renders a map as KEY/VALUE rows sorted by key.
func mapToTable(v reflect.Value) *Table {
	table := &Table{Headers: []string{"KEY", "VALUE"}}

	iter := v.MapRange()
	for iter.Next() {
		table.AddRow(formatValue(iter.Key()), formatValue(iter.Value()))
	}
	sort.Slice(table.Rows, func(i, j int) bool {
		return table.Rows[i][0] < table.Rows[j][0]
	})
	return table
}

func structToTable(v reflect.Value) *Table {
	table := &Table{Headers: []string{"FIELD", "VALUE"}}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		table.AddRow(fieldName(field), formatValue(v.Field(i)))
	}
	return table
}

func modelToTable(m *model.Model) *Table {
	table := &Table{Headers: []string{"KEY", "VALUE"}}
	for _, it := range m.Items() {
		table.AddRow(it.Key, Cell(it.Value))
	}
	return table
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	return v
}

// formatValue formats a reflect.Value for display.
func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	if v.CanInterface() {
		if m, ok := v.Interface().(*model.Model); ok && m != nil {
			return Cell(m)
		}
	}
	v = indirect(v)
	if (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && v.IsNil() {
		return ""
	}

	if v.Type() == reflect.TypeOf(time.Time{}) {
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04")
	}

	switch v.Kind() {
	case reflect.String:
		if s := v.String(); s != "" {
			return s
		}
		return "-"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%d", v.Uint())
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%.2f", v.Float())
	case reflect.Bool:
		return fmt.Sprintf("%t", v.Bool())
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		if v.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("{%d keys}", v.Len())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// Cell renders a model value for a table cell: nested objects as JSON,
// lists joined with ", ", nil as empty.
func Cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case *model.Model, map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			if m, ok := e.(*model.Model); ok {
				parts[i] = Cell(m)
				continue
			}
			parts[i] = fmt.Sprintf("%v", e)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", t)
	}
}

// toSnakeCase converts CamelCase to SNAKE_CASE.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteByte('_')
		}
		result.WriteRune(r)
	}
	return result.String()
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table as aligned columns without borders.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// SetHeaders sets the table headers.
func (t *Table) SetHeaders(headers ...string) {
	t.Headers = headers
}
