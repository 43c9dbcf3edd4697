package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats data as JSON.
type JSONFormatter struct {
	// Compact disables indentation.
	Compact bool
}

// Format formats data as JSON. Models keep their key order.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if !f.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}
