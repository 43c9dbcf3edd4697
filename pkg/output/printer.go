package output

import (
	"fmt"
	"io"
	"os"

	"github.com/yndnr/clikit/pkg/logger"
	"github.com/yndnr/clikit/pkg/model"
)

// TableOptions customizes PrintModels table output.
type TableOptions struct {
	// Headers renames columns, keyed by model key.
	Headers map[string]string
	// Exclude drops columns by model key.
	Exclude []string
	// Formatters render cells, keyed by model key. They take precedence over
	// formatters registered on the models.
	Formatters map[string]model.Formatter
	// NoFooter hides the row count.
	NoFooter bool
}

// Printer writes results to a writer in one format.
type Printer struct {
	w      io.Writer
	format Format
	logger logger.Logger
}

// PrinterOption configures a Printer.
type PrinterOption func(*Printer)

// WithPrinterLogger sets the logger used for informational messages.
func WithPrinterLogger(l logger.Logger) PrinterOption {
	return func(p *Printer) {
		p.logger = l
	}
}

// NewPrinter creates a printer. A nil writer means os.Stdout.
func NewPrinter(w io.Writer, format Format, opts ...PrinterOption) *Printer {
	if w == nil {
		w = os.Stdout
	}
	p := &Printer{w: w, format: format, logger: logger.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Format returns the printer's format.
func (p *Printer) Format() Format {
	return p.format
}

// Print renders any value with the printer's formatter.
func (p *Printer) Print(data any) error {
	switch t := data.(type) {
	case *model.Model:
		return p.PrintModels([]*model.Model{t}, TableOptions{})
	case []*model.Model:
		return p.PrintModels(t, TableOptions{})
	}
	return NewFormatter(p.format, false).Format(p.w, data)
}

// PrintModels renders models.
//
// JSON and YAML output a list of objects, or a single object when exactly
// one model is given. Table output takes its columns from the first model,
// renders nested objects as JSON and lists joined with ", ", and ends with
// a row count.
func (p *Printer) PrintModels(models []*model.Model, opts TableOptions) error {
	switch p.format {
	case FormatJSON, FormatYAML:
		var data any = models
		if len(models) == 1 {
			data = models[0]
		} else if models == nil {
			data = []*model.Model{}
		}
		return NewFormatter(p.format, false).Format(p.w, data)
	}

	if len(models) == 0 {
		p.logger.Info("No results were found")
		return nil
	}

	t := ModelsTable(models, opts)
	if err := t.RenderPretty(p.w, false); err != nil {
		return err
	}
	if opts.NoFooter {
		return nil
	}
	_, err := fmt.Fprintln(p.w, rowCount(len(t.Rows)))
	return err
}

func rowCount(n int) string {
	if n == 1 {
		return "1 row"
	}
	return fmt.Sprintf("%d rows", n)
}

// ModelsTable builds a table from models using the first model's keys as
// columns.
func ModelsTable(models []*model.Model, opts TableOptions) *Table {
	t := &Table{}
	if len(models) == 0 {
		return t
	}

	excluded := make(map[string]bool, len(opts.Exclude))
	for _, k := range opts.Exclude {
		excluded[k] = true
	}

	var keys []string
	for _, k := range models[0].Keys() {
		if excluded[k] {
			continue
		}
		keys = append(keys, k)
		if h, ok := opts.Headers[k]; ok {
			t.Headers = append(t.Headers, h)
		} else {
			t.Headers = append(t.Headers, k)
		}
	}

	for _, m := range models {
		row := make([]string, len(keys))
		for i, k := range keys {
			row[i] = renderCell(m, k, opts)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func renderCell(m *model.Model, key string, opts TableOptions) string {
	v, ok := m.Lookup(key)
	if !ok {
		return ""
	}
	if f, ok := opts.Formatters[key]; ok {
		return f(v)
	}
	if f, ok := m.ColumnFormatter(key); ok {
		return f(v)
	}
	return Cell(v)
}
