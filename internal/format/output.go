package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// Tabular is implemented by command results that have a natural row form.
type Tabular interface {
	Header() []string
	Rows() [][]string
}

// Table is a ready-made Tabular value.
type Table struct {
	Head []string
	Body [][]string
}

func (t Table) Header() []string { return t.Head }
func (t Table) Rows() [][]string { return t.Body }

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - yaml
// - table (only for Tabular values)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "yaml":
		return WriteYAML(w, v)
	case "table":
		t, ok := v.(Tabular)
		if !ok {
			return fmt.Errorf("table output not supported for %T", v)
		}
		return WriteTable(w, t)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteYAML goes through JSON first so json tags and custom marshalers decide field names.
func WriteYAML(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(x); err != nil {
		return err
	}
	return enc.Close()
}

func WriteTable(w io.Writer, t Tabular) error {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Header()...).
		Rows(t.Rows()...)
	_, err := fmt.Fprintln(w, tbl.String())
	return err
}
