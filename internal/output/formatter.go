// Package output provides formatting utilities for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Writer handles formatted output to a destination.
type Writer struct {
	dest io.Writer
}

// NewWriter creates an output writer targeting stdout.
func NewWriter() *Writer {
	return &Writer{dest: os.Stdout}
}

// WriteJSON encodes a value as pretty-printed JSON.
func (w *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(w.dest)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteText writes plain text.
func (w *Writer) WriteText(s string) error {
	_, err := fmt.Fprint(w.dest, s)
	return err
}

// WriteLn writes a line of text.
func (w *Writer) WriteLn(s string) error {
	_, err := fmt.Fprintln(w.dest, s)
	return err
}

// Heading writes an emphasized section heading.
func (w *Writer) Heading(s string) {
	color.New(color.FgCyan, color.Bold).Fprintln(w.dest, s)
}

// WriteError writes an error message to stderr.
func WriteError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// WriteWarning writes a highlighted warning to stderr.
func WriteWarning(format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}
