package csvexport

import (
	"encoding/csv"
	"io"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Writer wraps csv.Writer for exporting report tables as CSV.
type Writer struct {
	out     io.Writer
	csv     *csv.Writer
	started bool
}

// NewWriter creates a Writer that writes CSV to w, prefixed with a BOM.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w, csv: csv.NewWriter(w)}
}

// WriteRow writes one record, emitting the BOM before the first one.
func (w *Writer) WriteRow(row []string) error {
	if !w.started {
		w.started = true
		if _, err := w.out.Write(BOM); err != nil {
			return err
		}
	}
	return w.csv.Write(row)
}

// WriteRows writes every record in rows.
func (w *Writer) WriteRows(rows [][]string) error {
	for _, row := range rows {
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}
