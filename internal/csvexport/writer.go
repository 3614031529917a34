package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"hrdesk/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row for audit exports.
var columns = []string{
	"Row Index",
	"Field",
	"Old Value",
	"New Value",
	"Source",
	"Actor",
	"Applied At",
}

// Writer wraps csv.Writer for exporting the imputation audit trail.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteEntries converts audit entries to CSV rows and writes them.
func (w *Writer) WriteEntries(entries []domain.ImputationAuditEntry) error {
	for i := range entries {
		if err := w.csv.Write(entryToRow(&entries[i])); err != nil {
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

func entryToRow(e *domain.ImputationAuditEntry) []string {
	row := make([]string, len(columns))
	row[0] = strconv.Itoa(e.RowIndex)
	row[1] = e.Field
	row[2] = e.OldValue
	row[3] = e.NewValue
	row[4] = string(e.Source)
	if e.ActorUserID != nil {
		row[5] = e.ActorUserID.String()
	}
	row[6] = e.AppliedAt.Format(time.RFC3339)
	return row
}
