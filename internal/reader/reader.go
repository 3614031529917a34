// Package reader extracts loosely-typed records from import files.
// Each reader returns rows as string-keyed maps with the original column
// headers; values are trimmed strings (or native values for spreadsheet
// cells). Blank cells are kept as empty strings so downstream stages can
// tell "present but blank" from "absent".
package reader

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Record is one raw row keyed by the original header strings.
type Record map[string]any

// ParseError indicates an unreadable or corrupt import file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ForPath dispatches to the reader for the file's extension. Unknown
// extensions fall back to the CSV reader rather than failing, so plain
// text exports with odd suffixes still import.
func ForPath(path string) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return ParseExcel(path)
	case ".docx":
		return ParseDocx(path)
	default:
		return ParseCSV(path)
	}
}

// headerFor returns the trimmed header for column i, synthesizing a
// positional name for files whose data rows are wider than the header row.
func headerFor(headers []string, i int) string {
	if i < len(headers) {
		if h := strings.TrimSpace(headers[i]); h != "" {
			return h
		}
	}
	return fmt.Sprintf("column_%d", i+1)
}
