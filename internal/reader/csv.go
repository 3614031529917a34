package reader

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
)

// ParseCSV reads a delimited file, treating the first row as headers.
func ParseCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	var records []Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		width := len(headers)
		if len(row) > width {
			width = len(row)
		}
		rec := make(Record, width)
		for i := 0; i < width; i++ {
			val := ""
			if i < len(row) {
				val = strings.TrimSpace(row[i])
			}
			rec[headerFor(headers, i)] = val
		}
		records = append(records, rec)
	}
	return records, nil
}
