package reader

import (
	"errors"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseExcel reads the first sheet of a workbook, treating the first row
// as headers. Cell values arrive as excelize renders them (formatted
// strings), trimmed; cells missing from short rows become empty strings.
func ParseExcel(path string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, &ParseError{Path: path, Err: errors.New("workbook has no sheets")}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := rows[0]
	width := len(headers)
	var records []Record
	for _, row := range rows[1:] {
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
