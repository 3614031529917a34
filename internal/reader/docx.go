package reader

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// ParseDocx reads a Word document. An embedded table is parsed like a
// delimited file (first row headers, remaining rows data). Without a
// table, contiguous "Key: Value" paragraphs are grouped into records,
// with a blank paragraph starting a new record. As a last resort a
// rule-based entity scan recovers a single record from the free text.
func ParseDocx(path string) ([]Record, error) {
	tables, paragraphs, err := readDocumentXML(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var records []Record
	for _, tbl := range tables {
		if len(tbl) < 2 {
			continue
		}
		headers := tbl[0]
		for _, row := range tbl[1:] {
			rec := make(Record, len(headers))
			for i := range headers {
				val := ""
				if i < len(row) {
					val = strings.TrimSpace(row[i])
				}
				rec[headerFor(headers, i)] = val
			}
			records = append(records, rec)
		}
	}
	if len(records) > 0 {
		return records, nil
	}

	// Key: Value paragraph groups
	current := Record{}
	for _, text := range paragraphs {
		text = strings.TrimSpace(text)
		if text == "" {
			if len(current) > 0 {
				records = append(records, current)
				current = Record{}
			}
			continue
		}
		if k, v, ok := strings.Cut(text, ":"); ok {
			current[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	if len(current) > 0 {
		records = append(records, current)
	}
	if len(records) > 0 {
		return records, nil
	}

	// Free text: best-effort entity scan
	if ent := ExtractEntities(strings.Join(paragraphs, "\n")); len(ent) > 0 {
		records = append(records, ent)
	}
	return records, nil
}

// readDocumentXML walks word/document.xml and returns the document's
// tables (rows of cell texts) and top-level paragraph texts.
func readDocumentXML(path string) (tables [][][]string, paragraphs []string, err error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = zr.Close() }()

	var doc io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc, err = f.Open()
			if err != nil {
				return nil, nil, err
			}
			break
		}
	}
	if doc == nil {
		return nil, nil, errors.New("no word/document.xml entry")
	}
	defer func() { _ = doc.Close() }()

	dec := xml.NewDecoder(doc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "tbl":
			tbl, err := decodeTable(dec, start)
			if err != nil {
				return nil, nil, err
			}
			tables = append(tables, tbl)
		case "p":
			text, err := decodeText(dec, start)
			if err != nil {
				return nil, nil, err
			}
			paragraphs = append(paragraphs, text)
		}
	}
	return tables, paragraphs, nil
}

// decodeTable consumes a w:tbl element, returning rows of cell texts.
func decodeTable(dec *xml.Decoder, start xml.StartElement) ([][]string, error) {
	var rows [][]string
	depth := 1
	var row []string
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tr":
				row = nil
				depth++
			case "tc":
				text, err := decodeText(dec, t)
				if err != nil {
					return nil, err
				}
				row = append(row, text)
			default:
				depth++
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "tr" {
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}

// decodeText consumes an element, concatenating all w:t character data.
func decodeText(dec *xml.Decoder, start xml.StartElement) (string, error) {
	var sb strings.Builder
	depth := 1
	inText := false
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			inText = t.Name.Local == "t"
		case xml.EndElement:
			depth--
			inText = false
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
