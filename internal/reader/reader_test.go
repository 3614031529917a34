package reader_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hrdesk/internal/reader"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCSV(t *testing.T) {
	path := writeTemp(t, "people.csv", "Name,Email\nMaya Chen,maya@example.com\nRui Alves,rui@example.com\n")

	records, err := reader.ParseCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Maya Chen", records[0]["Name"])
	assert.Equal(t, "rui@example.com", records[1]["Email"])
}

func TestParseCSV_RaggedRows(t *testing.T) {
	path := writeTemp(t, "ragged.csv", "Name,Email,Role\nMaya\nRui,rui@example.com,driver,extra\n")

	records, err := reader.ParseCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Short rows pad with empty strings, long rows get synthesized headers.
	assert.Equal(t, "", records[0]["Email"])
	assert.Equal(t, "extra", records[1]["column_4"])
}

func TestParseCSV_MissingFile(t *testing.T) {
	_, err := reader.ParseCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	var perr *reader.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestParseExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Name", "Email"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Maya Chen", "maya@example.com"}))
	require.NoError(t, f.SaveAs(path))

	records, err := reader.ParseExcel(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Maya Chen", records[0]["Name"])
	assert.Equal(t, "maya@example.com", records[0]["Email"])
}

func writeDocx(t *testing.T, documentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestParseDocx_Table(t *testing.T) {
	path := writeDocx(t, `<document><body><tbl>
		<tr><tc><p><t>Name</t></p></tc><tc><p><t>Email</t></p></tc></tr>
		<tr><tc><p><t>Maya Chen</t></p></tc><tc><p><t>maya@example.com</t></p></tc></tr>
	</tbl></body></document>`)

	records, err := reader.ParseDocx(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Maya Chen", records[0]["Name"])
	assert.Equal(t, "maya@example.com", records[0]["Email"])
}

func TestParseDocx_KeyValueParagraphs(t *testing.T) {
	path := writeDocx(t, `<document><body>
		<p><r><t>Name: Maya Chen</t></r></p>
		<p><r><t>Email: maya@example.com</t></r></p>
		<p></p>
		<p><r><t>Name: Rui Alves</t></r></p>
	</body></document>`)

	records, err := reader.ParseDocx(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Maya Chen", records[0]["Name"])
	assert.Equal(t, "Rui Alves", records[1]["Name"])
}

func TestParseDocx_FreeTextFallsBackToEntityScan(t *testing.T) {
	path := writeDocx(t, `<document><body>
		<p><r><t>Reached via maya@example.com, started around 2015.</t></r></p>
	</body></document>`)

	records, err := reader.ParseDocx(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "maya@example.com", records[0]["email"])
	assert.Equal(t, "2015", records[0]["year_start"])
}

func TestForPath_DispatchesByExtension(t *testing.T) {
	// Unknown extensions are treated as delimited text.
	path := writeTemp(t, "people.txt", "Name\nMaya\n")
	records, err := reader.ForPath(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Maya", records[0]["Name"])
}

func TestExtractEntities(t *testing.T) {
	rec := reader.ExtractEntities("Name: Maya Chen\nDate of birth: 1990-05-17\ncontact maya@example.com")

	assert.Equal(t, "Maya Chen", rec["name"])
	assert.Equal(t, "1990-05-17", rec["dob"])
	assert.Equal(t, "maya@example.com", rec["email"])
	assert.Equal(t, "1990", rec["year_start"])
}

func TestExtractEntities_Empty(t *testing.T) {
	assert.Empty(t, reader.ExtractEntities("nothing useful here"))
}
