package excel

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"anaviz/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectFileType(t *testing.T) {
	ft, err := DetectFileType("sales.CSV")
	require.NoError(t, err)
	assert.Equal(t, FileTypeCSV, ft)

	ft, err = DetectFileType("/tmp/book.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FileTypeXLSX, ft)

	_, err = DetectFileType("notes.pdf")
	assert.True(t, errors.HasCode(err, errors.CodeUnsupportedFile))
}

func TestReadFrom_CSV(t *testing.T) {
	r, err := NewDataReader("data.csv")
	require.NoError(t, err)

	src := "\ufeff name , age\nann,31\nbob\ncid,27,extra\n"
	tbl, err := r.ReadFrom(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age"}, tbl.Headers())
	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, []string{"bob", ""}, tbl.Row(1))
	assert.Equal(t, []string{"cid", "27"}, tbl.Row(2))
	assert.Equal(t, 2, tbl.Ragged())
}

func TestReadFrom_EmptyCSV(t *testing.T) {
	r, err := NewDataReader("empty.csv")
	require.NoError(t, err)

	_, err = r.ReadFrom(strings.NewReader(""))
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestReadFrom_HeaderOnly(t *testing.T) {
	r, err := NewDataReader("h.csv")
	require.NoError(t, err)

	tbl, err := r.ReadFrom(strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumCols())
	assert.Equal(t, 0, tbl.NumRows())
}

func TestReadFrom_XLSX(t *testing.T) {
	book := excelize.NewFile()
	defer book.Close()

	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]interface{}{"month", "sales"}))
	require.NoError(t, book.SetSheetRow(sheet, "A2", &[]interface{}{"jan", 10}))
	require.NoError(t, book.SetSheetRow(sheet, "A3", &[]interface{}{"feb", 12.5}))

	var buf bytes.Buffer
	require.NoError(t, book.Write(&buf))

	r, err := NewDataReader("book.xlsx")
	require.NoError(t, err)

	tbl, err := r.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"month", "sales"}, tbl.Headers())
	assert.Equal(t, [][]string{{"month", "sales"}, {"jan", "10"}, {"feb", "12.5"}}, tbl.Records())
}

func TestReadFrom_CorruptXLSX(t *testing.T) {
	r, err := NewDataReader("bad.xlsx")
	require.NoError(t, err)

	_, err = r.ReadFrom(strings.NewReader("not a zip"))
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n1,2\n3,4\n"), 0o644))

	tbl, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x", "y"}, {"1", "2"}}, Preview(tbl, 1))

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))
}
