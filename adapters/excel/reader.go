package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"anaviz/domain/table"
	"anaviz/internal/errors"

	"github.com/xuri/excelize/v2"
)

// FileType is the on-disk format of an uploaded dataset
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

// DataReader reads Excel and CSV files into a table.Table
type DataReader struct {
	name     string
	fileType FileType
}

// DetectFileType picks the format from the file extension
func DetectFileType(name string) (FileType, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FileTypeCSV, nil
	case ".xlsx":
		return FileTypeXLSX, nil
	default:
		return "", errors.UnsupportedFile(filepath.Base(name))
	}
}

// NewDataReader creates a reader for a file named name. The name only decides the
// format; the content comes from ReadFrom or ReadFile.
func NewDataReader(name string) (*DataReader, error) {
	fileType, err := DetectFileType(name)
	if err != nil {
		return nil, err
	}
	return &DataReader{name: name, fileType: fileType}, nil
}

// FileType returns the detected format
func (r *DataReader) FileType() FileType {
	return r.fileType
}

// ReadFile opens path and reads it
func ReadFile(path string) (*table.Table, error) {
	r, err := NewDataReader(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(string(r.fileType)), path))
		}
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	return r.ReadFrom(f)
}

// ReadFrom parses the content according to the detected format
func (r *DataReader) ReadFrom(src io.Reader) (*table.Table, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.name)

	start := time.Now()
	var records [][]string
	var err error
	switch r.fileType {
	case FileTypeCSV:
		records, err = readCSVRecords(src)
	case FileTypeXLSX:
		records, err = readExcelRecords(src)
	default:
		return nil, errors.UnsupportedFile(r.name)
	}
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("%s has no header row", r.name))
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	t := table.New(headers, records[1:])
	log.Printf("[DataReader] %s file processed in %.2fms (%d columns, %d rows, %d ragged)",
		strings.ToUpper(string(r.fileType)), float64(time.Since(start).Nanoseconds())/1e6,
		t.NumCols(), t.NumRows(), t.Ragged())

	return t, nil
}

// readCSVRecords reads every record, letting ragged rows through so the table
// can normalize them
func readCSVRecords(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read CSV file: %w", err))
	}
	// a UTF-8 BOM would otherwise stick to the first header
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records, nil
}

// readExcelRecords reads the first sheet of a workbook
func readExcelRecords(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput("Excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read %s: %w", sheets[0], err))
	}
	return rows, nil
}

// Preview returns the header row and the first n data rows
func Preview(t *table.Table, n int) [][]string {
	return t.Head(n)
}
