package core

// parser.go reads a catalog file into rows keyed by canonical column.
//
// The first record is the header. Records whose field count differs from
// the header's are dropped and reported back to the caller. Blank records
// are skipped. Every row keeps the file line it started on.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrEmptyFile is returned when a file has no header or no data rows.
var ErrEmptyFile = errors.New("empty file: no data rows")

// ParsedFile is the parser output.
type ParsedFile struct {
	Columns []string
	Rows    []Row
	Dropped []DroppedRow
}

// HasColumn reports whether the header carried a canonical column.
func (f *ParsedFile) HasColumn(column string) bool {
	for _, c := range f.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// ParseCatalog parses comma separated text with standard double-quote
// escaping. The reader must already yield clean UTF-8; see NewImportReader.
func ParseCatalog(r io.Reader) (*ParsedFile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return parseRecords(func() ([]string, int, error) {
		record, err := reader.Read()
		if err == io.EOF {
			return nil, 0, io.EOF
		}
		if err != nil {
			return nil, 0, fmt.Errorf("invalid csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		return record, line, nil
	}, false)
}

// ParseWorkbook parses the first sheet of an XLSX workbook. Spreadsheet
// rows omit trailing empty cells, so short rows are padded to the header
// width instead of being dropped.
func ParseWorkbook(r io.Reader) (*ParsedFile, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: %w", err)
	}

	next := 0
	return parseRecords(func() ([]string, int, error) {
		if next >= len(rows) {
			return nil, 0, io.EOF
		}
		next++
		return rows[next-1], next, nil
	}, true)
}

// parseRecords builds a ParsedFile from a record source. next returns each
// record with its 1-based line, and io.EOF at the end.
func parseRecords(next func() ([]string, int, error), padShort bool) (*ParsedFile, error) {
	header, err := readHeader(next)
	if err != nil {
		return nil, err
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = CanonicalColumn(h)
	}

	parsed := &ParsedFile{Columns: columns}

	for {
		record, line, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if padShort && len(record) < len(columns) {
			record = append(record, make([]string, len(columns)-len(record))...)
		}

		// Blank lines and separator-only lines of the header's width carry
		// nothing. A separator-only line of another width is still dropped.
		if isEmptyRecord(record) && (len(record) <= 1 || len(record) == len(columns)) {
			continue
		}

		if len(record) != len(columns) {
			parsed.Dropped = append(parsed.Dropped, DroppedRow{
				Line:     line,
				Expected: len(columns),
				Actual:   len(record),
			})
			continue
		}

		values := make(map[string]string, len(columns))
		for i, col := range columns {
			if col == "" {
				continue
			}
			// A repeated header keeps its first non-empty value.
			if existing, seen := values[col]; seen && existing != "" {
				continue
			}
			values[col] = CleanCell(record[i])
		}
		parsed.Rows = append(parsed.Rows, Row{Line: line, Values: values})
	}

	if len(parsed.Rows) == 0 && len(parsed.Dropped) == 0 {
		return nil, ErrEmptyFile
	}

	return parsed, nil
}

// readHeader returns the first non-empty record.
func readHeader(next func() ([]string, int, error)) ([]string, error) {
	for {
		record, _, err := next()
		if err == io.EOF {
			return nil, ErrEmptyFile
		}
		if err != nil {
			return nil, err
		}
		if !isEmptyRecord(record) {
			return record, nil
		}
	}
}

// isEmptyRecord reports whether every field is blank.
func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
