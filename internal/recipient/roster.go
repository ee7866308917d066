package recipient

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMissingColumn is returned when the roster lacks a required column.
var ErrMissingColumn = errors.New("roster must have 'name' and 'number' columns")

const (
	columnName   = "name"
	columnNumber = "number"
)

// LoadCSV reads the roster at path.
func LoadCSV(path string) ([]Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	tasks, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	return tasks, nil
}

// ReadCSV parses a roster with a header row. Header names are trimmed and
// matched case-insensitively; extra columns are ignored. Rows whose name is
// blank are skipped. A missing column is reported before any row is read.
func ReadCSV(r io.Reader) ([]Task, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingColumn
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	nameIdx, numberIdx := -1, -1
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		switch strings.ToLower(strings.TrimSpace(col)) {
		case columnName:
			nameIdx = i
		case columnNumber:
			numberIdx = i
		}
	}
	if nameIdx < 0 || numberIdx < 0 {
		return nil, ErrMissingColumn
	}

	var tasks []Task
	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		name := field(record, nameIdx)
		if name == "" {
			continue
		}
		tasks = append(tasks, Task{
			Name:      name,
			RawNumber: field(record, numberIdx),
			Row:       row,
		})
	}
	return tasks, nil
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
