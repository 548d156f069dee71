package source

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseCSV parses a header-delimited statement file into one map per data
// row, keyed by header name. Blank lines are skipped and ragged rows are kept
// (missing cells map to ""); downstream filters decide what to drop.
func ParseCSV(data []byte) (headers []string, rows []map[string]string, err error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	record, err := reader.Read()
	if err == io.EOF {
		return nil, nil, ErrEmptyFile
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header row: %w", err)
	}

	headers = make([]string, 0, len(record))
	for i, h := range record {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		headers = append(headers, strings.TrimSpace(h))
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read data row: %w", err)
		}

		if isBlank(record) {
			continue
		}

		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
