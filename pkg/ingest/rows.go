package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one table record keyed by normalized column name
type Row map[string]string

// columnAliases maps alternative header spellings onto the canonical column names
var columnAliases = map[string]string{
	"name":                    "student_name",
	"relocation_allowed":      "can_be_realocated",
	"can_be_relocated":        "can_be_realocated",
	"lesson_duration_minutes": "lesson_duration",
	"ideal_start":             "ideal_start_time",
	"ideal_end":               "ideal_end_time",
	"alternative_start_1":     "alternative_start_time_1",
	"alternative_end_1":       "alternative_end_time_1",
	"alternative_start_2":     "alternative_start_time_2",
	"alternative_end_2":       "alternative_end_time_2",
	"alternative_start_3":     "alternative_start_time_3",
	"alternative_end_3":       "alternative_end_time_3",
	"forced_teacher":          "assigned_teacher",
	"forced_day":              "assigned_day",
	"forced_start":            "assigned_start_time",
	"forced_duration":         "assigned_duration",
	"accepts_new_students":    "accept_new_student",
	"break1_start":            "start_break_1",
	"break1_end":              "end_break_1",
	"break1_duration_minutes": "length_break_1",
	"break2_start":            "start_break_2",
	"break2_end":              "end_break_2",
	"break2_duration_minutes": "length_break_2",
}

// NormalizeColumn lowercases a header, joins words with underscores and resolves aliases
func NormalizeColumn(header string) string {
	column := strings.Join(strings.Fields(strings.ToLower(header)), "_")
	if canonical, ok := columnAliases[column]; ok {
		return canonical
	}
	return column
}

// RowsFromValues builds rows from a header row followed by data rows.
// Cells are trimmed and rows with only empty cells are skipped.
func RowsFromValues(values [][]string) ([]Row, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no header row found")
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = NormalizeColumn(cell)
	}

	rows := make([]Row, 0, len(values)-1)
	for _, record := range values[1:] {
		row := make(Row, len(header))
		empty := true
		for i, column := range header {
			if column == "" {
				continue
			}
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			if value != "" {
				empty = false
			}
			row[column] = value
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ReadCSV reads a CSV document with a header row
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var values [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		values = append(values, record)
	}

	return RowsFromValues(values)
}
