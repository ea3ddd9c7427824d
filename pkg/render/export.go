package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
	"github.com/jakechorley/lesson-scheduler/pkg/core/timegrid"
)

// Dataset is tabular export content
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Placement export columns
const (
	ColStudent           = "student"
	ColInstrument        = "instrument"
	ColAssigned          = "assigned"
	ColTeacher           = "teacher"
	ColDay               = "day"
	ColStart             = "start"
	ColEnd               = "end"
	ColLocation          = "location"
	ColIdealWindow       = "ideal_window"
	ColPreferredTeacher  = "preferred_teacher"
	ColPreferredLocation = "preferred_location"
	ColForced            = "forced"
	ColSibling           = "sibling"
	ColLessonDates       = "lesson_dates"
)

var placementHeaders = []string{
	ColStudent, ColInstrument, ColAssigned, ColTeacher, ColDay, ColStart, ColEnd, ColLocation,
	ColIdealWindow, ColPreferredTeacher, ColPreferredLocation, ColForced, ColSibling,
}

// PlacementDataset builds one row per student record, in processing order.
// When dates is non-nil a lesson_dates column lists the term dates of each assigned lesson.
func PlacementDataset(records []model.StudentRecord, dates map[timegrid.Day][]time.Time) Dataset {
	headers := placementHeaders
	if dates != nil {
		headers = append(append([]string{}, placementHeaders...), ColLessonDates)
	}

	rows := make([]map[string]string, 0, len(records))
	for _, record := range records {
		row := map[string]string{
			ColStudent:    record.StudentName,
			ColInstrument: record.Instrument,
			ColAssigned:   strconv.FormatBool(record.Assigned),
			ColForced:     strconv.FormatBool(record.Forced),
			ColSibling:    record.SiblingName,
		}
		if record.Assigned {
			row[ColTeacher] = record.Teacher
			row[ColDay] = record.Day.String()
			row[ColStart] = record.Start.String()
			row[ColEnd] = record.End.String()
			row[ColLocation] = record.Location
			row[ColIdealWindow] = strconv.FormatBool(record.IdealWindow)
			row[ColPreferredTeacher] = strconv.FormatBool(record.PreferredTeacher)
			row[ColPreferredLocation] = strconv.FormatBool(record.PreferredLocation)
			if dates != nil {
				row[ColLessonDates] = joinDates(dates[record.Day])
			}
		}
		rows = append(rows, row)
	}

	return Dataset{Headers: headers, Rows: rows}
}

func joinDates(dates []time.Time) string {
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = d.Format("2006-01-02")
	}
	return strings.Join(parts, ";")
}

// RenderCSV produces CSV encoded bytes for the dataset
func RenderCSV(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("failed to write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPDF produces a landscape A4 table of the dataset with an optional title.
// Lesson dates are left out of the PDF; the column is too wide for a page.
func RenderPDF(data Dataset, title string) ([]byte, error) {
	headers := make([]string, 0, len(data.Headers))
	for _, header := range data.Headers {
		if header != ColLessonDates {
			headers = append(headers, header)
		}
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	// Names from the registration forms may carry accents
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	colWidth := 277.0 / float64(len(headers))

	pdf.SetFont("Arial", "B", 7)
	for _, header := range headers {
		pdf.CellFormat(colWidth, 7, strings.ReplaceAll(header, "_", " "), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	for _, row := range data.Rows {
		for _, header := range headers {
			pdf.CellFormat(colWidth, 6, tr(row[header]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
