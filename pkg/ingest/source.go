package ingest

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
)

// Source provides the raw teacher and student tables
type Source interface {
	TeacherRows(ctx context.Context) ([]Row, error)
	StudentRows(ctx context.Context) ([]Row, error)
}

// Inputs are the parsed tables ready for the scheduler
type Inputs struct {
	Teachers []model.TeacherRow
	Students []model.Student
}

// Load reads and parses both tables from the source
func Load(ctx context.Context, source Source, logger *zap.Logger) (*Inputs, error) {
	teacherRows, err := source.TeacherRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read teachers: %w", err)
	}
	teachers, err := ParseTeachers(teacherRows)
	if err != nil {
		return nil, fmt.Errorf("failed to parse teachers: %w", err)
	}

	studentRows, err := source.StudentRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read students: %w", err)
	}
	students, err := ParseStudents(studentRows, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to parse students: %w", err)
	}

	return &Inputs{Teachers: teachers, Students: students}, nil
}

// CSVSource reads the tables from two CSV files
type CSVSource struct {
	TeachersFile string
	StudentsFile string
}

func (s *CSVSource) TeacherRows(ctx context.Context) ([]Row, error) {
	return readCSVFile(s.TeachersFile)
}

func (s *CSVSource) StudentRows(ctx context.Context) ([]Row, error) {
	return readCSVFile(s.StudentsFile)
}

func readCSVFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

// ValueReader reads a range of cells from a spreadsheet
type ValueReader interface {
	GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error)
}

// SheetsSource reads the tables from two tabs of a spreadsheet
type SheetsSource struct {
	Reader        ValueReader
	SpreadsheetID string
	TeachersTab   string
	StudentsTab   string
}

func (s *SheetsSource) TeacherRows(ctx context.Context) ([]Row, error) {
	return s.readTab(s.TeachersTab)
}

func (s *SheetsSource) StudentRows(ctx context.Context) ([]Row, error) {
	return s.readTab(s.StudentsTab)
}

func (s *SheetsSource) readTab(tab string) ([]Row, error) {
	values, err := s.Reader.GetValues(s.SpreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s data: %w", tab, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet tab %s is empty", tab)
	}

	cells := make([][]string, len(values))
	for i, row := range values {
		cells[i] = make([]string, len(row))
		for j, cell := range row {
			if str, ok := cell.(string); ok {
				cells[i][j] = str
				continue
			}
			if cell != nil {
				cells[i][j] = fmt.Sprint(cell)
			}
		}
	}

	return RowsFromValues(cells)
}
