package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/export"
)

// Export formats supported for timetable downloads.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportPayload is a rendered timetable ready to be served as a download.
type ExportPayload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the stored timetable as downloadable files.
type ExportService struct {
	timetable timetableStore
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(timetable timetableStore, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{timetable: timetable, csv: csv, pdf: pdf, logger: logger}
}

// ExportTimetable renders the current timetable in the requested format.
// Entries are ordered by weekday then start time so the export reads
// like a printed schedule.
func (s *ExportService) ExportTimetable(ctx context.Context, format string) (*ExportPayload, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+format)
	}

	entries, err := s.timetable.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	sorted := make([]models.TimetableEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := weekdayIndex(sorted[i].Day), weekdayIndex(sorted[j].Day)
		if di != dj {
			return di < dj
		}
		return sorted[i].StartTime < sorted[j].StartTime
	})

	dataset := export.Dataset{
		Headers: []string{"Day", "Start", "End", "Course", "Teacher", "Room", "Kind"},
		Rows:    make([]map[string]string, 0, len(sorted)),
	}
	for _, entry := range sorted {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":     entry.Day,
			"Start":   entry.StartTime,
			"End":     entry.EndTime,
			"Course":  entry.Course,
			"Teacher": entry.Teacher,
			"Room":    entry.Room,
			"Kind":    string(entry.Kind),
		})
	}

	timestamp := time.Now().UTC().Format("20060102_150405")
	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportPayload{
			Filename:    fmt.Sprintf("timetable_%s.csv", timestamp),
			ContentType: "text/csv",
			Data:        payload,
		}, nil
	default:
		payload, err := s.pdf.Render(dataset, "Weekly Timetable")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportPayload{
			Filename:    fmt.Sprintf("timetable_%s.pdf", timestamp),
			ContentType: "application/pdf",
			Data:        payload,
		}, nil
	}
}

func weekdayIndex(day string) int {
	for i, d := range models.WeekDays {
		if d == day {
			return i
		}
	}
	return len(models.WeekDays)
}
