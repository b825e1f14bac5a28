package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/models"
)

func TestExportTimetableCSV(t *testing.T) {
	store := &mockTimetableStore{stored: []models.TimetableEntry{
		{Course: "OS", Teacher: "T2", Room: "R2", Day: "Tuesday", StartTime: "09:00", EndTime: "10:30", Kind: models.SlotKindLecture},
		{Course: "DS", Teacher: "T1", Room: "R1", Day: "Monday", StartTime: "10:45", EndTime: "12:15", Kind: models.SlotKindLab},
		{Course: "DB", Teacher: "T1", Room: "R1", Day: "Monday", StartTime: "09:00", EndTime: "10:30", Kind: models.SlotKindLecture},
	}}
	svc := NewExportService(store, nil, nil, zap.NewNop())

	payload, err := svc.ExportTimetable(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", payload.ContentType)
	assert.True(t, strings.HasSuffix(payload.Filename, ".csv"))

	lines := strings.Split(strings.TrimSpace(string(payload.Data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Day,Start,End,Course,Teacher,Room,Kind", strings.TrimSpace(lines[0]))
	// Rows come out in weekday then start time order.
	assert.Contains(t, lines[1], "DB")
	assert.Contains(t, lines[2], "DS")
	assert.Contains(t, lines[3], "OS")
}

func TestExportTimetablePDF(t *testing.T) {
	store := &mockTimetableStore{stored: []models.TimetableEntry{
		{Course: "DS", Teacher: "T1", Room: "R1", Day: "Monday", StartTime: "09:00", EndTime: "10:30", Kind: models.SlotKindLecture},
	}}
	svc := NewExportService(store, nil, nil, zap.NewNop())

	payload, err := svc.ExportTimetable(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", payload.ContentType)
	assert.True(t, strings.HasPrefix(string(payload.Data), "%PDF"))
}

func TestExportTimetableUnsupportedFormat(t *testing.T) {
	svc := NewExportService(&mockTimetableStore{}, nil, nil, zap.NewNop())

	_, err := svc.ExportTimetable(context.Background(), "xlsx")
	require.Error(t, err)
}
