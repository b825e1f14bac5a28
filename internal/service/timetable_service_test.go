package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type mockTimetableRepo struct {
	entries []models.TimetableEntry
	cleared bool
	deleted []string
}

func (m *mockTimetableRepo) ListAll(ctx context.Context) ([]models.TimetableEntry, error) {
	return m.entries, nil
}

func (m *mockTimetableRepo) FindByID(ctx context.Context, id string) (*models.TimetableEntry, error) {
	for i := range m.entries {
		if m.entries[i].ID == id {
			cp := m.entries[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockTimetableRepo) Create(ctx context.Context, entry *models.TimetableEntry) error {
	if entry.ID == "" {
		entry.ID = "generated"
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockTimetableRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockTimetableRepo) DeleteAll(ctx context.Context) error {
	m.cleared = true
	m.entries = nil
	return nil
}

func newTimetableService(repo *mockTimetableRepo, teachers []models.Teacher) *TimetableService {
	return NewTimetableService(repo, &stubTeacherSource{teachers}, nil, validator.New(), zap.NewNop())
}

func validEntryRequest() dto.CreateTimetableEntryRequest {
	return dto.CreateTimetableEntryRequest{
		Course:    "Data Structures",
		Teacher:   "Dr. Smith",
		Room:      "Room 101",
		Day:       "Monday",
		StartTime: "09:45",
		EndTime:   "11:15",
		Kind:      "lecture",
		Duration:  90,
	}
}

func TestTimetableCreateEntry(t *testing.T) {
	repo := &mockTimetableRepo{}
	svc := newTimetableService(repo, []models.Teacher{mkTeacher("Dr. Smith", "Monday")})

	entry, err := svc.CreateEntry(context.Background(), validEntryRequest())
	require.NoError(t, err)
	assert.Equal(t, "Dr. Smith", entry.Teacher)
	assert.Len(t, repo.entries, 1)
}

func TestTimetableCreateEntryTeacherConflict(t *testing.T) {
	repo := &mockTimetableRepo{entries: []models.TimetableEntry{{
		ID: "e1", Course: "Other", Teacher: "Dr. Smith", Room: "Room 202", Day: "Monday", StartTime: "09:45",
	}}}
	svc := newTimetableService(repo, []models.Teacher{mkTeacher("Dr. Smith", "Monday")})

	_, err := svc.CreateEntry(context.Background(), validEntryRequest())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErr.Code)
}

func TestTimetableCreateEntryRoomConflict(t *testing.T) {
	repo := &mockTimetableRepo{entries: []models.TimetableEntry{{
		ID: "e1", Course: "Other", Teacher: "Dr. Jones", Room: "Room 101", Day: "Monday", StartTime: "09:45",
	}}}
	svc := newTimetableService(repo, []models.Teacher{mkTeacher("Dr. Smith", "Monday")})

	_, err := svc.CreateEntry(context.Background(), validEntryRequest())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErr.Code)
}

func TestTimetableCreateEntrySameTimeDifferentDayAllowed(t *testing.T) {
	repo := &mockTimetableRepo{entries: []models.TimetableEntry{{
		ID: "e1", Course: "Other", Teacher: "Dr. Smith", Room: "Room 101", Day: "Tuesday", StartTime: "09:45",
	}}}
	svc := newTimetableService(repo, []models.Teacher{mkTeacher("Dr. Smith", "Monday", "Tuesday")})

	_, err := svc.CreateEntry(context.Background(), validEntryRequest())
	require.NoError(t, err)
}

func TestTimetableCreateEntryTeacherUnavailable(t *testing.T) {
	repo := &mockTimetableRepo{}
	svc := newTimetableService(repo, []models.Teacher{mkTeacher("Dr. Smith", "Tuesday")})

	_, err := svc.CreateEntry(context.Background(), validEntryRequest())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrTeacherUnavailable.Code, appErr.Code)
}

func TestTimetableCreateEntryUnknownTeacherSkipsAvailabilityCheck(t *testing.T) {
	repo := &mockTimetableRepo{}
	svc := newTimetableService(repo, []models.Teacher{mkTeacher("Dr. Jones", "Tuesday")})

	req := validEntryRequest()
	req.Teacher = "Visiting Lecturer"
	_, err := svc.CreateEntry(context.Background(), req)
	require.NoError(t, err)
}

func TestTimetableCreateEntryRejectsUnknownDay(t *testing.T) {
	repo := &mockTimetableRepo{}
	svc := newTimetableService(repo, nil)

	req := validEntryRequest()
	req.Day = "Funday"
	_, err := svc.CreateEntry(context.Background(), req)
	require.Error(t, err)
}

func TestTimetableClear(t *testing.T) {
	repo := &mockTimetableRepo{entries: []models.TimetableEntry{{ID: "e1"}}}
	svc := newTimetableService(repo, nil)

	require.NoError(t, svc.Clear(context.Background()))
	assert.True(t, repo.cleared)
	assert.Empty(t, repo.entries)
}

func TestTimetableDeleteMissingEntry(t *testing.T) {
	repo := &mockTimetableRepo{}
	svc := newTimetableService(repo, nil)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
