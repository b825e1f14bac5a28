package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
)

func TestTimetableRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	rows := sqlmock.NewRows([]string{"id", "course", "teacher", "room", "day", "start_time", "end_time", "kind", "duration", "created_at"}).
		AddRow("e1", "Data Structures", "Dr. Smith", "Room 101", "Monday", "09:45", "11:15", "lecture", 90, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course, teacher, room, day, start_time, end_time, kind, duration, created_at FROM timetable_entries ORDER BY created_at ASC")).
		WillReturnRows(rows)

	entries, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Dr. Smith", entries[0].Teacher)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryReplaceAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM timetable_entries").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO timetable_entries").
		WithArgs(sqlmock.AnyArg(), "Data Structures", "Dr. Smith", "Room 101", "Monday", "09:45", "11:15", "lecture", 90, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entries := []models.TimetableEntry{{
		Course:    "Data Structures",
		Teacher:   "Dr. Smith",
		Room:      "Room 101",
		Day:       "Monday",
		StartTime: "09:45",
		EndTime:   "11:15",
		Kind:      models.SlotKindLecture,
		Duration:  90,
	}}
	require.NoError(t, repo.ReplaceAll(context.Background(), entries))
	assert.NotEmpty(t, entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryReplaceAllRollsBackOnInsertError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM timetable_entries").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO timetable_entries").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.ReplaceAll(context.Background(), []models.TimetableEntry{{Course: "X"}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryDeleteAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec("DELETE FROM timetable_entries").WillReturnResult(sqlmock.NewResult(0, 5))

	require.NoError(t, repo.DeleteAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
