package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
)

func TestTeacherRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "phone", "department", "subjects", "availability", "created_at", "updated_at"}).
		AddRow("t1", "Dr. Smith", nil, nil, "Computer Science", pq.StringArray{"Algorithms"}, pq.StringArray{"Monday", "Tuesday"}, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, phone, department, subjects, availability, created_at, updated_at FROM teachers ORDER BY created_at ASC")).
		WillReturnRows(rows)

	teachers, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.True(t, teachers[0].AvailableOn("Monday"))
	assert.False(t, teachers[0].AvailableOn("Friday"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec("INSERT INTO teachers").
		WithArgs(sqlmock.AnyArg(), "Dr. Smith", sqlmock.AnyArg(), sqlmock.AnyArg(), "Computer Science", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	teacher := &models.Teacher{
		Name:         "Dr. Smith",
		Department:   "Computer Science",
		Subjects:     pq.StringArray{"Algorithms"},
		Availability: pq.StringArray{"Monday"},
	}
	require.NoError(t, repo.Create(context.Background(), teacher))
	assert.NotEmpty(t, teacher.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryExistsByEmailSkipsBlank(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	exists, err := repo.ExistsByEmail(context.Background(), "  ", "")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
