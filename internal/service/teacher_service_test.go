package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
)

type mockTeacherRepo struct {
	items      map[string]*models.Teacher
	emailIndex map[string]string
	listResult []models.Teacher
	listTotal  int
	deleted    []string
}

func (m *mockTeacherRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	return m.listResult, m.listTotal, nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if teacher, ok := m.items[id]; ok {
		cp := *teacher
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	if owner, ok := m.emailIndex[email]; ok {
		if excludeID == "" || owner != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	if m.items == nil {
		m.items = make(map[string]*models.Teacher)
	}
	if teacher.ID == "" {
		teacher.ID = "generated"
	}
	now := time.Now()
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	cp := *teacher
	m.items[teacher.ID] = &cp
	return nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	if m.items == nil {
		m.items = make(map[string]*models.Teacher)
	}
	cp := *teacher
	m.items[teacher.ID] = &cp
	return nil
}

func (m *mockTeacherRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.items, id)
	return nil
}

func TestTeacherServiceCreate(t *testing.T) {
	repo := &mockTeacherRepo{}
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	teacher, err := svc.Create(context.Background(), dto.CreateTeacherRequest{
		Name:         "Dr. Smith",
		Department:   "Computer Science",
		Subjects:     []string{"Algorithms", "Algorithms", " "},
		Availability: []string{"Monday", "Monday", "Tuesday"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Smith", teacher.Name)
	assert.Equal(t, []string{"Algorithms"}, []string(teacher.Subjects))
	assert.Equal(t, []string{"Monday", "Tuesday"}, []string(teacher.Availability))
	assert.Len(t, repo.items, 1)
}

func TestTeacherServiceCreateRejectsBadWeekday(t *testing.T) {
	repo := &mockTeacherRepo{}
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreateTeacherRequest{
		Name:         "Dr. Smith",
		Department:   "Computer Science",
		Availability: []string{"Funday"},
	})
	require.Error(t, err)
}

func TestTeacherServiceCreateEmptyAvailabilityAllowed(t *testing.T) {
	repo := &mockTeacherRepo{}
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	teacher, err := svc.Create(context.Background(), dto.CreateTeacherRequest{
		Name:       "Dr. Smith",
		Department: "Computer Science",
	})
	require.NoError(t, err)
	assert.Empty(t, teacher.Availability)
}

func TestTeacherServiceUpdateAvailability(t *testing.T) {
	repo := &mockTeacherRepo{
		items: map[string]*models.Teacher{
			"t1": {ID: "t1", Name: "Dr. Smith", Department: "CS"},
		},
	}
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	days := []string{"Wednesday"}
	updated, err := svc.Update(context.Background(), "t1", dto.UpdateTeacherRequest{Availability: &days})
	require.NoError(t, err)
	assert.Equal(t, []string{"Wednesday"}, []string(updated.Availability))
}

func TestTeacherServiceDelete(t *testing.T) {
	repo := &mockTeacherRepo{
		items: map[string]*models.Teacher{
			"t1": {ID: "t1", Name: "Dr. Smith"},
		},
	}
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "t1"))
	assert.Equal(t, []string{"t1"}, repo.deleted)
}
