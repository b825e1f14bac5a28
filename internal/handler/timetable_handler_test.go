package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/dto"
	internalmiddleware "github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
)

type timetableServiceMock struct {
	entries      []models.TimetableEntry
	createdEntry *models.TimetableEntry
	createErr    error
	cleared      bool
}

func (m *timetableServiceMock) List(ctx context.Context) ([]models.TimetableEntry, error) {
	return m.entries, nil
}

func (m *timetableServiceMock) Get(ctx context.Context, id string) (*models.TimetableEntry, error) {
	return &models.TimetableEntry{ID: id}, nil
}

func (m *timetableServiceMock) CreateEntry(ctx context.Context, req dto.CreateTimetableEntryRequest) (*models.TimetableEntry, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.createdEntry = &models.TimetableEntry{ID: "e1", Course: req.Course, Teacher: req.Teacher}
	return m.createdEntry, nil
}

func (m *timetableServiceMock) Delete(ctx context.Context, id string) error { return nil }

func (m *timetableServiceMock) Clear(ctx context.Context) error {
	m.cleared = true
	return nil
}

type generatorServiceMock struct {
	result *dto.GenerateTimetableResult
	slots  []dto.SlotAvailability
}

func (m *generatorServiceMock) Generate(ctx context.Context) (*dto.GenerateTimetableResult, error) {
	return m.result, nil
}

func (m *generatorServiceMock) AvailableSlots(ctx context.Context) ([]dto.SlotAvailability, error) {
	return m.slots, nil
}

type exportServiceMock struct{}

func (m *exportServiceMock) ExportTimetable(ctx context.Context, format string) (*service.ExportPayload, error) {
	return &service.ExportPayload{Filename: "timetable.csv", ContentType: "text/csv", Data: []byte("Day,Start\n")}, nil
}

func TestTimetableGenerateSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{}, &generatorServiceMock{
		result: &dto.GenerateTimetableResult{Success: true, Assigned: 2, Total: 2, Message: "ok"},
	}, &exportServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/timetable/generate", nil)

	handler.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["success"])
}

func TestTimetableGeneratePreconditionFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{}, &generatorServiceMock{
		result: &dto.GenerateTimetableResult{Success: false, Reason: dto.ReasonMissingCourses, Message: "no courses"},
	}, &exportServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/timetable/generate", nil)

	handler.Generate(c)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]interface{})
	assert.Equal(t, dto.ReasonMissingCourses, data["reason"])
}

func TestTimetableCreateEntryValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{}, &generatorServiceMock{}, &exportServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/timetable", bytes.NewReader([]byte(`{"course":`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableCreateEntry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &timetableServiceMock{}
	handler := NewTimetableHandler(svc, &generatorServiceMock{}, &exportServiceMock{})

	payload := []byte(`{"course":"DS","teacher":"Dr. Smith","room":"R1","day":"Monday","startTime":"09:00","endTime":"10:30"}`)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/timetable", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.createdEntry)
	assert.Equal(t, "DS", svc.createdEntry.Course)
}

func TestTimetableExportHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{}, &generatorServiceMock{}, &exportServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/timetable/export?format=csv", nil)

	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "timetable.csv")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
}

func TestTimetableClearRequiresAdminRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &timetableServiceMock{}
	handler := NewTimetableHandler(svc, &generatorServiceMock{}, &exportServiceMock{})

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(internalmiddleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleViewer})
		c.Next()
	})
	router.DELETE("/timetable", internalmiddleware.RequireRoles(models.RoleAdmin), handler.Clear)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/timetable", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, svc.cleared)
}

func TestTimetableClearUnauthorizedWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{}, &generatorServiceMock{}, &exportServiceMock{})

	router := gin.New()
	router.DELETE("/timetable", internalmiddleware.RBAC(string(models.RoleAdmin)), handler.Clear)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/timetable", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
