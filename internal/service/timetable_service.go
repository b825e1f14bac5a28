package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type timetableRepository interface {
	ListAll(ctx context.Context) ([]models.TimetableEntry, error)
	FindByID(ctx context.Context, id string) (*models.TimetableEntry, error)
	Create(ctx context.Context, entry *models.TimetableEntry) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// TimetableService manages the persisted timetable outside of
// generation runs: manual placements, reads, and clearing.
type TimetableService struct {
	repo      timetableRepository
	teachers  teacherSource
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(repo timetableRepository, teachers teacherSource, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, teachers: teachers, cache: cache, validator: validate, logger: logger}
}

// List returns every stored timetable entry.
func (s *TimetableService) List(ctx context.Context) ([]models.TimetableEntry, error) {
	if s.cache.Enabled() {
		var cached []models.TimetableEntry
		if hit, _ := s.cache.Get(ctx, CacheKeyTimetable, &cached); hit {
			return cached, nil
		}
	}

	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable entries")
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, CacheKeyTimetable, entries, 0)
	}
	return entries, nil
}

// Get returns a timetable entry by id.
func (s *TimetableService) Get(ctx context.Context, id string) (*models.TimetableEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entry")
	}
	return entry, nil
}

// CreateEntry manually places a course at a concrete period. The
// placement is rejected when the same teacher or the same room already
// holds an entry at that day and start time, or when the named teacher
// is known and not available on that day. An unknown teacher name
// skips the availability check so ad-hoc instructors can be booked.
func (s *TimetableService) CreateEntry(ctx context.Context, req dto.CreateTimetableEntryRequest) (*models.TimetableEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable entry payload")
	}
	if !models.IsWeekDay(req.Day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown weekday name: "+req.Day)
	}

	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable entries")
	}
	for _, existing := range entries {
		if existing.Day == req.Day && existing.StartTime == req.StartTime &&
			(existing.Teacher == req.Teacher || existing.Room == req.Room) {
			return nil, appErrors.Clone(appErrors.ErrScheduleConflict,
				fmt.Sprintf("%s or %s is already scheduled at %s on %s", existing.Teacher, existing.Room, req.StartTime, req.Day))
		}
	}

	teachers, err := s.teachers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	for _, teacher := range teachers {
		if teacher.Name != req.Teacher && teacher.ID != req.Teacher {
			continue
		}
		if !teacher.AvailableOn(req.Day) {
			return nil, appErrors.Clone(appErrors.ErrTeacherUnavailable,
				fmt.Sprintf("%s is not available on %s", teacher.Name, req.Day))
		}
		break
	}

	kind := models.SlotKind(req.Kind)
	if req.Kind == "" {
		kind = models.SlotKindLecture
	}
	entry := &models.TimetableEntry{
		Course:    strings.TrimSpace(req.Course),
		Teacher:   strings.TrimSpace(req.Teacher),
		Room:      strings.TrimSpace(req.Room),
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Kind:      kind,
		Duration:  req.Duration,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable entry")
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, CacheKeyPatternAll)
	}
	return entry, nil
}

// Delete removes a single timetable entry.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable entry")
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, CacheKeyPatternAll)
	}
	return nil
}

// Clear wipes the stored timetable.
func (s *TimetableService) Clear(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear timetable")
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, CacheKeyPatternAll)
	}
	s.logger.Info("timetable cleared")
	return nil
}
