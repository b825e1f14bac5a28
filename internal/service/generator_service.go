package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type courseSource interface {
	ListAll(ctx context.Context) ([]models.Course, error)
}

type teacherSource interface {
	ListAll(ctx context.Context) ([]models.Teacher, error)
}

type roomSource interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type timeSlotSource interface {
	ListAll(ctx context.Context) ([]models.TimeSlot, error)
}

type timetableStore interface {
	ListAll(ctx context.Context) ([]models.TimetableEntry, error)
	ReplaceAll(ctx context.Context, entries []models.TimetableEntry) error
}

// slotKey identifies one concrete weekly period. Two templates that
// share a day and start time collapse onto the same key.
type slotKey struct {
	Day       string
	StartTime string
}

// slotState carries the period attributes and occupancy for one key.
type slotState struct {
	endTime  string
	kind     models.SlotKind
	duration int
	occupied bool
}

// availabilityTracker holds per-run occupancy for periods, teachers,
// and rooms. Keys keep their first-seen expansion order so fallback
// scans are deterministic; re-adding an existing key refreshes its
// attributes in place.
type availabilityTracker struct {
	order       []slotKey
	slots       map[slotKey]*slotState
	teacherBusy map[string]map[slotKey]struct{}
	roomBusy    map[string]map[slotKey]struct{}
}

func newAvailabilityTracker() *availabilityTracker {
	return &availabilityTracker{
		slots:       make(map[slotKey]*slotState),
		teacherBusy: make(map[string]map[slotKey]struct{}),
		roomBusy:    make(map[string]map[slotKey]struct{}),
	}
}

func (t *availabilityTracker) addSlot(key slotKey, endTime string, kind models.SlotKind, duration int) {
	if existing, ok := t.slots[key]; ok {
		existing.endTime = endTime
		existing.kind = kind
		existing.duration = duration
		return
	}
	t.order = append(t.order, key)
	t.slots[key] = &slotState{endTime: endTime, kind: kind, duration: duration}
}

func (t *availabilityTracker) slotFree(key slotKey) bool {
	slot, ok := t.slots[key]
	return ok && !slot.occupied
}

func (t *availabilityTracker) teacherFree(name string, key slotKey) bool {
	_, busy := t.teacherBusy[name][key]
	return !busy
}

func (t *availabilityTracker) roomFree(name string, key slotKey) bool {
	_, busy := t.roomBusy[name][key]
	return !busy
}

func (t *availabilityTracker) reserve(key slotKey, teacher, room string) {
	if slot, ok := t.slots[key]; ok {
		slot.occupied = true
	}
	if t.teacherBusy[teacher] == nil {
		t.teacherBusy[teacher] = make(map[slotKey]struct{})
	}
	t.teacherBusy[teacher][key] = struct{}{}
	if t.roomBusy[room] == nil {
		t.roomBusy[room] = make(map[slotKey]struct{})
	}
	t.roomBusy[room][key] = struct{}{}
}

// GeneratorService runs the greedy timetable builder. A mutex
// serializes runs so two concurrent generations cannot interleave
// their store swaps.
type GeneratorService struct {
	courses   courseSource
	teachers  teacherSource
	rooms     roomSource
	slots     timeSlotSource
	timetable timetableStore
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger

	mu sync.Mutex
}

// NewGeneratorService constructs a GeneratorService.
func NewGeneratorService(courses courseSource, teachers teacherSource, rooms roomSource, slots timeSlotSource, timetable timetableStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *GeneratorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeneratorService{
		courses:   courses,
		teachers:  teachers,
		rooms:     rooms,
		slots:     slots,
		timetable: timetable,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
	}
}

// Generate builds a fresh timetable from the current catalogs and
// replaces the stored one. Each course gets at most one weekly period,
// each period holds at most one course, and no teacher or room is
// double booked. Courses that cannot be placed are simply left out;
// a partial timetable is still a successful run.
//
// Precondition failures abort before the stored timetable is touched.
func (s *GeneratorService) Generate(ctx context.Context) (*dto.GenerateTimetableResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	courses, err := s.courses.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	teachers, err := s.teachers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	templates, err := s.slots.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slots")
	}

	if reason, message := checkPreconditions(courses, teachers, rooms, templates); reason != "" {
		if s.metrics != nil {
			s.metrics.ObserveGeneration("precondition_failed", 0, time.Since(start))
		}
		s.logger.Warn("timetable generation aborted", zap.String("reason", reason))
		return &dto.GenerateTimetableResult{
			Success: false,
			Reason:  reason,
			Message: message,
			Total:   len(courses),
			Entries: []models.TimetableEntry{},
		}, nil
	}

	schedulable := make([]models.TimeSlot, 0, len(templates))
	for _, tmpl := range templates {
		if tmpl.Kind.Schedulable() {
			schedulable = append(schedulable, tmpl)
		}
	}

	tracker := newAvailabilityTracker()
	for _, tmpl := range schedulable {
		for _, day := range tmpl.Days {
			tracker.addSlot(slotKey{Day: day, StartTime: tmpl.StartTime}, tmpl.EndTime, tmpl.Kind, tmpl.Duration)
		}
	}

	entries := make([]models.TimetableEntry, 0, len(courses))
	for _, course := range courses {
		entry, ok := s.placeCourse(course, teachers, rooms, schedulable, tracker)
		if !ok {
			s.logger.Debug("course left unassigned", zap.String("course", course.Name))
			continue
		}
		entries = append(entries, entry)
	}

	if err := s.timetable.ReplaceAll(ctx, entries); err != nil {
		if s.metrics != nil {
			s.metrics.ObserveGeneration("error", 0, time.Since(start))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store generated timetable")
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, CacheKeyPatternAll)
	}
	if s.metrics != nil {
		s.metrics.ObserveGeneration("success", len(entries), time.Since(start))
	}
	s.logger.Info("timetable generated",
		zap.Int("assigned", len(entries)),
		zap.Int("courses", len(courses)),
		zap.Duration("took", time.Since(start)))

	return &dto.GenerateTimetableResult{
		Success:  true,
		Message:  fmt.Sprintf("Timetable generated successfully! Assigned %d of %d courses with no time conflicts.", len(entries), len(courses)),
		Assigned: len(entries),
		Total:    len(courses),
		Entries:  entries,
	}, nil
}

// placeCourse finds a period for one course. The preferred scan walks
// templates in catalog order and each template's days in listed order.
// If nothing fits there, a fallback scan revisits every known key in
// expansion order, still honoring teacher day availability and
// existing bookings. No earlier assignment is ever revisited.
func (s *GeneratorService) placeCourse(course models.Course, teachers []models.Teacher, rooms []models.Room, schedulable []models.TimeSlot, tracker *availabilityTracker) (models.TimetableEntry, bool) {
	for _, tmpl := range schedulable {
		for _, day := range tmpl.Days {
			key := slotKey{Day: day, StartTime: tmpl.StartTime}
			if !tracker.slotFree(key) {
				continue
			}
			teacher, ok := firstFreeTeacher(teachers, day, key, tracker)
			if !ok {
				continue
			}
			room, ok := firstFreeRoom(rooms, key, tracker)
			if !ok {
				continue
			}
			tracker.reserve(key, teacher.Name, room.Name)
			return models.TimetableEntry{
				Course:    course.Name,
				Teacher:   teacher.Name,
				Room:      room.Name,
				Day:       day,
				StartTime: tmpl.StartTime,
				EndTime:   tmpl.EndTime,
				Kind:      tmpl.Kind,
				Duration:  tmpl.Duration,
			}, true
		}
	}

	for _, key := range tracker.order {
		slot := tracker.slots[key]
		if slot.occupied {
			continue
		}
		teacher, ok := firstFreeTeacher(teachers, key.Day, key, tracker)
		if !ok {
			continue
		}
		room, ok := firstFreeRoom(rooms, key, tracker)
		if !ok {
			continue
		}
		tracker.reserve(key, teacher.Name, room.Name)
		return models.TimetableEntry{
			Course:    course.Name,
			Teacher:   teacher.Name,
			Room:      room.Name,
			Day:       key.Day,
			StartTime: key.StartTime,
			EndTime:   slot.endTime,
			Kind:      slot.kind,
			Duration:  slot.duration,
		}, true
	}

	return models.TimetableEntry{}, false
}

func firstFreeTeacher(teachers []models.Teacher, day string, key slotKey, tracker *availabilityTracker) (models.Teacher, bool) {
	for _, teacher := range teachers {
		if !teacher.AvailableOn(day) {
			continue
		}
		if !tracker.teacherFree(teacher.Name, key) {
			continue
		}
		return teacher, true
	}
	return models.Teacher{}, false
}

func firstFreeRoom(rooms []models.Room, key slotKey, tracker *availabilityTracker) (models.Room, bool) {
	for _, room := range rooms {
		if !tracker.roomFree(room.Name, key) {
			continue
		}
		return room, true
	}
	return models.Room{}, false
}

// checkPreconditions validates the catalogs a run needs. The empty
// reason string means all preconditions hold.
func checkPreconditions(courses []models.Course, teachers []models.Teacher, rooms []models.Room, templates []models.TimeSlot) (reason, message string) {
	if len(courses) == 0 {
		return dto.ReasonMissingCourses, "Need at least one course, teacher, and room to generate timetable"
	}
	if len(teachers) == 0 {
		return dto.ReasonMissingTeachers, "Need at least one course, teacher, and room to generate timetable"
	}
	if len(rooms) == 0 {
		return dto.ReasonMissingRooms, "Need at least one course, teacher, and room to generate timetable"
	}
	if len(templates) == 0 {
		return dto.ReasonMissingTimeSlots, "Please add time slots before generating the timetable"
	}
	for _, tmpl := range templates {
		if tmpl.Kind.Schedulable() {
			return "", ""
		}
	}
	return dto.ReasonNoSchedulableSlots, "No lecture or lab time slots found. Please add some before generating."
}

// AvailableSlots reports every free schedulable period given the
// persisted timetable, with the teachers available that day and the
// rooms not yet booked at that period.
func (s *GeneratorService) AvailableSlots(ctx context.Context) ([]dto.SlotAvailability, error) {
	if s.cache.Enabled() {
		var cached []dto.SlotAvailability
		if hit, _ := s.cache.Get(ctx, CacheKeyAvailableSlots, &cached); hit {
			return cached, nil
		}
	}

	templates, err := s.slots.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slots")
	}
	entries, err := s.timetable.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	teachers, err := s.teachers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}

	report := make([]dto.SlotAvailability, 0)
	for _, tmpl := range templates {
		if !tmpl.Kind.Schedulable() {
			continue
		}
		for _, day := range tmpl.Days {
			if slotOccupied(entries, day, tmpl.StartTime) {
				continue
			}

			availableTeachers := make([]string, 0, len(teachers))
			for _, teacher := range teachers {
				if teacher.AvailableOn(day) {
					availableTeachers = append(availableTeachers, teacher.Name)
				}
			}

			availableRooms := make([]string, 0, len(rooms))
			for _, room := range rooms {
				if !roomOccupied(entries, day, tmpl.StartTime, room.Name) {
					availableRooms = append(availableRooms, room.Name)
				}
			}

			report = append(report, dto.SlotAvailability{
				Day:               day,
				StartTime:         tmpl.StartTime,
				EndTime:           tmpl.EndTime,
				Duration:          tmpl.Duration,
				Kind:              string(tmpl.Kind),
				AvailableTeachers: availableTeachers,
				AvailableRooms:    availableRooms,
			})
		}
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, CacheKeyAvailableSlots, report, 0)
	}
	return report, nil
}

func slotOccupied(entries []models.TimetableEntry, day, startTime string) bool {
	for _, entry := range entries {
		if entry.Day == day && entry.StartTime == startTime {
			return true
		}
	}
	return false
}

func roomOccupied(entries []models.TimetableEntry, day, startTime, room string) bool {
	for _, entry := range entries {
		if entry.Day == day && entry.StartTime == startTime && entry.Room == room {
			return true
		}
	}
	return false
}
