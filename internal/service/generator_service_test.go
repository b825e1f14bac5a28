package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
)

type stubCatalog struct {
	courses  []models.Course
	teachers []models.Teacher
	rooms    []models.Room
	slots    []models.TimeSlot
}

func (s *stubCatalog) courseSource() *stubCourseSource   { return &stubCourseSource{s.courses} }
func (s *stubCatalog) teacherSource() *stubTeacherSource { return &stubTeacherSource{s.teachers} }
func (s *stubCatalog) roomSource() *stubRoomSource       { return &stubRoomSource{s.rooms} }
func (s *stubCatalog) slotSource() *stubSlotSource       { return &stubSlotSource{s.slots} }

type stubCourseSource struct{ items []models.Course }

func (s *stubCourseSource) ListAll(ctx context.Context) ([]models.Course, error) {
	return s.items, nil
}

type stubTeacherSource struct{ items []models.Teacher }

func (s *stubTeacherSource) ListAll(ctx context.Context) ([]models.Teacher, error) {
	return s.items, nil
}

type stubRoomSource struct{ items []models.Room }

func (s *stubRoomSource) ListAll(ctx context.Context) ([]models.Room, error) {
	return s.items, nil
}

type stubSlotSource struct{ items []models.TimeSlot }

func (s *stubSlotSource) ListAll(ctx context.Context) ([]models.TimeSlot, error) {
	return s.items, nil
}

type mockTimetableStore struct {
	stored       []models.TimetableEntry
	replaceCalls int
}

func (m *mockTimetableStore) ListAll(ctx context.Context) ([]models.TimetableEntry, error) {
	return m.stored, nil
}

func (m *mockTimetableStore) ReplaceAll(ctx context.Context, entries []models.TimetableEntry) error {
	m.replaceCalls++
	m.stored = append([]models.TimetableEntry(nil), entries...)
	return nil
}

func newGenerator(catalog *stubCatalog, store *mockTimetableStore) *GeneratorService {
	return NewGeneratorService(catalog.courseSource(), catalog.teacherSource(), catalog.roomSource(), catalog.slotSource(), store, nil, nil, zap.NewNop())
}

func mkCourse(name string) models.Course {
	return models.Course{ID: name, Name: name, Code: name, Credits: 3, Department: "CS"}
}

func mkTeacher(name string, days ...string) models.Teacher {
	return models.Teacher{ID: name, Name: name, Department: "CS", Availability: pq.StringArray(days)}
}

func mkRoom(name string) models.Room {
	return models.Room{ID: name, Name: name, Capacity: 40, Type: "classroom", Building: "Main"}
}

func mkSlot(start, end string, kind models.SlotKind, days ...string) models.TimeSlot {
	return models.TimeSlot{ID: start, Name: start, StartTime: start, EndTime: end, Duration: 90, Kind: kind, Days: pq.StringArray(days)}
}

func TestGenerateAssignsEachCourseOnce(t *testing.T) {
	catalog := &stubCatalog{
		courses:  []models.Course{mkCourse("Data Structures"), mkCourse("Operating Systems"), mkCourse("Databases")},
		teachers: []models.Teacher{mkTeacher("Dr. Smith", "Monday", "Tuesday", "Wednesday")},
		rooms:    []models.Room{mkRoom("Room 101")},
		slots:    []models.TimeSlot{mkSlot("09:45", "11:15", models.SlotKindLecture, "Monday", "Tuesday", "Wednesday")},
	}
	store := &mockTimetableStore{}
	result, err := newGenerator(catalog, store).Generate(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Assigned)
	assert.Equal(t, 3, result.Total)
	require.Len(t, store.stored, 3)

	seenCourses := make(map[string]int)
	seenSlots := make(map[string]int)
	for _, entry := range store.stored {
		seenCourses[entry.Course]++
		seenSlots[entry.Day+"-"+entry.StartTime]++
	}
	for course, n := range seenCourses {
		assert.Equal(t, 1, n, "course %s placed more than once", course)
	}
	for key, n := range seenSlots {
		assert.Equal(t, 1, n, "slot %s holds more than one course", key)
	}
}

func TestGenerateNoTeacherOrRoomDoubleBooking(t *testing.T) {
	catalog := &stubCatalog{
		courses: []models.Course{mkCourse("C1"), mkCourse("C2"), mkCourse("C3"), mkCourse("C4")},
		teachers: []models.Teacher{
			mkTeacher("T1", "Monday", "Tuesday"),
			mkTeacher("T2", "Monday", "Tuesday"),
		},
		rooms: []models.Room{mkRoom("R1"), mkRoom("R2")},
		slots: []models.TimeSlot{
			mkSlot("09:00", "10:30", models.SlotKindLecture, "Monday", "Tuesday"),
			mkSlot("10:45", "12:15", models.SlotKindLab, "Monday", "Tuesday"),
		},
	}
	store := &mockTimetableStore{}
	result, err := newGenerator(catalog, store).Generate(context.Background())
	require.NoError(t, err)
	require.True(t, result.Success)

	type booking struct{ day, start string }
	teacherBookings := make(map[string]map[booking]bool)
	roomBookings := make(map[string]map[booking]bool)
	for _, entry := range store.stored {
		b := booking{entry.Day, entry.StartTime}
		if teacherBookings[entry.Teacher] == nil {
			teacherBookings[entry.Teacher] = make(map[booking]bool)
		}
		require.False(t, teacherBookings[entry.Teacher][b], "teacher %s double booked at %v", entry.Teacher, b)
		teacherBookings[entry.Teacher][b] = true

		if roomBookings[entry.Room] == nil {
			roomBookings[entry.Room] = make(map[booking]bool)
		}
		require.False(t, roomBookings[entry.Room][b], "room %s double booked at %v", entry.Room, b)
		roomBookings[entry.Room][b] = true
	}
}

func TestGeneratePreconditionFailures(t *testing.T) {
	base := func() *stubCatalog {
		return &stubCatalog{
			courses:  []models.Course{mkCourse("C1")},
			teachers: []models.Teacher{mkTeacher("T1", "Monday")},
			rooms:    []models.Room{mkRoom("R1")},
			slots:    []models.TimeSlot{mkSlot("09:00", "10:30", models.SlotKindLecture, "Monday")},
		}
	}

	cases := []struct {
		name   string
		mutate func(*stubCatalog)
		reason string
	}{
		{"no courses", func(c *stubCatalog) { c.courses = nil }, dto.ReasonMissingCourses},
		{"no teachers", func(c *stubCatalog) { c.teachers = nil }, dto.ReasonMissingTeachers},
		{"no rooms", func(c *stubCatalog) { c.rooms = nil }, dto.ReasonMissingRooms},
		{"no time slots", func(c *stubCatalog) { c.slots = nil }, dto.ReasonMissingTimeSlots},
		{"only breaks and lunch", func(c *stubCatalog) {
			c.slots = []models.TimeSlot{
				mkSlot("11:15", "11:30", models.SlotKindBreak, "Monday"),
				mkSlot("13:00", "13:45", models.SlotKindLunch, "Monday"),
			}
		}, dto.ReasonNoSchedulableSlots},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			catalog := base()
			tc.mutate(catalog)
			store := &mockTimetableStore{stored: []models.TimetableEntry{{ID: "old"}}}

			result, err := newGenerator(catalog, store).Generate(context.Background())
			require.NoError(t, err)
			assert.False(t, result.Success)
			assert.Equal(t, tc.reason, result.Reason)
			assert.NotEmpty(t, result.Message)
			// A failed run must leave the stored timetable untouched.
			assert.Equal(t, 0, store.replaceCalls)
			assert.Len(t, store.stored, 1)
		})
	}
}

func TestGeneratePartialAssignmentIsSuccess(t *testing.T) {
	catalog := &stubCatalog{
		courses:  []models.Course{mkCourse("C1"), mkCourse("C2"), mkCourse("C3")},
		teachers: []models.Teacher{mkTeacher("T1", "Monday")},
		rooms:    []models.Room{mkRoom("R1")},
		slots:    []models.TimeSlot{mkSlot("09:00", "10:30", models.SlotKindLecture, "Monday")},
	}
	store := &mockTimetableStore{}
	result, err := newGenerator(catalog, store).Generate(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Assigned)
	assert.Equal(t, 3, result.Total)
	assert.Contains(t, result.Message, "1 of 3")
	require.Len(t, store.stored, 1)
	assert.Equal(t, "C1", store.stored[0].Course)
}

func TestGenerateRespectsTeacherDayAvailability(t *testing.T) {
	catalog := &stubCatalog{
		courses:  []models.Course{mkCourse("C1"), mkCourse("C2")},
		teachers: []models.Teacher{mkTeacher("T1", "Tuesday")},
		rooms:    []models.Room{mkRoom("R1")},
		slots:    []models.TimeSlot{mkSlot("09:00", "10:30", models.SlotKindLecture, "Monday", "Tuesday")},
	}
	store := &mockTimetableStore{}
	result, err := newGenerator(catalog, store).Generate(context.Background())
	require.NoError(t, err)

	require.True(t, result.Success)
	require.Len(t, store.stored, 1)
	assert.Equal(t, "Tuesday", store.stored[0].Day)
	assert.Equal(t, "T1", store.stored[0].Teacher)
}

func TestGenerateTeacherWithEmptyAvailabilityNeverScheduled(t *testing.T) {
	catalog := &stubCatalog{
		courses:  []models.Course{mkCourse("C1")},
		teachers: []models.Teacher{mkTeacher("Ghost"), mkTeacher("T1", "Monday")},
		rooms:    []models.Room{mkRoom("R1")},
		slots:    []models.TimeSlot{mkSlot("09:00", "10:30", models.SlotKindLecture, "Monday")},
	}
	store := &mockTimetableStore{}
	result, err := newGenerator(catalog, store).Generate(context.Background())
	require.NoError(t, err)

	require.True(t, result.Success)
	require.Len(t, store.stored, 1)
	assert.Equal(t, "T1", store.stored[0].Teacher)
}

func TestGenerateSkipsBreakAndLunchSlots(t *testing.T) {
	catalog := &stubCatalog{
		courses:  []models.Course{mkCourse("C1"), mkCourse("C2")},
		teachers: []models.Teacher{mkTeacher("T1", "Monday")},
		rooms:    []models.Room{mkRoom("R1")},
		slots: []models.TimeSlot{
			mkSlot("11:15", "11:30", models.SlotKindBreak, "Monday"),
			mkSlot("09:00", "10:30", models.SlotKindLecture, "Monday"),
			mkSlot("13:00", "13:45", models.SlotKindLunch, "Monday"),
		},
	}
	store := &mockTimetableStore{}
	result, err := newGenerator(catalog, store).Generate(context.Background())
	require.NoError(t, err)

	require.True(t, result.Success)
	require.Len(t, store.stored, 1)
	assert.Equal(t, "09:00", store.stored[0].StartTime)
	assert.Equal(t, models.SlotKindLecture, store.stored[0].Kind)
}

func TestGenerateFirstFitPicksCatalogOrder(t *testing.T) {
	catalog := &stubCatalog{
		courses: []models.Course{mkCourse("C1")},
		teachers: []models.Teacher{
			mkTeacher("T1", "Monday"),
			mkTeacher("T2", "Monday"),
		},
		rooms: []models.Room{mkRoom("R1"), mkRoom("R2")},
		slots: []models.TimeSlot{mkSlot("09:00", "10:30", models.SlotKindLecture, "Monday")},
	}
	store := &mockTimetableStore{}
	_, err := newGenerator(catalog, store).Generate(context.Background())
	require.NoError(t, err)

	require.Len(t, store.stored, 1)
	assert.Equal(t, "T1", store.stored[0].Teacher)
	assert.Equal(t, "R1", store.stored[0].Room)
}

func TestGenerateIsDeterministic(t *testing.T) {
	build := func() (*stubCatalog, *mockTimetableStore) {
		catalog := &stubCatalog{
			courses: []models.Course{mkCourse("C1"), mkCourse("C2"), mkCourse("C3"), mkCourse("C4"), mkCourse("C5")},
			teachers: []models.Teacher{
				mkTeacher("T1", "Monday", "Wednesday"),
				mkTeacher("T2", "Tuesday", "Thursday"),
				mkTeacher("T3", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday"),
			},
			rooms: []models.Room{mkRoom("R1"), mkRoom("R2")},
			slots: []models.TimeSlot{
				mkSlot("09:00", "10:30", models.SlotKindLecture, "Monday", "Tuesday", "Wednesday"),
				mkSlot("10:45", "12:15", models.SlotKindLab, "Thursday", "Friday"),
			},
		}
		return catalog, &mockTimetableStore{}
	}

	catalog1, store1 := build()
	_, err := newGenerator(catalog1, store1).Generate(context.Background())
	require.NoError(t, err)

	for run := 0; run < 5; run++ {
		catalog2, store2 := build()
		_, err := newGenerator(catalog2, store2).Generate(context.Background())
		require.NoError(t, err)
		require.Len(t, store2.stored, len(store1.stored), "run %d produced a different assignment count", run)
		for i := range store1.stored {
			a, b := store1.stored[i], store2.stored[i]
			assert.Equal(t, fmt.Sprintf("%s/%s/%s/%s/%s", a.Course, a.Teacher, a.Room, a.Day, a.StartTime),
				fmt.Sprintf("%s/%s/%s/%s/%s", b.Course, b.Teacher, b.Room, b.Day, b.StartTime))
		}
	}
}

func TestGenerateOverlappingTemplatesShareSlotKey(t *testing.T) {
	// Two templates declaring Monday 09:00 collapse onto one period,
	// so only one course can land there.
	catalog := &stubCatalog{
		courses:  []models.Course{mkCourse("C1"), mkCourse("C2")},
		teachers: []models.Teacher{mkTeacher("T1", "Monday"), mkTeacher("T2", "Monday")},
		rooms:    []models.Room{mkRoom("R1"), mkRoom("R2")},
		slots: []models.TimeSlot{
			mkSlot("09:00", "10:30", models.SlotKindLecture, "Monday"),
			mkSlot("09:00", "10:00", models.SlotKindLab, "Monday"),
		},
	}
	store := &mockTimetableStore{}
	result, err := newGenerator(catalog, store).Generate(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Assigned)
	require.Len(t, store.stored, 1)
}

func TestAvailableSlotsReportsFreePeriods(t *testing.T) {
	catalog := &stubCatalog{
		teachers: []models.Teacher{mkTeacher("T1", "Monday"), mkTeacher("T2", "Tuesday")},
		rooms:    []models.Room{mkRoom("R1"), mkRoom("R2")},
		slots: []models.TimeSlot{
			mkSlot("09:00", "10:30", models.SlotKindLecture, "Monday", "Tuesday"),
			mkSlot("11:15", "11:30", models.SlotKindBreak, "Monday"),
		},
	}
	store := &mockTimetableStore{stored: []models.TimetableEntry{{
		Course: "C1", Teacher: "T1", Room: "R1", Day: "Monday", StartTime: "09:00",
	}}}

	report, err := newGenerator(catalog, store).AvailableSlots(context.Background())
	require.NoError(t, err)

	// Monday 09:00 is taken and the break is not schedulable, so only
	// Tuesday 09:00 remains.
	require.Len(t, report, 1)
	slot := report[0]
	assert.Equal(t, "Tuesday", slot.Day)
	assert.Equal(t, "09:00", slot.StartTime)
	assert.Equal(t, []string{"T2"}, slot.AvailableTeachers)
	assert.ElementsMatch(t, []string{"R1", "R2"}, slot.AvailableRooms)
}

func TestAvailableSlotsOmitsOccupiedPeriodOnly(t *testing.T) {
	catalog := &stubCatalog{
		teachers: []models.Teacher{mkTeacher("T1", "Monday")},
		rooms:    []models.Room{mkRoom("R1"), mkRoom("R2")},
		slots: []models.TimeSlot{
			mkSlot("09:00", "10:30", models.SlotKindLecture, "Monday"),
			mkSlot("10:45", "12:15", models.SlotKindLecture, "Monday"),
		},
	}
	// The 10:45 period holds an entry, so it drops out of the report.
	// The 09:00 period is untouched and keeps both rooms.
	store := &mockTimetableStore{stored: []models.TimetableEntry{{
		Course: "C1", Teacher: "Guest", Room: "R1", Day: "Monday", StartTime: "10:45",
	}}}

	report, err := newGenerator(catalog, store).AvailableSlots(context.Background())
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, "09:00", report[0].StartTime)
	assert.ElementsMatch(t, []string{"R1", "R2"}, report[0].AvailableRooms)
}
