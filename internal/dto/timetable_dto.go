package dto

import "github.com/noah-isme/timetable-api/internal/models"

// CreateTimetableEntryRequest manually places a course at a concrete
// period. Teacher and room may be given by id or by display name.
type CreateTimetableEntryRequest struct {
	Course    string `json:"course" validate:"required,min=1,max=150"`
	Teacher   string `json:"teacher" validate:"required,min=1,max=150"`
	Room      string `json:"room" validate:"required,min=1,max=100"`
	Day       string `json:"day" validate:"required,min=1"`
	StartTime string `json:"startTime" validate:"required,len=5"`
	EndTime   string `json:"endTime" validate:"required,len=5"`
	Kind      string `json:"kind" validate:"omitempty,oneof=lecture lab break lunch"`
	Duration  int    `json:"duration" validate:"omitempty,min=5,max=480"`
}

// GenerateTimetableResult reports the outcome of a generation run.
// Reason is set only when Success is false and names the missing
// precondition.
type GenerateTimetableResult struct {
	Success  bool                    `json:"success"`
	Message  string                  `json:"message"`
	Reason   string                  `json:"reason,omitempty"`
	Assigned int                     `json:"assigned"`
	Total    int                     `json:"total"`
	Entries  []models.TimetableEntry `json:"entries"`
}

// Precondition reason codes for GenerateTimetableResult.Reason.
const (
	ReasonMissingCourses     = "missing-courses"
	ReasonMissingTeachers    = "missing-teachers"
	ReasonMissingRooms       = "missing-rooms"
	ReasonMissingTimeSlots   = "missing-timeslots"
	ReasonNoSchedulableSlots = "no-schedulable-timeslots"
)

// SlotAvailability describes one free (day, startTime) period and the
// teachers and rooms still bookable in it given the persisted timetable.
// Periods already holding an entry are omitted from the report.
type SlotAvailability struct {
	Day               string   `json:"day"`
	StartTime         string   `json:"startTime"`
	EndTime           string   `json:"endTime"`
	Duration          int      `json:"duration"`
	Kind              string   `json:"kind"`
	AvailableTeachers []string `json:"availableTeachers"`
	AvailableRooms    []string `json:"availableRooms"`
}
