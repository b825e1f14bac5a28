package models

import (
	"time"

	"github.com/lib/pq"
)

// SlotKind classifies a recurring period. Only lecture and lab kinds
// are schedulable; break and lunch periods are never assigned courses.
type SlotKind string

const (
	SlotKindLecture SlotKind = "lecture"
	SlotKindLab     SlotKind = "lab"
	SlotKindBreak   SlotKind = "break"
	SlotKindLunch   SlotKind = "lunch"
)

// Schedulable reports whether courses may be assigned to this kind.
func (k SlotKind) Schedulable() bool {
	return k == SlotKindLecture || k == SlotKindLab
}

// Valid reports whether the kind is one of the known values.
func (k SlotKind) Valid() bool {
	switch k {
	case SlotKindLecture, SlotKindLab, SlotKindBreak, SlotKindLunch:
		return true
	}
	return false
}

// WeekDays lists the weekday names in calendar order. Entries in a
// TimeSlot's day set and a Teacher's availability set use these names.
var WeekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// IsWeekDay reports whether name is a known weekday name.
func IsWeekDay(name string) bool {
	for _, d := range WeekDays {
		if d == name {
			return true
		}
	}
	return false
}

// TimeSlot is a recurring period template, e.g. "09:45-11:15 lecture,
// Monday through Friday". Times are HH:MM strings; Duration is minutes.
type TimeSlot struct {
	ID        string         `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	StartTime string         `db:"start_time" json:"startTime"`
	EndTime   string         `db:"end_time" json:"endTime"`
	Duration  int            `db:"duration" json:"duration"`
	Kind      SlotKind       `db:"kind" json:"kind"`
	Days      pq.StringArray `db:"days" json:"days"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// TimeSlotFilter captures filtering options for listing time slots.
type TimeSlotFilter struct {
	Kind      string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
