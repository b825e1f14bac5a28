package models

import (
	"time"

	"github.com/lib/pq"
)

// Teacher represents an instructor record. Availability holds the
// weekday names the teacher may be scheduled on; an empty set means
// the teacher is never schedulable.
type Teacher struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Email        *string        `db:"email" json:"email,omitempty"`
	Phone        *string        `db:"phone" json:"phone,omitempty"`
	Department   string         `db:"department" json:"department"`
	Subjects     pq.StringArray `db:"subjects" json:"subjects"`
	Availability pq.StringArray `db:"availability" json:"availability"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// AvailableOn reports whether the teacher may be scheduled on the given day.
func (t Teacher) AvailableOn(day string) bool {
	for _, d := range t.Availability {
		if d == day {
			return true
		}
	}
	return false
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search     string
	Department string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
