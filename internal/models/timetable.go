package models

import "time"

// TimetableEntry binds a course to a teacher and room at a concrete
// (day, startTime) period. Teacher and room are referenced by display
// name, matching the catalog records they were drawn from.
type TimetableEntry struct {
	ID        string    `db:"id" json:"id"`
	Course    string    `db:"course" json:"course"`
	Teacher   string    `db:"teacher" json:"teacher"`
	Room      string    `db:"room" json:"room"`
	Day       string    `db:"day" json:"day"`
	StartTime string    `db:"start_time" json:"startTime"`
	EndTime   string    `db:"end_time" json:"endTime"`
	Kind      SlotKind  `db:"kind" json:"kind"`
	Duration  int       `db:"duration" json:"duration"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
