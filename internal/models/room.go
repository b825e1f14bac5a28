package models

import (
	"time"

	"github.com/lib/pq"
)

// Room represents a bookable teaching space. Capacity and equipment
// are informational; the generator does not filter on them.
type Room struct {
	ID        string         `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Capacity  int            `db:"capacity" json:"capacity"`
	Type      string         `db:"type" json:"type"`
	Equipment pq.StringArray `db:"equipment" json:"equipment"`
	Building  string         `db:"building" json:"building"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// RoomFilter captures filtering options for listing rooms.
type RoomFilter struct {
	Search    string
	Building  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
