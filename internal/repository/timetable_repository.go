package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// TimetableRepository manages persistence for timetable entries.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// ListAll returns every timetable entry ordered by creation time.
func (r *TimetableRepository) ListAll(ctx context.Context) ([]models.TimetableEntry, error) {
	const query = `SELECT id, course, teacher, room, day, start_time, end_time, kind, duration, created_at FROM timetable_entries ORDER BY created_at ASC`
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list timetable entries: %w", err)
	}
	return entries, nil
}

// FindByID fetches a timetable entry by ID.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.TimetableEntry, error) {
	const query = `SELECT id, course, teacher, room, day, start_time, end_time, kind, duration, created_at FROM timetable_entries WHERE id = $1`
	var entry models.TimetableEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create inserts a single timetable entry.
func (r *TimetableRepository) Create(ctx context.Context, entry *models.TimetableEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO timetable_entries (id, course, teacher, room, day, start_time, end_time, kind, duration, created_at)
		VALUES (:id, :course, :teacher, :room, :day, :start_time, :end_time, :kind, :duration, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create timetable entry: %w", err)
	}
	return nil
}

// ReplaceAll atomically swaps the stored timetable for the given
// entries. The delete and inserts share one transaction so readers
// never observe a half-written timetable.
func (r *TimetableRepository) ReplaceAll(ctx context.Context, entries []models.TimetableEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace timetable: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM timetable_entries`); err != nil {
		return fmt.Errorf("clear timetable: %w", err)
	}

	const query = `INSERT INTO timetable_entries (id, course, teacher, room, day, start_time, end_time, kind, duration, created_at)
		VALUES (:id, :course, :teacher, :room, :day, :start_time, :end_time, :kind, :duration, :created_at)`
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		if entries[i].CreatedAt.IsZero() {
			entries[i].CreatedAt = time.Now().UTC()
		}
		if _, err := tx.NamedExecContext(ctx, query, entries[i]); err != nil {
			return fmt.Errorf("insert timetable entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace timetable: %w", err)
	}
	return nil
}

// Delete removes a single timetable entry.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM timetable_entries WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete timetable entry: %w", err)
	}
	return nil
}

// DeleteAll clears the stored timetable.
func (r *TimetableRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timetable_entries`); err != nil {
		return fmt.Errorf("clear timetable: %w", err)
	}
	return nil
}
