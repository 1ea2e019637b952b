package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/models"
)

const timeEntryCols = `id, date, description, duration_minutes, hourly_rate, amount,
	client, invoice_item, invoice_id, timer_started_at, notes`

// InsertTimeEntry stores a new time entry row.
func (db *DB) InsertTimeEntry(t models.TimeEntry) error {
	_, err := db.conn.Exec(`
		INSERT INTO time_entries (`+timeEntryCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Date, t.Description, t.DurationMinutes, t.HourlyRate, t.Amount,
		t.Client, t.InvoiceItem, t.InvoiceID, timerToCol(t.TimerStartedAt), t.Notes)
	if err != nil {
		return fmt.Errorf("store: insert time entry: %w", err)
	}
	return nil
}

// GetTimeEntry returns the time entry with the given id.
func (db *DB) GetTimeEntry(id string) (*models.TimeEntry, error) {
	row := db.conn.QueryRow(`SELECT `+timeEntryCols+` FROM time_entries WHERE id = ?`, id)
	t, err := scanTimeEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get time entry: %w", err)
	}
	return t, nil
}

// UpdateTimeEntry replaces the stored time entry, including its timer column.
func (db *DB) UpdateTimeEntry(t models.TimeEntry) error {
	res, err := db.conn.Exec(`
		UPDATE time_entries SET date = ?, description = ?, duration_minutes = ?, hourly_rate = ?,
			amount = ?, client = ?, invoice_item = ?, invoice_id = ?, timer_started_at = ?, notes = ?
		WHERE id = ?
	`, t.Date, t.Description, t.DurationMinutes, t.HourlyRate, t.Amount,
		t.Client, t.InvoiceItem, t.InvoiceID, timerToCol(t.TimerStartedAt), t.Notes, t.ID)
	if err != nil {
		return fmt.Errorf("store: update time entry: %w", err)
	}
	return requireRow(res)
}

// DeleteTimeEntry removes the time entry with the given id.
func (db *DB) DeleteTimeEntry(id string) error {
	res, err := db.conn.Exec(`DELETE FROM time_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete time entry: %w", err)
	}
	return requireRow(res)
}

// ListTimeEntries returns time entries with date in [from, to], ordered by (date, id).
func (db *DB) ListTimeEntries(from, to string) ([]models.TimeEntry, error) {
	rows, err := db.conn.Query(`
		SELECT `+timeEntryCols+` FROM time_entries
		WHERE (? = '' OR date >= ?) AND (? = '' OR date <= ?)
		ORDER BY date, id
	`, from, from, to, to)
	if err != nil {
		return nil, fmt.Errorf("store: list time entries: %w", err)
	}
	defer rows.Close()

	var out []models.TimeEntry
	for rows.Next() {
		t, err := scanTimeEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// RunningTimeEntry returns the entry whose timer is currently running,
// or ErrNotFound when no timer is active. At most one row can have a
// non-null timer_started_at; the service layer enforces this on start.
func (db *DB) RunningTimeEntry() (*models.TimeEntry, error) {
	row := db.conn.QueryRow(`SELECT ` + timeEntryCols + ` FROM time_entries WHERE timer_started_at IS NOT NULL LIMIT 1`)
	t, err := scanTimeEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: running time entry: %w", err)
	}
	return t, nil
}

func scanTimeEntry(scan func(dest ...any) error) (*models.TimeEntry, error) {
	var t models.TimeEntry
	var startedAt sql.NullString
	if err := scan(&t.ID, &t.Date, &t.Description, &t.DurationMinutes, &t.HourlyRate,
		&t.Amount, &t.Client, &t.InvoiceItem, &t.InvoiceID, &startedAt, &t.Notes); err != nil {
		return nil, err
	}
	if startedAt.Valid && startedAt.String != "" {
		ts, err := time.Parse(time.RFC3339Nano, startedAt.String)
		if err != nil {
			return nil, fmt.Errorf("store: parse timer start %q: %w", startedAt.String, err)
		}
		t.TimerStartedAt = &ts
	}
	return &t, nil
}

func timerToCol(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}
