package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/models"
)

// InsertWorkEntry stores a new work-done row.
func (db *DB) InsertWorkEntry(w models.WorkEntry) error {
	_, err := db.conn.Exec(`
		INSERT INTO work_entries (id, date, description, hours, hourly_rate, amount, client, invoice_id, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, w.ID, w.Date, w.Description, w.Hours, w.HourlyRate, w.Amount, w.Client, w.InvoiceID, w.Notes)
	if err != nil {
		return fmt.Errorf("store: insert work entry: %w", err)
	}
	return nil
}

// GetWorkEntry returns the work entry with the given id.
func (db *DB) GetWorkEntry(id string) (*models.WorkEntry, error) {
	var w models.WorkEntry
	err := db.conn.QueryRow(`
		SELECT id, date, description, hours, hourly_rate, amount, client, invoice_id, notes
		FROM work_entries WHERE id = ?
	`, id).Scan(&w.ID, &w.Date, &w.Description, &w.Hours, &w.HourlyRate, &w.Amount, &w.Client, &w.InvoiceID, &w.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get work entry: %w", err)
	}
	return &w, nil
}

// UpdateWorkEntry replaces the stored work entry.
func (db *DB) UpdateWorkEntry(w models.WorkEntry) error {
	res, err := db.conn.Exec(`
		UPDATE work_entries SET date = ?, description = ?, hours = ?, hourly_rate = ?,
			amount = ?, client = ?, invoice_id = ?, notes = ?
		WHERE id = ?
	`, w.Date, w.Description, w.Hours, w.HourlyRate, w.Amount, w.Client, w.InvoiceID, w.Notes, w.ID)
	if err != nil {
		return fmt.Errorf("store: update work entry: %w", err)
	}
	return requireRow(res)
}

// DeleteWorkEntry removes the work entry with the given id.
func (db *DB) DeleteWorkEntry(id string) error {
	res, err := db.conn.Exec(`DELETE FROM work_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete work entry: %w", err)
	}
	return requireRow(res)
}

// ListWorkEntries returns work entries with date in [from, to], ordered by (date, id).
func (db *DB) ListWorkEntries(from, to string) ([]models.WorkEntry, error) {
	rows, err := db.conn.Query(`
		SELECT id, date, description, hours, hourly_rate, amount, client, invoice_id, notes
		FROM work_entries
		WHERE (? = '' OR date >= ?) AND (? = '' OR date <= ?)
		ORDER BY date, id
	`, from, from, to, to)
	if err != nil {
		return nil, fmt.Errorf("store: list work entries: %w", err)
	}
	defer rows.Close()

	var out []models.WorkEntry
	for rows.Next() {
		var w models.WorkEntry
		if err := rows.Scan(&w.ID, &w.Date, &w.Description, &w.Hours, &w.HourlyRate,
			&w.Amount, &w.Client, &w.InvoiceID, &w.Notes); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// ListUnbilledWork returns work entries not yet attached to an invoice.
func (db *DB) ListUnbilledWork() ([]models.WorkEntry, error) {
	rows, err := db.conn.Query(`
		SELECT id, date, description, hours, hourly_rate, amount, client, invoice_id, notes
		FROM work_entries WHERE invoice_id = '' ORDER BY date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list unbilled work: %w", err)
	}
	defer rows.Close()

	var out []models.WorkEntry
	for rows.Next() {
		var w models.WorkEntry
		if err := rows.Scan(&w.ID, &w.Date, &w.Description, &w.Hours, &w.HourlyRate,
			&w.Amount, &w.Client, &w.InvoiceID, &w.Notes); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// InsertTravelEntry stores a new travel row.
func (db *DB) InsertTravelEntry(t models.TravelEntry) error {
	_, err := db.conn.Exec(`
		INSERT INTO travel_entries (id, date, from_address, to_address, kilometers, rate_per_km, amount, client, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Date, t.FromAddress, t.ToAddress, t.Kilometers, t.RatePerKm, t.Amount, t.Client, t.Notes)
	if err != nil {
		return fmt.Errorf("store: insert travel entry: %w", err)
	}
	return nil
}

// GetTravelEntry returns the travel entry with the given id.
func (db *DB) GetTravelEntry(id string) (*models.TravelEntry, error) {
	var t models.TravelEntry
	err := db.conn.QueryRow(`
		SELECT id, date, from_address, to_address, kilometers, rate_per_km, amount, client, notes
		FROM travel_entries WHERE id = ?
	`, id).Scan(&t.ID, &t.Date, &t.FromAddress, &t.ToAddress, &t.Kilometers, &t.RatePerKm, &t.Amount, &t.Client, &t.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get travel entry: %w", err)
	}
	return &t, nil
}

// UpdateTravelEntry replaces the stored travel entry.
func (db *DB) UpdateTravelEntry(t models.TravelEntry) error {
	res, err := db.conn.Exec(`
		UPDATE travel_entries SET date = ?, from_address = ?, to_address = ?, kilometers = ?,
			rate_per_km = ?, amount = ?, client = ?, notes = ?
		WHERE id = ?
	`, t.Date, t.FromAddress, t.ToAddress, t.Kilometers, t.RatePerKm, t.Amount, t.Client, t.Notes, t.ID)
	if err != nil {
		return fmt.Errorf("store: update travel entry: %w", err)
	}
	return requireRow(res)
}

// DeleteTravelEntry removes the travel entry with the given id.
func (db *DB) DeleteTravelEntry(id string) error {
	res, err := db.conn.Exec(`DELETE FROM travel_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete travel entry: %w", err)
	}
	return requireRow(res)
}

// ListTravelEntries returns travel entries with date in [from, to], ordered by (date, id).
func (db *DB) ListTravelEntries(from, to string) ([]models.TravelEntry, error) {
	rows, err := db.conn.Query(`
		SELECT id, date, from_address, to_address, kilometers, rate_per_km, amount, client, notes
		FROM travel_entries
		WHERE (? = '' OR date >= ?) AND (? = '' OR date <= ?)
		ORDER BY date, id
	`, from, from, to, to)
	if err != nil {
		return nil, fmt.Errorf("store: list travel entries: %w", err)
	}
	defer rows.Close()

	var out []models.TravelEntry
	for rows.Next() {
		var t models.TravelEntry
		if err := rows.Scan(&t.ID, &t.Date, &t.FromAddress, &t.ToAddress, &t.Kilometers,
			&t.RatePerKm, &t.Amount, &t.Client, &t.Notes); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// InsertMeeting stores a new meeting row.
func (db *DB) InsertMeeting(m models.Meeting) error {
	_, err := db.conn.Exec(`
		INSERT INTO meetings (id, date, title, start_time, end_time, client, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Date, m.Title, m.StartTime, m.EndTime, m.Client, m.Notes)
	if err != nil {
		return fmt.Errorf("store: insert meeting: %w", err)
	}
	return nil
}

// GetMeeting returns the meeting with the given id.
func (db *DB) GetMeeting(id string) (*models.Meeting, error) {
	var m models.Meeting
	err := db.conn.QueryRow(`
		SELECT id, date, title, start_time, end_time, client, notes
		FROM meetings WHERE id = ?
	`, id).Scan(&m.ID, &m.Date, &m.Title, &m.StartTime, &m.EndTime, &m.Client, &m.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get meeting: %w", err)
	}
	return &m, nil
}

// UpdateMeeting replaces the stored meeting.
func (db *DB) UpdateMeeting(m models.Meeting) error {
	res, err := db.conn.Exec(`
		UPDATE meetings SET date = ?, title = ?, start_time = ?, end_time = ?, client = ?, notes = ?
		WHERE id = ?
	`, m.Date, m.Title, m.StartTime, m.EndTime, m.Client, m.Notes, m.ID)
	if err != nil {
		return fmt.Errorf("store: update meeting: %w", err)
	}
	return requireRow(res)
}

// DeleteMeeting removes the meeting with the given id.
func (db *DB) DeleteMeeting(id string) error {
	res, err := db.conn.Exec(`DELETE FROM meetings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete meeting: %w", err)
	}
	return requireRow(res)
}

// ListMeetings returns meetings with date in [from, to], ordered by (date, id).
func (db *DB) ListMeetings(from, to string) ([]models.Meeting, error) {
	rows, err := db.conn.Query(`
		SELECT id, date, title, start_time, end_time, client, notes
		FROM meetings
		WHERE (? = '' OR date >= ?) AND (? = '' OR date <= ?)
		ORDER BY date, id
	`, from, from, to, to)
	if err != nil {
		return nil, fmt.Errorf("store: list meetings: %w", err)
	}
	defer rows.Close()

	var out []models.Meeting
	for rows.Next() {
		var m models.Meeting
		if err := rows.Scan(&m.ID, &m.Date, &m.Title, &m.StartTime, &m.EndTime, &m.Client, &m.Notes); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
