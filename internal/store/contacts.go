package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/models"
)

// InsertContact stores a new contact.
func (db *DB) InsertContact(c models.Contact) error {
	_, err := db.conn.Exec(`
		INSERT INTO contacts (id, name, company, email, address) VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Company, c.Email, c.Address)
	if err != nil {
		return fmt.Errorf("store: insert contact: %w", err)
	}
	return nil
}

// GetContact returns the contact with the given id.
func (db *DB) GetContact(id string) (*models.Contact, error) {
	var c models.Contact
	err := db.conn.QueryRow(`
		SELECT id, name, company, email, address FROM contacts WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Company, &c.Email, &c.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get contact: %w", err)
	}
	return &c, nil
}

// UpdateContact replaces the stored contact.
func (db *DB) UpdateContact(c models.Contact) error {
	res, err := db.conn.Exec(`
		UPDATE contacts SET name = ?, company = ?, email = ?, address = ? WHERE id = ?
	`, c.Name, c.Company, c.Email, c.Address, c.ID)
	if err != nil {
		return fmt.Errorf("store: update contact: %w", err)
	}
	return requireRow(res)
}

// DeleteContact removes the contact with the given id.
func (db *DB) DeleteContact(id string) error {
	res, err := db.conn.Exec(`DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete contact: %w", err)
	}
	return requireRow(res)
}

// ListContacts returns all contacts ordered by name.
func (db *DB) ListContacts() ([]models.Contact, error) {
	rows, err := db.conn.Query(`SELECT id, name, company, email, address FROM contacts ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("store: list contacts: %w", err)
	}
	defer rows.Close()

	var out []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Company, &c.Email, &c.Address); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
