package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/models"
)

// SaveInvoice inserts or replaces an invoice and its line items in one
// transaction. Items are stored with an explicit position so listing
// preserves draft order.
func (db *DB) SaveInvoice(inv models.Invoice) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO invoices (id, number, client, issue_date, due_date, paid_date, status,
			discount, discount_type, template, notes, revision)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			number        = excluded.number,
			client        = excluded.client,
			issue_date    = excluded.issue_date,
			due_date      = excluded.due_date,
			paid_date     = excluded.paid_date,
			status        = excluded.status,
			discount      = excluded.discount,
			discount_type = excluded.discount_type,
			template      = excluded.template,
			notes         = excluded.notes,
			revision      = excluded.revision
	`, inv.ID, inv.Number, inv.Client, inv.IssueDate, inv.DueDate, inv.PaidDate, inv.Status,
		inv.Discount, inv.DiscountType, inv.Template, inv.Notes, inv.Revision)
	if err != nil {
		return fmt.Errorf("store: upsert invoice: %w", err)
	}

	// Replace items: delete old then bulk insert in draft order.
	if _, err := tx.Exec(`DELETE FROM invoice_items WHERE invoice_id = ?`, inv.ID); err != nil {
		return fmt.Errorf("store: clear invoice items: %w", err)
	}
	if len(inv.Items) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO invoice_items (id, invoice_id, position, item_type, description,
				quantity, unit, hours, minutes, price, tax_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("store: prepare item insert: %w", err)
		}
		defer stmt.Close()
		for i, it := range inv.Items {
			if _, err := stmt.Exec(it.ID, inv.ID, i, it.ItemType, it.Description,
				it.Quantity, it.Unit, it.Hours, it.Minutes, it.Price, it.TaxID); err != nil {
				return fmt.Errorf("store: insert invoice item: %w", err)
			}
		}
	}

	return tx.Commit()
}

// GetInvoice returns the invoice with its line items.
func (db *DB) GetInvoice(id string) (*models.Invoice, error) {
	var inv models.Invoice
	err := db.conn.QueryRow(`
		SELECT id, number, client, issue_date, due_date, paid_date, status,
			discount, discount_type, template, notes, revision
		FROM invoices WHERE id = ?
	`, id).Scan(&inv.ID, &inv.Number, &inv.Client, &inv.IssueDate, &inv.DueDate, &inv.PaidDate,
		&inv.Status, &inv.Discount, &inv.DiscountType, &inv.Template, &inv.Notes, &inv.Revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get invoice: %w", err)
	}
	items, err := db.invoiceItems(inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

// DeleteInvoice removes an invoice; its items cascade.
func (db *DB) DeleteInvoice(id string) error {
	res, err := db.conn.Exec(`DELETE FROM invoices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete invoice: %w", err)
	}
	return requireRow(res)
}

// ListInvoices returns invoices whose due date falls in [from, to],
// ordered by (due_date, id), each with its line items.
func (db *DB) ListInvoices(from, to string) ([]models.Invoice, error) {
	rows, err := db.conn.Query(`
		SELECT id, number, client, issue_date, due_date, paid_date, status,
			discount, discount_type, template, notes, revision
		FROM invoices
		WHERE (? = '' OR due_date >= ?) AND (? = '' OR due_date <= ?)
		ORDER BY due_date, id
	`, from, from, to, to)
	if err != nil {
		return nil, fmt.Errorf("store: list invoices: %w", err)
	}
	defer rows.Close()

	var out []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.Client, &inv.IssueDate, &inv.DueDate,
			&inv.PaidDate, &inv.Status, &inv.Discount, &inv.DiscountType, &inv.Template,
			&inv.Notes, &inv.Revision); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		items, err := db.invoiceItems(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (db *DB) invoiceItems(invoiceID string) ([]models.LineItem, error) {
	rows, err := db.conn.Query(`
		SELECT id, item_type, description, quantity, unit, hours, minutes, price, tax_id
		FROM invoice_items WHERE invoice_id = ? ORDER BY position
	`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("store: invoice items: %w", err)
	}
	defer rows.Close()

	var out []models.LineItem
	for rows.Next() {
		var it models.LineItem
		if err := rows.Scan(&it.ID, &it.ItemType, &it.Description, &it.Quantity, &it.Unit,
			&it.Hours, &it.Minutes, &it.Price, &it.TaxID); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// UpsertTaxRate inserts or replaces a named tax rate.
func (db *DB) UpsertTaxRate(r models.TaxRate) error {
	_, err := db.conn.Exec(`
		INSERT INTO tax_rates (id, name, rate) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, rate = excluded.rate
	`, r.ID, r.Name, r.Rate)
	if err != nil {
		return fmt.Errorf("store: upsert tax rate: %w", err)
	}
	return nil
}

// DeleteTaxRate removes a tax rate unless a line item still references it.
func (db *DB) DeleteTaxRate(id string) error {
	var refs int
	if err := db.conn.QueryRow(`SELECT count(*) FROM invoice_items WHERE tax_id = ?`, id).Scan(&refs); err != nil {
		return fmt.Errorf("store: count tax refs: %w", err)
	}
	if refs > 0 {
		return apperr.ErrTaxRateInUse
	}
	res, err := db.conn.Exec(`DELETE FROM tax_rates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete tax rate: %w", err)
	}
	return requireRow(res)
}

// ListTaxRates returns all tax rates ordered by name.
func (db *DB) ListTaxRates() ([]models.TaxRate, error) {
	rows, err := db.conn.Query(`SELECT id, name, rate FROM tax_rates ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("store: list tax rates: %w", err)
	}
	defer rows.Close()

	var out []models.TaxRate
	for rows.Next() {
		var r models.TaxRate
		if err := rows.Scan(&r.ID, &r.Name, &r.Rate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
