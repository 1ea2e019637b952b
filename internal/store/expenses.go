package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/models"
)

// InsertExpense stores a new expense row.
func (db *DB) InsertExpense(e models.Expense) error {
	_, err := db.conn.Exec(`
		INSERT INTO expenses (id, date, description, amount, category, payment_method, tax_deductible, client, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Date, e.Description, e.Amount, e.Category, e.PaymentMethod, boolToInt(e.TaxDeductible), e.Client, e.Notes)
	if err != nil {
		return fmt.Errorf("store: insert expense: %w", err)
	}
	return nil
}

// GetExpense returns the expense with the given id.
func (db *DB) GetExpense(id string) (*models.Expense, error) {
	row := db.conn.QueryRow(`
		SELECT id, date, description, amount, category, payment_method, tax_deductible, client, notes
		FROM expenses WHERE id = ?
	`, id)
	return scanExpense(row)
}

// UpdateExpense replaces the stored expense.
func (db *DB) UpdateExpense(e models.Expense) error {
	res, err := db.conn.Exec(`
		UPDATE expenses SET date = ?, description = ?, amount = ?, category = ?,
			payment_method = ?, tax_deductible = ?, client = ?, notes = ?
		WHERE id = ?
	`, e.Date, e.Description, e.Amount, e.Category, e.PaymentMethod, boolToInt(e.TaxDeductible), e.Client, e.Notes, e.ID)
	if err != nil {
		return fmt.Errorf("store: update expense: %w", err)
	}
	return requireRow(res)
}

// DeleteExpense removes the expense with the given id.
func (db *DB) DeleteExpense(id string) error {
	res, err := db.conn.Exec(`DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete expense: %w", err)
	}
	return requireRow(res)
}

// ListExpenses returns expenses with date in [from, to], ordered by (date, id).
// Empty bounds are open-ended.
func (db *DB) ListExpenses(from, to string) ([]models.Expense, error) {
	rows, err := db.conn.Query(`
		SELECT id, date, description, amount, category, payment_method, tax_deductible, client, notes
		FROM expenses
		WHERE (? = '' OR date >= ?) AND (? = '' OR date <= ?)
		ORDER BY date, id
	`, from, from, to, to)
	if err != nil {
		return nil, fmt.Errorf("store: list expenses: %w", err)
	}
	defer rows.Close()

	var out []models.Expense
	for rows.Next() {
		var e models.Expense
		var deductible int
		if err := rows.Scan(&e.ID, &e.Date, &e.Description, &e.Amount, &e.Category,
			&e.PaymentMethod, &deductible, &e.Client, &e.Notes); err != nil {
			return nil, err
		}
		e.TaxDeductible = deductible != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanExpense(row *sql.Row) (*models.Expense, error) {
	var e models.Expense
	var deductible int
	err := row.Scan(&e.ID, &e.Date, &e.Description, &e.Amount, &e.Category,
		&e.PaymentMethod, &deductible, &e.Client, &e.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan expense: %w", err)
	}
	e.TaxDeductible = deductible != 0
	return &e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// requireRow converts a zero-row update/delete into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
