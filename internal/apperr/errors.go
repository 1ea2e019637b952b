// Package apperr defines sentinel errors shared across service and API layers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")

	// ErrTimerRunning signals that another time entry already has an
	// active timer. The API surfaces it as a conflict carrying the
	// running entry so the client can offer resume/stop/discard.
	ErrTimerRunning = errors.New("another timer is already running")

	// ErrDerivedRecord rejects mutations aimed at calendar projections
	// that have no backing row of their own (invoice due/income events).
	ErrDerivedRecord = errors.New("derived record is read-only")

	// ErrTaxRateInUse rejects deleting a tax rate still referenced by
	// at least one invoice line item.
	ErrTaxRateInUse = errors.New("tax rate is referenced by line items")
)

// PartialError reports a multi-step write where an earlier step succeeded
// before a later one failed. Completed and Failed name the halves so the
// caller can tell the user which one went through.
type PartialError struct {
	Completed string
	Failed    string
	Err       error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%s saved but %s failed: %v", e.Completed, e.Failed, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }
