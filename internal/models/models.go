// Package models holds the persisted record types of the ledger.
//
// Dates are calendar dates in "YYYY-MM-DD" form with no timezone
// component; they are compared as strings throughout to avoid drift.
package models

import "time"

// Invoice statuses.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

// Line item types.
const (
	ItemTypeItem   = "item"
	ItemTypeHourly = "hourly"
)

// Discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Expense is a single spend record.
type Expense struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	PaymentMethod string  `json:"paymentMethod"`
	TaxDeductible bool    `json:"taxDeductible"`
	Client        string  `json:"client,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// WorkEntry is a completed, billable piece of work.
type WorkEntry struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
	HourlyRate  float64 `json:"hourlyRate"`
	Amount      float64 `json:"amount"`
	Client      string  `json:"client,omitempty"`
	InvoiceID   string  `json:"invoiceId,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// TravelEntry is a trip with a per-kilometer reimbursement.
type TravelEntry struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	FromAddress string  `json:"fromAddress,omitempty"`
	ToAddress   string  `json:"toAddress,omitempty"`
	Kilometers  float64 `json:"kilometers"`
	RatePerKm   float64 `json:"ratePerKm"`
	Amount      float64 `json:"amount"`
	Client      string  `json:"client,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// TimeEntry is tracked time, possibly with a running timer.
// DurationMinutes may be fractional when produced by the timer.
type TimeEntry struct {
	ID              string     `json:"id"`
	Date            string     `json:"date"`
	Description     string     `json:"description,omitempty"`
	DurationMinutes float64    `json:"durationMinutes"`
	HourlyRate      float64    `json:"hourlyRate"`
	Amount          float64    `json:"amount"`
	Client          string     `json:"client,omitempty"`
	InvoiceItem     string     `json:"invoiceItem,omitempty"`
	InvoiceID       string     `json:"invoiceId,omitempty"`
	TimerStartedAt  *time.Time `json:"timerStartedAt,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

// Meeting is an appointment on the calendar.
type Meeting struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Title     string `json:"title"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	Client    string `json:"client,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Contact is a client the dashboard bills or meets.
type Contact struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// TaxRate is a named percentage rate (0-100, fractional allowed).
type TaxRate struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// LineItem is one row of an invoice. ItemType selects which quantity
// representation is authoritative: Quantity+Unit for "item", Hours+Minutes
// for "hourly". Price is the unit price or the hourly rate accordingly.
type LineItem struct {
	ID          string  `json:"id"`
	ItemType    string  `json:"itemType"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	Hours       float64 `json:"hours,omitempty"`
	Minutes     float64 `json:"minutes,omitempty"`
	Price       float64 `json:"price"`
	TaxID       string  `json:"taxId,omitempty"`
}

// Invoice is an invoice draft or issued invoice with its line items.
// Revision is a content digest used for optimistic concurrency; it is
// recomputed on every write and never set by clients.
type Invoice struct {
	ID           string     `json:"id"`
	Number       string     `json:"number"`
	Client       string     `json:"client,omitempty"`
	IssueDate    string     `json:"issueDate"`
	DueDate      string     `json:"dueDate"`
	PaidDate     string     `json:"paidDate,omitempty"`
	Status       string     `json:"status"`
	Discount     float64    `json:"discount,omitempty"`
	DiscountType string     `json:"discountType,omitempty"`
	Template     string     `json:"template,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Items        []LineItem `json:"items"`
	Revision     string     `json:"revision,omitempty"`
}
