package api

import (
	"net/url"
	"strings"

	"github.com/starford/fehu/internal/calendar"
	"github.com/starford/fehu/internal/invoice"
	"github.com/starford/fehu/internal/models"
)

// TimeEntryRequest is the create/update body for time entries. Duration
// may be given either directly in (possibly fractional) minutes or as
// hours + minutes, the way the edit form captures it; hours + minutes
// wins when both are present and maps back to hours*60+minutes exactly.
type TimeEntryRequest struct {
	Date            string  `json:"date"`
	Description     string  `json:"description"`
	DurationMinutes float64 `json:"durationMinutes"`
	Hours           *int    `json:"hours,omitempty"`
	Minutes         *int    `json:"minutes,omitempty"`
	HourlyRate      float64 `json:"hourlyRate"`
	Client          string  `json:"client"`
	InvoiceItem     string  `json:"invoiceItem"`
	InvoiceID       string  `json:"invoiceId"`
	Notes           string  `json:"notes"`
}

// ToModel converts the request into a time entry record.
func (r TimeEntryRequest) ToModel(id string) models.TimeEntry {
	duration := r.DurationMinutes
	if r.Hours != nil || r.Minutes != nil {
		var h, m int
		if r.Hours != nil {
			h = *r.Hours
		}
		if r.Minutes != nil {
			m = *r.Minutes
		}
		duration = float64(h*60 + m)
	}
	return models.TimeEntry{
		ID:              id,
		Date:            r.Date,
		Description:     r.Description,
		DurationMinutes: duration,
		HourlyRate:      r.HourlyRate,
		Client:          r.Client,
		InvoiceItem:     r.InvoiceItem,
		InvoiceID:       r.InvoiceID,
		Notes:           r.Notes,
	}
}

// TravelEntryRequest is the create body for travel entries.
// WithExpense additionally creates the paired expense record.
type TravelEntryRequest struct {
	models.TravelEntry
	WithExpense bool `json:"withExpense"`
}

// CalendarRequest is the POST body for calendar projections, carrying
// the filter and any purely local (unpersisted) events to merge in.
type CalendarRequest struct {
	From   string           `json:"from"`
	To     string           `json:"to"`
	Filter calendar.Filter  `json:"filter"`
	Local  []calendar.Event `json:"localEvents,omitempty"`
}

// InvoicePreviewRequest computes totals for an unsaved draft. Rates
// added mid-edit ride along without being persisted.
type InvoicePreviewRequest struct {
	models.Invoice
	ExtraTaxRates []models.TaxRate `json:"extraTaxRates,omitempty"`
}

// InvoicePreviewResponse carries the derived aggregates for a draft.
type InvoicePreviewResponse struct {
	invoice.Totals
	Breakdown []invoice.BreakdownEntry `json:"breakdown"`
}

// TimerResponse reports a time entry together with its live timer state.
type TimerResponse struct {
	Entry          models.TimeEntry `json:"entry"`
	State          string           `json:"state"`
	ElapsedMinutes float64          `json:"elapsedMinutes"`
}

// TimerConflictResponse is returned when a start hits an already
// running timer on another entry.
type TimerConflictResponse struct {
	Error        string           `json:"error"`
	RunningEntry models.TimeEntry `json:"runningEntry"`
}

// parseFilter reads the compound filter from query parameters. Each
// criterion accepts repeated parameters or comma-separated values.
func parseFilter(q url.Values) calendar.Filter {
	f := calendar.Filter{
		Types:          multiValue(q, "type"),
		Categories:     multiValue(q, "category"),
		Clients:        multiValue(q, "client"),
		PaymentMethods: multiValue(q, "paymentMethod"),
	}
	switch q.Get("taxDeductible") {
	case "true":
		v := true
		f.TaxDeductible = &v
	case "false":
		v := false
		f.TaxDeductible = &v
	}
	return f
}

func multiValue(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
