// Package calendar normalizes heterogeneous ledger records into a single
// event shape and projects the filtered set into the dashboard's views.
// Everything here is a pure transform over already-fetched records.
package calendar

import (
	"fmt"
	"math"

	"github.com/starford/fehu/internal/invoice"
	"github.com/starford/fehu/internal/models"
)

// Entry-type identifiers. The set is open: the registry may define more,
// and unknown types get a default visual treatment on the client.
const (
	TypeExpense = "expense"
	TypeTime    = "time"
	TypeMeeting = "meeting"
	TypeWork    = "work"
	TypeTravel  = "travel"
	TypeIncome  = "income"
	TypeInvoice = "invoice"
	TypeOverdue = "overdue"
	TypeNote    = "note"
)

// Event is the normalized calendar event. It is derived on every
// projection and never persisted. The id prefix (expense-, time-,
// travel-, meeting-, work-, invoice-, income-, local-) is the dispatch
// key for edit and delete operations.
//
// The back-reference fields hold the full source record so an edit form
// can be prefilled without a second fetch; the event does not own them.
type Event struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Type  string `json:"type"`
	Title string `json:"title"`

	Amount        *float64 `json:"amount,omitempty"`
	Hours         *float64 `json:"hours,omitempty"`
	Minutes       *int     `json:"minutes,omitempty"`
	Client        string   `json:"client,omitempty"`
	Category      string   `json:"category,omitempty"`
	Kilometers    *float64 `json:"kilometers,omitempty"`
	PaymentMethod string   `json:"paymentMethod,omitempty"`
	TaxDeductible *bool    `json:"taxDeductible,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	InvoiceItem   string   `json:"invoiceItem,omitempty"`
	HourlyRate    *float64 `json:"hourlyRate,omitempty"`
	StartTime     string   `json:"startTime,omitempty"`
	EndTime       string   `json:"endTime,omitempty"`
	Status        string   `json:"status,omitempty"`

	WorkEntry    *models.WorkEntry   `json:"workEntry,omitempty"`
	TravelEntry  *models.TravelEntry `json:"travelEntry,omitempty"`
	TimeEntry    *models.TimeEntry   `json:"timeEntry,omitempty"`
	MeetingEntry *models.Meeting     `json:"meetingEntry,omitempty"`
}

// Sources are the independently fetched record arrays feeding one
// normalization pass, plus purely local (unpersisted) events supplied
// by the caller.
type Sources struct {
	Expenses []models.Expense
	Invoices []models.Invoice
	Work     []models.WorkEntry
	Travel   []models.TravelEntry
	Time     []models.TimeEntry
	Meetings []models.Meeting
	TaxRates []models.TaxRate
	Local    []Event
}

// Lookups resolve stored ids to the human labels events carry.
// Nil funcs fall back to the raw id.
type Lookups struct {
	ClientLabel       func(id string) string
	PaymentMethodName func(id string) string
}

func (l Lookups) clientLabel(id string) string {
	if id == "" {
		return ""
	}
	if l.ClientLabel == nil {
		return id
	}
	return l.ClientLabel(id)
}

func (l Lookups) paymentName(id string) string {
	if id == "" {
		return ""
	}
	if l.PaymentMethodName == nil {
		return id
	}
	return l.PaymentMethodName(id)
}

// Normalize maps every source record to exactly one event, except paid
// invoices which also yield a payment-received income event on the paid
// date. Sources are concatenated in a fixed order (expenses, invoices,
// work, travel, time, meetings, local); no cross-source sort is applied.
func Normalize(src Sources, lk Lookups) []Event {
	rates := invoice.NewRates(src.TaxRates)
	out := make([]Event, 0,
		len(src.Expenses)+2*len(src.Invoices)+len(src.Work)+
			len(src.Travel)+len(src.Time)+len(src.Meetings)+len(src.Local))

	for _, e := range src.Expenses {
		out = append(out, fromExpense(e, lk))
	}
	for _, inv := range src.Invoices {
		out = append(out, fromInvoice(inv, rates, lk)...)
	}
	for _, w := range src.Work {
		out = append(out, fromWork(w, lk))
	}
	for _, t := range src.Travel {
		out = append(out, fromTravel(t, lk))
	}
	for _, t := range src.Time {
		out = append(out, fromTime(t, lk))
	}
	for _, m := range src.Meetings {
		out = append(out, fromMeeting(m, lk))
	}
	out = append(out, src.Local...)
	return out
}

func fromExpense(e models.Expense, lk Lookups) Event {
	amount := e.Amount
	deductible := e.TaxDeductible
	return Event{
		ID:            "expense-" + e.ID,
		Date:          e.Date,
		Type:          TypeExpense,
		Title:         e.Description,
		Amount:        &amount,
		Category:      e.Category,
		PaymentMethod: lk.paymentName(e.PaymentMethod),
		TaxDeductible: &deductible,
		Client:        lk.clientLabel(e.Client),
		Notes:         e.Notes,
	}
}

func fromInvoice(inv models.Invoice, rates invoice.Rates, lk Lookups) []Event {
	total := invoice.ComputeInvoice(inv, rates).Total
	typ := TypeInvoice
	if inv.Status == models.InvoiceStatusOverdue {
		typ = TypeOverdue
	}
	due := Event{
		ID:     "invoice-" + inv.ID,
		Date:   inv.DueDate,
		Type:   typ,
		Title:  "Invoice " + inv.Number,
		Amount: &total,
		Client: lk.clientLabel(inv.Client),
		Status: inv.Status,
	}
	if inv.Status != models.InvoiceStatusPaid || inv.PaidDate == "" {
		return []Event{due}
	}
	paidTotal := total
	paid := Event{
		ID:     "income-" + inv.ID,
		Date:   inv.PaidDate,
		Type:   TypeIncome,
		Title:  "Payment received",
		Amount: &paidTotal,
		Client: due.Client,
		Status: inv.Status,
	}
	return []Event{due, paid}
}

func fromWork(w models.WorkEntry, lk Lookups) Event {
	title := w.Description
	if title == "" {
		title = "Work Done"
	}
	amount := w.Amount
	hours := w.Hours
	rate := w.HourlyRate
	entry := w
	return Event{
		ID:         "work-" + w.ID,
		Date:       w.Date,
		Type:       TypeWork,
		Title:      title,
		Amount:     &amount,
		Hours:      &hours,
		HourlyRate: &rate,
		Client:     lk.clientLabel(w.Client),
		Notes:      w.Notes,
		WorkEntry:  &entry,
	}
}

func fromTravel(t models.TravelEntry, lk Lookups) Event {
	title := "Travel"
	switch {
	case t.FromAddress != "" && t.ToAddress != "":
		title = t.FromAddress + " → " + t.ToAddress
	case t.Notes != "":
		title = t.Notes
	}
	amount := t.Amount
	km := t.Kilometers
	entry := t
	return Event{
		ID:          "travel-" + t.ID,
		Date:        t.Date,
		Type:        TypeTravel,
		Title:       title,
		Amount:      &amount,
		Kilometers:  &km,
		Client:      lk.clientLabel(t.Client),
		Notes:       t.Notes,
		TravelEntry: &entry,
	}
}

func fromTime(t models.TimeEntry, lk Lookups) Event {
	hours, minutes := SplitDuration(t.DurationMinutes)
	title := t.Description
	if title == "" {
		title = t.InvoiceItem
	}
	if title == "" {
		title = fmt.Sprintf("Time %dh %dm", int(hours), minutes)
	}
	amount := t.Amount
	rate := t.HourlyRate
	entry := t
	return Event{
		ID:          "time-" + t.ID,
		Date:        t.Date,
		Type:        TypeTime,
		Title:       title,
		Amount:      &amount,
		Hours:       &hours,
		Minutes:     &minutes,
		HourlyRate:  &rate,
		Client:      lk.clientLabel(t.Client),
		InvoiceItem: t.InvoiceItem,
		Notes:       t.Notes,
		TimeEntry:   &entry,
	}
}

func fromMeeting(m models.Meeting, lk Lookups) Event {
	title := m.Title
	if title == "" {
		title = "Meeting"
	}
	if m.StartTime != "" || m.EndTime != "" {
		title = fmt.Sprintf("%s (%s – %s)", title, m.StartTime, m.EndTime)
	}
	entry := m
	return Event{
		ID:           "meeting-" + m.ID,
		Date:         m.Date,
		Type:         TypeMeeting,
		Title:        title,
		StartTime:    m.StartTime,
		EndTime:      m.EndTime,
		Client:       lk.clientLabel(m.Client),
		Notes:        m.Notes,
		MeetingEntry: &entry,
	}
}

// SplitDuration decomposes stored minutes (possibly fractional) into
// whole hours plus remainder minutes. Inverse of hours*60+minutes for
// whole-minute inputs, so edit round-trips reproduce the stored value.
func SplitDuration(durationMinutes float64) (hours float64, minutes int) {
	hours = math.Floor(durationMinutes / 60)
	minutes = int(math.Round(math.Mod(durationMinutes, 60)))
	return hours, minutes
}
