package ledger

import (
	"context"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/store"
	"github.com/starford/fehu/internal/timer"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func validDate(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !dateRe.MatchString(s) {
		return fmt.Errorf("must be a YYYY-MM-DD date")
	}
	return nil
}

// CreateExpense stores a new expense, applying registry defaults for a
// missing category or payment method.
func (s *Service) CreateExpense(ctx context.Context, e models.Expense) (*models.Expense, error) {
	e.ID = uuid.NewString()
	if e.Category == "" {
		e.Category = s.reg.AppDefaults().Category
	}
	if e.PaymentMethod == "" {
		if pm, ok := s.reg.DefaultPaymentMethod(); ok {
			e.PaymentMethod = pm.ID
		}
	}
	if err := validateExpense(e); err != nil {
		return nil, err
	}
	if err := s.db.InsertExpense(e); err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateExpense replaces a stored expense.
func (s *Service) UpdateExpense(ctx context.Context, e models.Expense) (*models.Expense, error) {
	if err := validateExpense(e); err != nil {
		return nil, err
	}
	if err := s.db.UpdateExpense(e); err != nil {
		return nil, err
	}
	return &e, nil
}

func validateExpense(e models.Expense) error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Date, validation.Required, validation.By(validDate)),
		validation.Field(&e.Description, validation.Required, validation.Length(0, 200)),
		validation.Field(&e.Amount, validation.Min(0.0)),
	)
}

// CreateWorkEntry stores a new work-done entry. The amount is derived
// from hours and rate; a zero rate falls back to the registry default.
func (s *Service) CreateWorkEntry(ctx context.Context, w models.WorkEntry) (*models.WorkEntry, error) {
	w.ID = uuid.NewString()
	if w.HourlyRate == 0 {
		w.HourlyRate = s.reg.AppDefaults().HourlyRate
	}
	w.Amount = w.Hours * w.HourlyRate
	if err := validateWork(w); err != nil {
		return nil, err
	}
	if err := s.db.InsertWorkEntry(w); err != nil {
		return nil, err
	}
	return &w, nil
}

// UpdateWorkEntry replaces a stored work entry, recomputing its amount.
func (s *Service) UpdateWorkEntry(ctx context.Context, w models.WorkEntry) (*models.WorkEntry, error) {
	w.Amount = w.Hours * w.HourlyRate
	if err := validateWork(w); err != nil {
		return nil, err
	}
	if err := s.db.UpdateWorkEntry(w); err != nil {
		return nil, err
	}
	return &w, nil
}

func validateWork(w models.WorkEntry) error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Date, validation.Required, validation.By(validDate)),
		validation.Field(&w.Hours, validation.Min(0.0)),
	)
}

// CreateTravelEntry stores a travel entry and, when withExpense is set,
// a paired expense for the reimbursable amount. The two writes are not
// atomic: when the paired expense fails after the travel entry is in,
// the error reports which half succeeded.
func (s *Service) CreateTravelEntry(ctx context.Context, t models.TravelEntry, withExpense bool) (*models.TravelEntry, error) {
	t.ID = uuid.NewString()
	if t.RatePerKm == 0 {
		t.RatePerKm = s.reg.AppDefaults().KilometerRate
	}
	t.Amount = t.Kilometers * t.RatePerKm
	if err := validateTravel(t); err != nil {
		return nil, err
	}
	if err := s.db.InsertTravelEntry(t); err != nil {
		return nil, err
	}
	if !withExpense {
		return &t, nil
	}

	desc := "Travel"
	if t.FromAddress != "" && t.ToAddress != "" {
		desc = t.FromAddress + " → " + t.ToAddress
	}
	_, err := s.CreateExpense(ctx, models.Expense{
		Date:          t.Date,
		Description:   desc,
		Amount:        t.Amount,
		Category:      "Travel",
		Client:        t.Client,
		TaxDeductible: true,
	})
	if err != nil {
		return &t, &apperr.PartialError{Completed: "travel entry", Failed: "paired expense", Err: err}
	}
	return &t, nil
}

// UpdateTravelEntry replaces a stored travel entry, recomputing its amount.
func (s *Service) UpdateTravelEntry(ctx context.Context, t models.TravelEntry) (*models.TravelEntry, error) {
	t.Amount = t.Kilometers * t.RatePerKm
	if err := validateTravel(t); err != nil {
		return nil, err
	}
	if err := s.db.UpdateTravelEntry(t); err != nil {
		return nil, err
	}
	return &t, nil
}

func validateTravel(t models.TravelEntry) error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Date, validation.Required, validation.By(validDate)),
		validation.Field(&t.Kilometers, validation.Min(0.0)),
	)
}

// CreateTimeEntry stores a new time entry. The amount is derived from
// the duration and hourly rate.
func (s *Service) CreateTimeEntry(ctx context.Context, t models.TimeEntry) (*models.TimeEntry, error) {
	t.ID = uuid.NewString()
	if t.HourlyRate == 0 {
		t.HourlyRate = s.reg.AppDefaults().HourlyRate
	}
	t.Amount = timer.Amount(t.DurationMinutes, t.HourlyRate)
	t.TimerStartedAt = nil
	if err := validateTime(t); err != nil {
		return nil, err
	}
	if err := s.db.InsertTimeEntry(t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTimeEntry replaces a stored time entry's editable fields. The
// timer column is owned by the timer operations and left untouched.
func (s *Service) UpdateTimeEntry(ctx context.Context, t models.TimeEntry) (*models.TimeEntry, error) {
	existing, err := s.db.GetTimeEntry(t.ID)
	if err != nil {
		return nil, err
	}
	t.TimerStartedAt = existing.TimerStartedAt
	t.Amount = timer.Amount(t.DurationMinutes, t.HourlyRate)
	if err := validateTime(t); err != nil {
		return nil, err
	}
	if err := s.db.UpdateTimeEntry(t); err != nil {
		return nil, err
	}
	return &t, nil
}

func validateTime(t models.TimeEntry) error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Date, validation.Required, validation.By(validDate)),
		validation.Field(&t.DurationMinutes, validation.Min(0.0)),
	)
}

// CreateMeeting stores a new meeting.
func (s *Service) CreateMeeting(ctx context.Context, m models.Meeting) (*models.Meeting, error) {
	m.ID = uuid.NewString()
	if err := validateMeeting(m); err != nil {
		return nil, err
	}
	if err := s.db.InsertMeeting(m); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMeeting replaces a stored meeting.
func (s *Service) UpdateMeeting(ctx context.Context, m models.Meeting) (*models.Meeting, error) {
	if err := validateMeeting(m); err != nil {
		return nil, err
	}
	if err := s.db.UpdateMeeting(m); err != nil {
		return nil, err
	}
	return &m, nil
}

func validateMeeting(m models.Meeting) error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Date, validation.Required, validation.By(validDate)),
		validation.Field(&m.Title, validation.Length(0, 200)),
	)
}

// CreateContact stores a new contact.
func (s *Service) CreateContact(ctx context.Context, c models.Contact) (*models.Contact, error) {
	c.ID = uuid.NewString()
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 200)),
	); err != nil {
		return nil, err
	}
	if err := s.db.InsertContact(c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateContact replaces a stored contact.
func (s *Service) UpdateContact(ctx context.Context, c models.Contact) (*models.Contact, error) {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 200)),
	); err != nil {
		return nil, err
	}
	if err := s.db.UpdateContact(c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UnbilledWork lists work entries not yet attached to an invoice.
func (s *Service) UnbilledWork(ctx context.Context) ([]models.WorkEntry, error) {
	return s.db.ListUnbilledWork()
}

// Store exposes the raw store for read paths the API serves directly.
func (s *Service) Store() *store.DB { return s.db }
