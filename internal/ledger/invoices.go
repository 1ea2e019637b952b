package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/checksum"
	"github.com/starford/fehu/internal/invoice"
	"github.com/starford/fehu/internal/models"
)

func (s *Service) taxRates() (invoice.Rates, error) {
	list, err := s.db.ListTaxRates()
	if err != nil {
		return nil, err
	}
	return invoice.NewRates(list), nil
}

func (s *Service) invoiceTotal(inv models.Invoice, rates invoice.Rates) float64 {
	return invoice.ComputeInvoice(inv, rates).Total
}

// CreateInvoice stores a new invoice with its line items and computes
// its first revision tag.
func (s *Service) CreateInvoice(ctx context.Context, inv models.Invoice) (*models.Invoice, error) {
	inv.ID = uuid.NewString()
	prepareInvoice(&inv)
	if err := validateInvoice(inv); err != nil {
		return nil, err
	}
	inv.Revision = revisionOf(inv)
	if err := s.db.SaveInvoice(inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// UpdateInvoice replaces a stored invoice with optimistic concurrency:
// when ifMatch is non-empty it must equal the stored revision tag.
func (s *Service) UpdateInvoice(ctx context.Context, inv models.Invoice, ifMatch string) (*models.Invoice, error) {
	existing, err := s.db.GetInvoice(inv.ID)
	if err != nil {
		return nil, err
	}
	if ifMatch != "" && ifMatch != existing.Revision {
		return nil, apperr.ErrConflict
	}
	prepareInvoice(&inv)
	if err := validateInvoice(inv); err != nil {
		return nil, err
	}
	inv.Revision = revisionOf(inv)
	if err := s.db.SaveInvoice(inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetInvoice returns a stored invoice with its items.
func (s *Service) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	return s.db.GetInvoice(id)
}

// DeleteInvoice removes a stored invoice.
func (s *Service) DeleteInvoice(ctx context.Context, id string) error {
	return s.db.DeleteInvoice(id)
}

// ListInvoices returns invoices due in [from, to].
func (s *Service) ListInvoices(ctx context.Context, from, to string) ([]models.Invoice, error) {
	return s.db.ListInvoices(from, to)
}

// InvoiceTotals computes the derived aggregates and tax breakdown for a
// draft without persisting anything. extraRates lets the caller include
// rates added mid-edit that are not saved yet.
func (s *Service) InvoiceTotals(ctx context.Context, inv models.Invoice, extraRates []models.TaxRate) (invoice.Totals, []invoice.BreakdownEntry, error) {
	rates, err := s.taxRates()
	if err != nil {
		return invoice.Totals{}, nil, err
	}
	for _, r := range extraRates {
		rates[r.ID] = r
	}
	return invoice.ComputeInvoice(inv, rates), invoice.Breakdown(inv.Items, rates), nil
}

// RenderInvoice renders a stored invoice with the named template (empty
// for the invoice's own, then the default). When export is set the
// document is also archived through the export provider; the returned
// string is the archive path ("" when not exported).
func (s *Service) RenderInvoice(ctx context.Context, id, templateName string, export bool) ([]byte, string, error) {
	inv, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, "", err
	}
	if templateName == "" {
		templateName = inv.Template
	}

	var client *models.Contact
	if inv.Client != "" {
		client, err = s.db.GetContact(inv.Client)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, "", err
		}
	}
	rates, err := s.taxRates()
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := invoice.Render(&buf, templateName, invoice.BuildView(*inv, client, rates)); err != nil {
		return nil, "", err
	}

	if !export {
		return buf.Bytes(), "", nil
	}
	if s.exp == nil {
		return nil, "", fmt.Errorf("ledger: export directory not configured")
	}
	path := fmt.Sprintf("invoices/%s.html", inv.Number)
	if err := s.exp.Write(path, buf.Bytes()); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), path, nil
}

// ListTaxRates returns the stored tax rates.
func (s *Service) ListTaxRates(ctx context.Context) ([]models.TaxRate, error) {
	return s.db.ListTaxRates()
}

// SaveTaxRate inserts or updates a named tax rate. New rates get an id
// so they can be referenced by line items in the same edit session.
func (s *Service) SaveTaxRate(ctx context.Context, r models.TaxRate) (*models.TaxRate, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Rate, validation.Min(0.0), validation.Max(100.0)),
	); err != nil {
		return nil, err
	}
	if err := s.db.UpsertTaxRate(r); err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteTaxRate removes a rate unless a line item still references it.
func (s *Service) DeleteTaxRate(ctx context.Context, id string) error {
	return s.db.DeleteTaxRate(id)
}

// prepareInvoice fills generated and defaulted invoice fields.
func prepareInvoice(inv *models.Invoice) {
	if inv.Status == "" {
		inv.Status = models.InvoiceStatusPending
	}
	if inv.Template == "" {
		inv.Template = invoice.DefaultTemplate
	}
	if inv.DiscountType == "" && inv.Discount != 0 {
		inv.DiscountType = models.DiscountPercentage
	}
	for i := range inv.Items {
		if inv.Items[i].ID == "" {
			inv.Items[i].ID = uuid.NewString()
		}
		if inv.Items[i].ItemType == "" {
			inv.Items[i].ItemType = models.ItemTypeItem
		}
	}
}

func validateInvoice(inv models.Invoice) error {
	if err := validation.ValidateStruct(&inv,
		validation.Field(&inv.Number, validation.Required, validation.Length(1, 64)),
		validation.Field(&inv.IssueDate, validation.By(validDate)),
		validation.Field(&inv.DueDate, validation.Required, validation.By(validDate)),
		validation.Field(&inv.PaidDate, validation.By(validDate)),
		validation.Field(&inv.Status, validation.In(
			models.InvoiceStatusPending, models.InvoiceStatusPaid, models.InvoiceStatusOverdue)),
		validation.Field(&inv.DiscountType, validation.In(
			"", models.DiscountPercentage, models.DiscountFixed)),
	); err != nil {
		return err
	}
	for i, it := range inv.Items {
		if it.ItemType != models.ItemTypeItem && it.ItemType != models.ItemTypeHourly {
			return fmt.Errorf("item %d: unknown item type %q", i, it.ItemType)
		}
	}
	return nil
}

// revisionOf digests the invoice content, excluding the revision itself.
func revisionOf(inv models.Invoice) string {
	inv.Revision = ""
	return checksum.SumJSON(inv)
}
