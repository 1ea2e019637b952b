package ledger

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/models"
)

func seedInvoice(t *testing.T, svc *Service) *models.Invoice {
	t.Helper()
	inv, err := svc.CreateInvoice(context.Background(), models.Invoice{
		Number:    "2025-001",
		IssueDate: "2025-03-01",
		DueDate:   "2025-03-15",
		Items: []models.LineItem{
			{ItemType: models.ItemTypeItem, Description: "Licence", Quantity: 2, Price: 100},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return inv
}

func TestCreateInvoiceDefaults(t *testing.T) {
	svc := newTestService(t)
	inv := seedInvoice(t, svc)

	if inv.Status != models.InvoiceStatusPending {
		t.Errorf("status = %q", inv.Status)
	}
	if inv.Template != "classic" {
		t.Errorf("template = %q", inv.Template)
	}
	if inv.Revision == "" {
		t.Error("revision not computed")
	}
	if inv.Items[0].ID == "" {
		t.Error("item id not generated")
	}
}

func TestCreateInvoiceDiscountTypeDefault(t *testing.T) {
	svc := newTestService(t)
	inv, err := svc.CreateInvoice(context.Background(), models.Invoice{
		Number: "2025-002", DueDate: "2025-03-15", Discount: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if inv.DiscountType != models.DiscountPercentage {
		t.Errorf("discount type = %q, want percentage fallback", inv.DiscountType)
	}
}

func TestUpdateInvoiceRevisionChanges(t *testing.T) {
	svc := newTestService(t)
	inv := seedInvoice(t, svc)
	before := inv.Revision

	inv.Items[0].Price = 120
	updated, err := svc.UpdateInvoice(context.Background(), *inv, "")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Revision == before {
		t.Error("revision unchanged after content edit")
	}
}

func TestUpdateInvoiceIfMatch(t *testing.T) {
	svc := newTestService(t)
	inv := seedInvoice(t, svc)

	if _, err := svc.UpdateInvoice(context.Background(), *inv, "stale-tag"); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("stale tag err = %v, want ErrConflict", err)
	}
	// The stored invoice must be untouched after the rejected write.
	stored, err := svc.GetInvoice(context.Background(), inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Revision != inv.Revision {
		t.Error("rejected update modified the stored invoice")
	}

	if _, err := svc.UpdateInvoice(context.Background(), *inv, inv.Revision); err != nil {
		t.Fatalf("matching tag err = %v", err)
	}
}

func TestInvoiceTotalsExtraRates(t *testing.T) {
	svc := newTestService(t)
	inv := models.Invoice{
		Number: "draft", DueDate: "2025-03-15",
		Items: []models.LineItem{
			{ItemType: models.ItemTypeItem, Quantity: 1, Price: 100, TaxID: "draft-vat"},
		},
	}

	totals, _, err := svc.InvoiceTotals(context.Background(), inv, nil)
	if err != nil {
		t.Fatal(err)
	}
	if totals.TotalTax != 0 {
		t.Errorf("unknown rate tax = %v, want 0", totals.TotalTax)
	}

	extra := []models.TaxRate{{ID: "draft-vat", Name: "VAT", Rate: 21}}
	totals, breakdown, err := svc.InvoiceTotals(context.Background(), inv, extra)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(totals.TotalTax-21) > 1e-9 || math.Abs(totals.Total-121) > 1e-9 {
		t.Errorf("totals = %+v", totals)
	}
	if len(breakdown) != 1 || breakdown[0].Label != "VAT (21%)" {
		t.Errorf("breakdown = %+v", breakdown)
	}
}

func TestRenderInvoiceExport(t *testing.T) {
	svc := newTestService(t)
	inv := seedInvoice(t, svc)

	html, path, err := svc.RenderInvoice(context.Background(), inv.ID, "", true)
	if err != nil {
		t.Fatal(err)
	}
	if path != "invoices/2025-001.html" {
		t.Errorf("export path = %q", path)
	}
	if !strings.Contains(string(html), "2025-001") {
		t.Error("rendered document missing invoice number")
	}
}

func TestRenderInvoiceNoExporter(t *testing.T) {
	svc := newTestService(t)
	svc.exp = nil
	inv := seedInvoice(t, svc)

	if _, _, err := svc.RenderInvoice(context.Background(), inv.ID, "", true); err == nil {
		t.Fatal("export without exporter should fail")
	}
	// Plain rendering still works.
	if _, path, err := svc.RenderInvoice(context.Background(), inv.ID, "modern", false); err != nil || path != "" {
		t.Errorf("render = %q, %v", path, err)
	}
}

func TestRenderInvoiceUnknownTemplate(t *testing.T) {
	svc := newTestService(t)
	inv := seedInvoice(t, svc)
	if _, _, err := svc.RenderInvoice(context.Background(), inv.ID, "baroque", false); err == nil {
		t.Fatal("unknown template should fail")
	}
}

func TestSaveTaxRateGeneratesID(t *testing.T) {
	svc := newTestService(t)
	r, err := svc.SaveTaxRate(context.Background(), models.TaxRate{Name: "VAT", Rate: 21})
	if err != nil {
		t.Fatal(err)
	}
	if r.ID == "" {
		t.Error("id not generated")
	}
	if _, err := svc.SaveTaxRate(context.Background(), models.TaxRate{Name: "", Rate: 5}); err == nil {
		t.Error("empty name should fail validation")
	}
	if _, err := svc.SaveTaxRate(context.Background(), models.TaxRate{Name: "Too much", Rate: 150}); err == nil {
		t.Error("rate above 100 should fail validation")
	}
}

func TestValidateInvoiceRejectsBadItems(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateInvoice(context.Background(), models.Invoice{
		Number: "x", DueDate: "2025-03-15",
		Items: []models.LineItem{{ItemType: "subscription", Quantity: 1, Price: 10}},
	})
	if err == nil {
		t.Fatal("unknown item type should fail")
	}
}
