package invoice

import (
	"bytes"
	"strings"
	"testing"

	"github.com/starford/fehu/internal/models"
)

func sampleInvoice() models.Invoice {
	return models.Invoice{
		Number:       "2025-007",
		IssueDate:    "2025-03-01",
		DueDate:      "2025-03-15",
		Status:       models.InvoiceStatusPending,
		Discount:     10,
		DiscountType: models.DiscountPercentage,
		Notes:        "Payment within 14 days.",
		Items: []models.LineItem{
			{ItemType: models.ItemTypeHourly, Description: "Development", Hours: 1, Minutes: 30, Price: 100, TaxID: "btw"},
			{ItemType: models.ItemTypeItem, Description: "Stock photos", Quantity: 3, Unit: "pcs", Price: 15},
		},
	}
}

func TestBuildView(t *testing.T) {
	client := &models.Contact{Name: "Jane Smit", Company: "Acme", Email: "jane@acme.test"}
	v := BuildView(sampleInvoice(), client, testRates())

	if v.Number != "2025-007" || v.ClientName != "Jane Smit" {
		t.Errorf("header = %+v", v)
	}
	if len(v.Lines) != 2 {
		t.Fatalf("lines = %d", len(v.Lines))
	}
	if v.Lines[0].Quantity != "1h 30m" {
		t.Errorf("hourly quantity label = %q", v.Lines[0].Quantity)
	}
	if v.Lines[0].Amount != "150.00" {
		t.Errorf("hourly amount = %q", v.Lines[0].Amount)
	}
	if v.Lines[1].Quantity != "3 pcs" {
		t.Errorf("quantity label = %q", v.Lines[1].Quantity)
	}
	if v.Subtotal != "195.00" {
		t.Errorf("subtotal = %q", v.Subtotal)
	}
	if !v.HasDiscount || v.DiscountLabel != "Discount (10%)" || v.Discount != "19.50" {
		t.Errorf("discount = %+v", v)
	}
	if len(v.Breakdown) != 1 || v.Breakdown[0].Label != "BTW (13%)" || v.Breakdown[0].Amount != "19.50" {
		t.Errorf("breakdown = %+v", v.Breakdown)
	}
	// 195 - 19.50 + 19.50.
	if v.Total != "195.00" {
		t.Errorf("total = %q", v.Total)
	}
}

func TestBuildViewNilClient(t *testing.T) {
	v := BuildView(sampleInvoice(), nil, testRates())
	if v.ClientName != "" {
		t.Errorf("nil client should leave fields empty, got %q", v.ClientName)
	}
}

func TestRenderAllTemplatesShareAmounts(t *testing.T) {
	v := BuildView(sampleInvoice(), nil, testRates())
	for _, name := range []string{TemplateClassic, TemplateModern, TemplateMinimal} {
		var buf bytes.Buffer
		if err := Render(&buf, name, v); err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
		html := buf.String()
		for _, want := range []string{"2025-007", "1h 30m", "195.00", "BTW (13%)"} {
			if !strings.Contains(html, want) {
				t.Errorf("template %s missing %q", name, want)
			}
		}
	}
}

func TestRenderDefaultTemplate(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, "", BuildView(sampleInvoice(), nil, nil)); err != nil {
		t.Fatalf("default render: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("default template produced no output")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if err := Render(&bytes.Buffer{}, "fancy", View{}); err == nil {
		t.Fatal("unknown template should error")
	}
}

func TestKnownTemplate(t *testing.T) {
	for _, name := range []string{TemplateClassic, TemplateModern, TemplateMinimal} {
		if !KnownTemplate(name) {
			t.Errorf("%s should be known", name)
		}
	}
	if KnownTemplate("fancy") {
		t.Error("fancy should not be known")
	}
}

func TestMoney(t *testing.T) {
	cases := map[float64]string{
		0:       "0.00",
		19.5:    "19.50",
		19.506:  "19.51",
		1234.56: "1234.56",
	}
	for in, want := range cases {
		if got := Money(in); got != want {
			t.Errorf("Money(%v) = %q, want %q", in, got, want)
		}
	}
}
