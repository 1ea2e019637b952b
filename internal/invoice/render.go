package invoice

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/starford/fehu/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Template names available to the renderer.
const (
	TemplateClassic = "classic"
	TemplateModern  = "modern"
	TemplateMinimal = "minimal"
)

// DefaultTemplate is used when an invoice has no template set.
const DefaultTemplate = TemplateClassic

// KnownTemplate reports whether name is a renderable template.
func KnownTemplate(name string) bool {
	switch name {
	case TemplateClassic, TemplateModern, TemplateMinimal:
		return true
	}
	return false
}

// LineView is one rendered line item row. Quantity is a display string:
// "1h 30m" for hourly items, "3 pcs" for quantity items.
type LineView struct {
	Description string
	Quantity    string
	Price       string
	Tax         string
	Amount      string
}

// View is the shared render model. Every template consumes the same
// precomputed view so amounts cannot drift between templates or from
// the pricing engine.
type View struct {
	Number    string
	IssueDate string
	DueDate   string
	Status    string
	Notes     string

	ClientName    string
	ClientCompany string
	ClientAddress string
	ClientEmail   string

	Lines []LineView

	Subtotal      string
	HasDiscount   bool
	DiscountLabel string
	Discount      string
	Breakdown     []BreakdownLineView
	Total         string
}

// BreakdownLineView is one formatted tax breakdown row.
type BreakdownLineView struct {
	Label  string
	Amount string
}

// BuildView computes the render model for an invoice. client may be nil.
func BuildView(inv models.Invoice, client *models.Contact, rates Rates) View {
	totals := ComputeInvoice(inv, rates)

	v := View{
		Number:    inv.Number,
		IssueDate: inv.IssueDate,
		DueDate:   inv.DueDate,
		Status:    inv.Status,
		Notes:     inv.Notes,
		Subtotal:  Money(totals.Subtotal),
		Total:     Money(totals.Total),
	}
	if client != nil {
		v.ClientName = client.Name
		v.ClientCompany = client.Company
		v.ClientAddress = client.Address
		v.ClientEmail = client.Email
	}

	for _, it := range inv.Items {
		v.Lines = append(v.Lines, LineView{
			Description: it.Description,
			Quantity:    quantityLabel(it),
			Price:       Money(num(it.Price)),
			Tax:         Money(ItemTax(it, rates)),
			Amount:      Money(ItemAmount(it)),
		})
	}

	if totals.DiscountAmount > 0 {
		v.HasDiscount = true
		v.Discount = Money(totals.DiscountAmount)
		if inv.DiscountType == models.DiscountPercentage {
			v.DiscountLabel = "Discount (" + strconv.FormatFloat(inv.Discount, 'f', -1, 64) + "%)"
		} else {
			v.DiscountLabel = "Discount"
		}
	}

	for _, b := range Breakdown(inv.Items, rates) {
		v.Breakdown = append(v.Breakdown, BreakdownLineView{Label: b.Label, Amount: Money(b.Amount)})
	}
	return v
}

// Render writes the named template for the given view.
func Render(w io.Writer, name string, v View) error {
	if name == "" {
		name = DefaultTemplate
	}
	if !KnownTemplate(name) {
		return fmt.Errorf("invoice: unknown template %q", name)
	}
	return templates.ExecuteTemplate(w, name+".html", v)
}

// Money formats an amount for display with exactly two decimals.
// This is the only place currency values are rounded.
func Money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func quantityLabel(it models.LineItem) string {
	if it.ItemType == models.ItemTypeHourly {
		return fmt.Sprintf("%dh %dm", int(num(it.Hours)), int(num(it.Minutes)))
	}
	unit := it.Unit
	if unit == "" {
		unit = "pcs"
	}
	return strconv.FormatFloat(num(it.Quantity), 'f', -1, 64) + " " + unit
}
