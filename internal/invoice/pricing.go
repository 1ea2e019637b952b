// Package invoice implements the line-item pricing and tax engine and the
// invoice template renderer. All arithmetic is plain float64; amounts are
// rounded to two decimals only when formatted for display, never per line,
// so totals reconcile exactly across templates.
package invoice

import (
	"math"
	"strconv"

	"github.com/starford/fehu/internal/models"
)

// Rates resolves tax ids to their rates. Built once per computation from
// the stored registry plus any rates added mid-draft.
type Rates map[string]models.TaxRate

// NewRates builds a Rates lookup from a rate list.
func NewRates(list []models.TaxRate) Rates {
	r := make(Rates, len(list))
	for _, tr := range list {
		r[tr.ID] = tr
	}
	return r
}

// Totals are the derived invoice aggregates. They are never stored.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	TotalTax       float64 `json:"totalTax"`
	Total          float64 `json:"total"`
}

// BreakdownEntry is one per-rate line of the tax breakdown.
type BreakdownEntry struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// ItemAmount computes the pre-tax amount for one line item.
// Hourly items bill (hours + minutes/60) * price; everything else bills
// quantity * price. Invalid numerics contribute zero.
func ItemAmount(it models.LineItem) float64 {
	if it.ItemType == models.ItemTypeHourly {
		return (num(it.Hours) + num(it.Minutes)/60) * num(it.Price)
	}
	return num(it.Quantity) * num(it.Price)
}

// ItemTax computes the tax for one line item against its own pre-discount
// amount. A missing or unresolved tax id yields zero.
func ItemTax(it models.LineItem, rates Rates) float64 {
	if it.TaxID == "" {
		return 0
	}
	r, ok := rates[it.TaxID]
	if !ok {
		return 0
	}
	return ItemAmount(it) * num(r.Rate) / 100
}

// Compute aggregates subtotal, discount, tax and total for a set of items.
// A fixed discount is clamped to the subtotal so the total can never go
// negative; tax is applied per line on pre-discount amounts.
func Compute(items []models.LineItem, discount float64, discountType string, rates Rates) Totals {
	var t Totals
	for _, it := range items {
		t.Subtotal += ItemAmount(it)
		t.TotalTax += ItemTax(it, rates)
	}
	switch discountType {
	case models.DiscountPercentage:
		t.DiscountAmount = t.Subtotal * num(discount) / 100
	case models.DiscountFixed:
		t.DiscountAmount = math.Min(num(discount), t.Subtotal)
	}
	t.Total = t.Subtotal - t.DiscountAmount + t.TotalTax
	return t
}

// ComputeInvoice is Compute over a full invoice record.
func ComputeInvoice(inv models.Invoice, rates Rates) Totals {
	return Compute(inv.Items, inv.Discount, inv.DiscountType, rates)
}

// Breakdown groups tax amounts by rate label, summing contributions from
// every line item that references the same rate and preserving the order
// in which rates are first seen across the item list.
func Breakdown(items []models.LineItem, rates Rates) []BreakdownEntry {
	var out []BreakdownEntry
	index := make(map[string]int)
	for _, it := range items {
		tax := ItemTax(it, rates)
		if tax == 0 {
			continue
		}
		r := rates[it.TaxID]
		label := r.Name + " (" + strconv.FormatFloat(r.Rate, 'f', -1, 64) + "%)"
		if i, ok := index[label]; ok {
			out[i].Amount += tax
			continue
		}
		index[label] = len(out)
		out = append(out, BreakdownEntry{Label: label, Amount: tax})
	}
	return out
}

// num coerces invalid numeric input to zero so the engine never errors.
func num(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
