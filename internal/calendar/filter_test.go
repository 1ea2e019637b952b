package calendar

import "testing"

func boolPtr(b bool) *bool       { return &b }
func floatPtr(v float64) *float64 { return &v }

func TestFilterIsZero(t *testing.T) {
	if !(Filter{}).IsZero() {
		t.Error("empty filter should be zero")
	}
	if (Filter{Types: []string{"expense"}}).IsZero() {
		t.Error("filter with types should not be zero")
	}
	if (Filter{TaxDeductible: boolPtr(false)}).IsZero() {
		t.Error("tri-state false is still a criterion")
	}
}

func TestFilterTypes(t *testing.T) {
	f := Filter{Types: []string{TypeExpense, TypeWork}}
	if !f.Matches(Event{Type: TypeExpense}, Lookups{}) {
		t.Error("expense should match")
	}
	if f.Matches(Event{Type: TypeMeeting}, Lookups{}) {
		t.Error("meeting should not match")
	}
}

func TestFilterCategorySubstringCaseInsensitive(t *testing.T) {
	f := Filter{Categories: []string{"SOFT"}}
	if !f.Matches(Event{Type: TypeExpense, Category: "software"}, Lookups{}) {
		t.Error("substring match should be case-insensitive")
	}
	if f.Matches(Event{Type: TypeExpense, Category: "office"}, Lookups{}) {
		t.Error("office should not match SOFT")
	}
}

func TestFilterAbsencePasses(t *testing.T) {
	lk := lookupFixture()
	f := Filter{
		Categories:     []string{"software"},
		Clients:        []string{"c1"},
		PaymentMethods: []string{"bank"},
		TaxDeductible:  boolPtr(true),
	}
	// A meeting has no category, client, payment method or deductible
	// flag; none of those criteria may exclude it.
	if !f.Matches(Event{Type: TypeMeeting, Title: "Standup"}, lk) {
		t.Error("event without the targeted fields must pass")
	}
}

func TestFilterClientResolvesThroughLookup(t *testing.T) {
	lk := lookupFixture()
	f := Filter{Clients: []string{"c1"}}
	if !f.Matches(Event{Type: TypeExpense, Client: "Acme Corp"}, lk) {
		t.Error("stored id should resolve to the event's label")
	}
	if f.Matches(Event{Type: TypeExpense, Client: "Beta LLC"}, lk) {
		t.Error("other client should not match")
	}
}

func TestFilterPaymentMethod(t *testing.T) {
	lk := lookupFixture()
	f := Filter{PaymentMethods: []string{"bank"}}
	if !f.Matches(Event{Type: TypeExpense, PaymentMethod: "Bank Transfer"}, lk) {
		t.Error("bank should match via lookup")
	}
	if f.Matches(Event{Type: TypeExpense, PaymentMethod: "Cash"}, lk) {
		t.Error("cash should not match")
	}
}

func TestFilterTaxDeductibleTriState(t *testing.T) {
	f := Filter{TaxDeductible: boolPtr(true)}
	if !f.Matches(Event{Type: TypeExpense, TaxDeductible: boolPtr(true)}, Lookups{}) {
		t.Error("deductible should match")
	}
	if f.Matches(Event{Type: TypeExpense, TaxDeductible: boolPtr(false)}, Lookups{}) {
		t.Error("non-deductible should not match")
	}

	f = Filter{TaxDeductible: boolPtr(false)}
	if !f.Matches(Event{Type: TypeExpense, TaxDeductible: boolPtr(false)}, Lookups{}) {
		t.Error("explicit false should match non-deductible")
	}
}

func TestFilterCriteriaAreANDed(t *testing.T) {
	f := Filter{Types: []string{TypeExpense}, Categories: []string{"software"}}
	if f.Matches(Event{Type: TypeExpense, Category: "office"}, Lookups{}) {
		t.Error("matching type but failing category must exclude")
	}
	if !f.Matches(Event{Type: TypeExpense, Category: "software"}, Lookups{}) {
		t.Error("both criteria matching must include")
	}
}

func TestApplyPreservesOrder(t *testing.T) {
	events := []Event{
		{ID: "a", Type: TypeExpense},
		{ID: "b", Type: TypeWork},
		{ID: "c", Type: TypeExpense},
	}
	out := Filter{Types: []string{TypeExpense}}.Apply(events, Lookups{})
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "c" {
		t.Errorf("filtered order = %+v", out)
	}
}

func TestApplyZeroFilterReturnsInput(t *testing.T) {
	events := []Event{{ID: "a"}, {ID: "b"}}
	out := (Filter{}).Apply(events, Lookups{})
	if len(out) != 2 {
		t.Errorf("zero filter should keep everything, got %d", len(out))
	}
}
