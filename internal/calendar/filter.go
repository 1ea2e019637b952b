package calendar

import "strings"

// Filter is the compound visibility filter. Criteria are ANDed; within a
// criterion membership is ORed. Clients and PaymentMethods hold stored
// ids; events carry resolved labels, so matching goes through Lookups.
type Filter struct {
	Types          []string `json:"types,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	Clients        []string `json:"clients,omitempty"`
	PaymentMethods []string `json:"paymentMethods,omitempty"`
	TaxDeductible  *bool    `json:"taxDeductible,omitempty"`
}

// IsZero reports whether the filter excludes nothing.
func (f Filter) IsZero() bool {
	return len(f.Types) == 0 && len(f.Categories) == 0 && len(f.Clients) == 0 &&
		len(f.PaymentMethods) == 0 && f.TaxDeductible == nil
}

// Matches decides whether an event is visible under the filter.
// An event missing a field a criterion targets is not excluded by that
// criterion: absence is not a mismatch. Evaluation short-circuits on the
// first failing criterion and costs O(selected values) per event.
func (f Filter) Matches(ev Event, lk Lookups) bool {
	if len(f.Types) > 0 && !containsString(f.Types, ev.Type) {
		return false
	}

	if len(f.Categories) > 0 && ev.Category != "" {
		cat := strings.ToLower(ev.Category)
		matched := false
		for _, sel := range f.Categories {
			if strings.Contains(cat, strings.ToLower(sel)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Clients) > 0 && ev.Client != "" {
		matched := false
		for _, id := range f.Clients {
			if lk.clientLabel(id) == ev.Client {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.PaymentMethods) > 0 && ev.PaymentMethod != "" {
		matched := false
		for _, id := range f.PaymentMethods {
			if lk.paymentName(id) == ev.PaymentMethod {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.TaxDeductible != nil && ev.TaxDeductible != nil && *ev.TaxDeductible != *f.TaxDeductible {
		return false
	}

	return true
}

// Apply returns the events visible under the filter, preserving order.
func (f Filter) Apply(events []Event, lk Lookups) []Event {
	if f.IsZero() {
		return events
	}
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if f.Matches(ev, lk) {
			out = append(out, ev)
		}
	}
	return out
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
