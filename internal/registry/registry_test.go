package registry

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `entry_types:
  - id: expense
    label: Expense
    icon: receipt
    color: red
payment_methods:
  - id: bank
    name: Bank Transfer
    default: true
  - id: cash
    name: Cash
categories:
  - general
  - software
defaults:
  category: general
  hourly_rate: 85
  kilometer_rate: 0.23
  year_min: 2020
  year_max: 2030
`

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	r, err := Load(writeRegistry(t, validYAML))
	if err != nil {
		t.Fatal(err)
	}
	if len(r.EntryTypes()) != 1 {
		t.Errorf("entry types = %d", len(r.EntryTypes()))
	}
	if got := r.PaymentMethodName("bank"); got != "Bank Transfer" {
		t.Errorf("payment name = %q", got)
	}
	if got := r.AppDefaults().HourlyRate; got != 85 {
		t.Errorf("hourly rate = %v", got)
	}
	if cats := r.Categories(); len(cats) != 2 || cats[0] != "general" {
		t.Errorf("categories = %v", cats)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidDocument(t *testing.T) {
	if _, err := Load(writeRegistry(t, "entry_types:\n  - id: x\n    label: \"\"\n")); err == nil {
		t.Fatal("entry type without label should fail validation")
	}
}

func TestEntryTypeFallback(t *testing.T) {
	r, err := Load(writeRegistry(t, validYAML))
	if err != nil {
		t.Fatal(err)
	}
	if got := r.EntryType("expense"); got.Label != "Expense" {
		t.Errorf("known type = %+v", got)
	}
	got := r.EntryType("surprise")
	if got.ID != "note" || got.Color != "gray" {
		t.Errorf("fallback = %+v", got)
	}
}

func TestPaymentMethodNameUnknownID(t *testing.T) {
	r, err := Load(writeRegistry(t, validYAML))
	if err != nil {
		t.Fatal(err)
	}
	if got := r.PaymentMethodName("sepa"); got != "sepa" {
		t.Errorf("unknown id should resolve to itself, got %q", got)
	}
}

func TestDefaultPaymentMethod(t *testing.T) {
	r, err := Load(writeRegistry(t, validYAML))
	if err != nil {
		t.Fatal(err)
	}
	pm, ok := r.DefaultPaymentMethod()
	if !ok || pm.ID != "bank" {
		t.Errorf("default = %+v, ok=%v", pm, ok)
	}
}

func TestDefaultPaymentMethodFirstWhenNoneFlagged(t *testing.T) {
	yaml := `payment_methods:
  - id: cash
    name: Cash
  - id: card
    name: Card
`
	r, err := Load(writeRegistry(t, yaml))
	if err != nil {
		t.Fatal(err)
	}
	pm, ok := r.DefaultPaymentMethod()
	if !ok || pm.ID != "cash" {
		t.Errorf("default = %+v, ok=%v", pm, ok)
	}
}

func TestReloadKeepsSnapshotOnInvalidEdit(t *testing.T) {
	path := writeRegistry(t, validYAML)
	r, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("payment_methods:\n  - id: broken\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(); err == nil {
		t.Fatal("invalid document should fail reload")
	}
	// The previous snapshot must survive the failed reload.
	if got := r.PaymentMethodName("bank"); got != "Bank Transfer" {
		t.Errorf("snapshot lost after failed reload: %q", got)
	}
}

func TestReloadSwapsOnValidEdit(t *testing.T) {
	path := writeRegistry(t, validYAML)
	r, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	updated := `payment_methods:
  - id: bank
    name: Wire
`
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(); err != nil {
		t.Fatal(err)
	}
	if got := r.PaymentMethodName("bank"); got != "Wire" {
		t.Errorf("reload did not apply: %q", got)
	}
}

func TestValidateYearRange(t *testing.T) {
	f := File{Defaults: Defaults{YearMin: 2030, YearMax: 2020}}
	if err := f.Validate(); err == nil {
		t.Fatal("inverted year range should fail")
	}
}
