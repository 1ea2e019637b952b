// Package testutil provides shared test helpers for setting up databases,
// registries and services.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/fehu/internal/ledger"
	"github.com/starford/fehu/internal/registry"
	"github.com/starford/fehu/internal/storage"
	"github.com/starford/fehu/internal/store"
)

// RegistryYAML is a minimal but complete registry document for tests.
const RegistryYAML = `entry_types:
  - id: expense
    label: Expense
    icon: receipt
    color: red
  - id: work
    label: Work Done
    icon: hammer
    color: green
  - id: time
    label: Tracked Time
    icon: clock
    color: blue
payment_methods:
  - id: bank
    name: Bank Transfer
    default: true
  - id: card
    name: Credit Card
categories:
  - general
  - software
  - office
defaults:
  category: general
  hourly_rate: 85
  kilometer_rate: 0.23
  year_min: 2020
  year_max: 2030
`

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "fehu-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestRegistry writes the fixture registry to a temp dir and loads it.
func TestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.yaml")
	if err := os.WriteFile(path, []byte(RegistryYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	reg, err := registry.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

// TestService wires a Service against a temp database, the fixture
// registry and a temp export directory.
func TestService(t *testing.T) *ledger.Service {
	t.Helper()
	exp, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return ledger.NewService(TestDB(t), TestRegistry(t), exp)
}

// FrozenService is a TestService whose clock always reports now.
func FrozenService(t *testing.T, now time.Time) *ledger.Service {
	t.Helper()
	svc := TestService(t)
	svc.NowFunc = func() time.Time { return now }
	return svc
}
