// Package registry serves the config-driven metadata the dashboard is
// built from: entry types, payment methods, expense categories, and app
// defaults. The backing YAML file can be edited at runtime; a watcher
// hot-reloads it so new entry types need no code change, only an entry.
package registry

import (
	"fmt"
	"os"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// EntryType describes one calendar entry type's visual treatment.
type EntryType struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Icon  string `yaml:"icon" json:"icon"`
	Color string `yaml:"color" json:"color"`
}

// PaymentMethod is a named payment method; at most one is the default.
type PaymentMethod struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Default bool   `yaml:"default" json:"default"`
}

// Defaults are the app-level defaults served to the client.
type Defaults struct {
	Category      string  `yaml:"category" json:"category"`
	HourlyRate    float64 `yaml:"hourly_rate" json:"hourlyRate"`
	KilometerRate float64 `yaml:"kilometer_rate" json:"kilometerRate"`
	YearMin       int     `yaml:"year_min" json:"yearMin"`
	YearMax       int     `yaml:"year_max" json:"yearMax"`
}

// File is the on-disk registry document.
type File struct {
	EntryTypes     []EntryType     `yaml:"entry_types"`
	PaymentMethods []PaymentMethod `yaml:"payment_methods"`
	Categories     []string        `yaml:"categories"`
	Defaults       Defaults        `yaml:"defaults"`
}

// Validate checks the registry document.
func (f *File) Validate() error {
	for i, et := range f.EntryTypes {
		if err := validation.ValidateStruct(&f.EntryTypes[i],
			validation.Field(&f.EntryTypes[i].Label, validation.Required),
		); err != nil {
			return fmt.Errorf("entry type %d: %w", i, err)
		}
		if et.ID == "" {
			return fmt.Errorf("entry type %d: id is required", i)
		}
	}
	for i, pm := range f.PaymentMethods {
		if pm.ID == "" || pm.Name == "" {
			return fmt.Errorf("payment method %d: id and name are required", i)
		}
	}
	if f.Defaults.YearMax != 0 && f.Defaults.YearMax < f.Defaults.YearMin {
		return fmt.Errorf("defaults: year_max before year_min")
	}
	return nil
}

// fallbackType is the visual treatment for unknown entry types.
var fallbackType = EntryType{ID: "note", Label: "Note", Icon: "sticky-note", Color: "gray"}

// Registry is a concurrency-safe snapshot of the registry file.
type Registry struct {
	path string

	mu   sync.RWMutex
	file File
}

// Load reads and validates the registry file at path.
func Load(path string) (*Registry, error) {
	r := &Registry{path: path}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the backing file, swapping the snapshot only when the
// new document parses and validates.
func (r *Registry) Reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("registry: read %s: %w", r.path, err)
	}
	var f File
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &f); err != nil {
		return fmt.Errorf("registry: parse %s: %w", r.path, err)
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("registry: validate %s: %w", r.path, err)
	}
	r.mu.Lock()
	r.file = f
	r.mu.Unlock()
	return nil
}

// Path returns the backing file path.
func (r *Registry) Path() string { return r.path }

// EntryTypes returns all configured entry types.
func (r *Registry) EntryTypes() []EntryType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]EntryType, len(r.file.EntryTypes))
	copy(out, r.file.EntryTypes)
	return out
}

// EntryType resolves a type id, falling back to the default treatment
// for unknown ids.
func (r *Registry) EntryType(id string) EntryType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, et := range r.file.EntryTypes {
		if et.ID == id {
			return et
		}
	}
	return fallbackType
}

// PaymentMethods returns all configured payment methods.
func (r *Registry) PaymentMethods() []PaymentMethod {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PaymentMethod, len(r.file.PaymentMethods))
	copy(out, r.file.PaymentMethods)
	return out
}

// PaymentMethodName resolves a method id to its display name; unknown
// ids resolve to themselves so events degrade gracefully.
func (r *Registry) PaymentMethodName(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, pm := range r.file.PaymentMethods {
		if pm.ID == id {
			return pm.Name
		}
	}
	return id
}

// DefaultPaymentMethod returns the configured default, or the first
// method when none is flagged.
func (r *Registry) DefaultPaymentMethod() (PaymentMethod, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, pm := range r.file.PaymentMethods {
		if pm.Default {
			return pm, true
		}
	}
	if len(r.file.PaymentMethods) > 0 {
		return r.file.PaymentMethods[0], true
	}
	return PaymentMethod{}, false
}

// Categories returns the configured expense categories.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.file.Categories))
	copy(out, r.file.Categories)
	return out
}

// AppDefaults returns the app-level defaults.
func (r *Registry) AppDefaults() Defaults {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.file.Defaults
}
