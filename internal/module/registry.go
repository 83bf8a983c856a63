package module

import (
	"fmt"

	"github.com/qaforge/reqtrace/internal/catalog"
)

// Descriptor declares one test module: its name, the category it belongs
// to, the requirement IDs it claims responsibility for, and whether it is
// enabled. Immutable for the duration of a run.
type Descriptor struct {
	Name         string   `yaml:"name" json:"name"`
	Category     string   `yaml:"category" json:"category"`
	Requirements []string `yaml:"requirements" json:"requirements"`
	Enabled      bool     `yaml:"enabled" json:"enabled"`
}

// Registry holds module descriptors in registration order and validates
// them against the requirement catalog at registration time.
//
// The registry is an explicit value injected into the engine's
// constructor. There is no package-level singleton: hidden shared state is
// exactly what this design replaces.
type Registry struct {
	catalog     *catalog.Catalog
	descriptors []Descriptor
	byName      map[string]int
}

// NewRegistry creates an empty registry bound to a catalog.
func NewRegistry(cat *catalog.Catalog) *Registry {
	return &Registry{
		catalog: cat,
		byName:  make(map[string]int),
	}
}

// Register adds a descriptor to the registry.
//
// Fails fast on configuration integrity problems: empty names, duplicate
// names, empty categories, and requirement IDs absent from the catalog. A
// descriptor that registers successfully is guaranteed internally
// consistent for the rest of the run.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("register module: name is required")
	}
	if d.Category == "" {
		return fmt.Errorf("register module %q: category is required", d.Name)
	}
	if _, exists := r.byName[d.Name]; exists {
		return fmt.Errorf("register module %q: already registered", d.Name)
	}
	for _, id := range d.Requirements {
		if !r.catalog.Has(id) {
			return fmt.Errorf("register module %q: requirement %q is not in the catalog", d.Name, id)
		}
	}

	// Copy the requirement slice so later caller mutation cannot reach
	// the registered descriptor.
	reqs := make([]string, len(d.Requirements))
	copy(reqs, d.Requirements)
	d.Requirements = reqs

	r.byName[d.Name] = len(r.descriptors)
	r.descriptors = append(r.descriptors, d)
	return nil
}

// List returns descriptors in registration order.
// With enabledOnly set, disabled descriptors are filtered out.
func (r *Registry) List(enabledOnly bool) []Descriptor {
	out := make([]Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		if enabledOnly && !d.Enabled {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	return len(r.descriptors)
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return r.descriptors[i], true
}
