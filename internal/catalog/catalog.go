// Package catalog holds the fixed requirement catalog: an immutable mapping
// from dotted requirement IDs ("<category>.<index>") to human-readable
// descriptions, with a stable catalog order used by every downstream
// projection (gap scan, traceability matrix, CSV export).
package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// idPattern matches "<category>.<index>" where category is a lowercase
// identifier and index is a positive decimal number.
var idPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*\.[0-9]+$`)

// Catalog is the immutable requirement catalog for a run.
//
// Construction validates every ID and fixes the catalog order once:
// category lexicographic, then numeric index. All accessors return copies
// so callers cannot mutate the catalog after creation.
type Catalog struct {
	descriptions map[string]string
	order        []string
}

// ValidID reports whether id has the "<category>.<index>" form.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// SplitID splits a requirement ID into its category and numeric index.
// Returns an error if the ID is malformed.
func SplitID(id string) (category string, index int, err error) {
	if !ValidID(id) {
		return "", 0, fmt.Errorf("malformed requirement ID %q: want \"<category>.<index>\"", id)
	}
	dot := strings.LastIndex(id, ".")
	category = id[:dot]
	index, err = strconv.Atoi(id[dot+1:])
	if err != nil {
		return "", 0, fmt.Errorf("malformed requirement ID %q: %w", id, err)
	}
	return category, index, nil
}

// New builds a Catalog from a reqID → description mapping.
//
// Every ID must be well-formed and every description non-empty; the first
// offending entry (in sorted order, for determinism) is reported.
func New(requirements map[string]string) (*Catalog, error) {
	if len(requirements) == 0 {
		return nil, fmt.Errorf("catalog: no requirements defined")
	}

	ids := make([]string, 0, len(requirements))
	for id := range requirements {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	descriptions := make(map[string]string, len(requirements))
	for _, id := range ids {
		if !ValidID(id) {
			return nil, fmt.Errorf("catalog: malformed requirement ID %q: want \"<category>.<index>\"", id)
		}
		desc := requirements[id]
		if strings.TrimSpace(desc) == "" {
			return nil, fmt.Errorf("catalog: requirement %q has an empty description", id)
		}
		descriptions[id] = desc
	}

	order := make([]string, len(ids))
	copy(order, ids)
	sortCatalogOrder(order)

	return &Catalog{descriptions: descriptions, order: order}, nil
}

// sortCatalogOrder sorts IDs into catalog order: category lexicographic,
// then numeric index. Plain string sorting would put "sheet.10" before
// "sheet.2", so the index is compared numerically.
func sortCatalogOrder(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		ci, ni, _ := SplitID(ids[i])
		cj, nj, _ := SplitID(ids[j])
		if ci != cj {
			return ci < cj
		}
		return ni < nj
	})
}

// Len returns the number of requirements in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Has reports whether the catalog contains the given requirement ID.
func (c *Catalog) Has(id string) bool {
	_, ok := c.descriptions[id]
	return ok
}

// Description returns the description for a requirement ID.
// The second return is false if the ID is not in the catalog.
func (c *Catalog) Description(id string) (string, bool) {
	desc, ok := c.descriptions[id]
	return desc, ok
}

// IDs returns all requirement IDs in catalog order.
// The returned slice is a copy.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Categories returns the distinct categories in catalog order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range c.order {
		cat, _, _ := SplitID(id)
		if !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	return out
}
