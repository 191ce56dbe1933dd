// Package catalog holds the immutable head-office reference catalog.
package catalog

import "sort"

// UnknownCategory is the sentinel assigned to entries without a category.
const UnknownCategory = "Unknown"

// Entry is one reference product. Price and age-verification flag are
// tri-state: absent values stay absent rather than defaulting to zero values.
type Entry struct {
	name        string
	category    string
	price       float64
	hasPrice    bool
	ageRequired bool
	hasAgeFlag  bool
}

// New creates a catalog entry. An empty category is replaced with
// UnknownCategory; an empty name is kept as-is (it vectorises to nothing).
func New(name, category string) Entry {
	if category == "" {
		category = UnknownCategory
	}
	return Entry{name: name, category: category}
}

// WithPrice returns a copy of the entry with a known price.
func (e Entry) WithPrice(price float64) Entry {
	e.price = price
	e.hasPrice = true
	return e
}

// WithAgeVerification returns a copy of the entry with a known
// age-verification requirement.
func (e Entry) WithAgeVerification(required bool) Entry {
	e.ageRequired = required
	e.hasAgeFlag = true
	return e
}

// Name returns the product name.
func (e Entry) Name() string { return e.name }

// Category returns the product category.
func (e Entry) Category() string { return e.category }

// Price returns the reference price and whether it is known.
func (e Entry) Price() (float64, bool) { return e.price, e.hasPrice }

// AgeVerification returns the age-verification requirement and whether it is known.
func (e Entry) AgeVerification() (bool, bool) { return e.ageRequired, e.hasAgeFlag }

// Catalog is the ordered reference product set. Order carries no meaning,
// but indices are stable so retrieval results can point back at entries.
type Catalog []Entry

// Categories returns the sorted distinct categories present in the catalog.
func (c Catalog) Categories() []string {
	seen := make(map[string]struct{}, len(c))
	out := make([]string, 0, len(c))
	for _, e := range c {
		if _, ok := seen[e.Category()]; ok {
			continue
		}
		seen[e.Category()] = struct{}{}
		out = append(out, e.Category())
	}
	sort.Strings(out)
	return out
}
