// Package validation defines the input and output of one validation call.
package validation

import (
	"github.com/kailas-cloud/listcheck/internal/domain/catalog"
	"github.com/kailas-cloud/listcheck/internal/domain/decision"
)

// Input is one store-submitted product listing.
type Input struct {
	name     string
	category string
	price    float64
	ageFlag  string
}

// NewInput creates a validation input. Empty or malformed fields are allowed;
// they degrade to "no match, accepted" outcomes rather than failing.
func NewInput(name, category string, price float64, ageFlag string) Input {
	return Input{name: name, category: category, price: price, ageFlag: ageFlag}
}

// Name returns the submitted product name.
func (in Input) Name() string { return in.name }

// Category returns the submitted category.
func (in Input) Category() string { return in.category }

// Price returns the submitted price.
func (in Input) Price() float64 { return in.price }

// AgeFlag returns the submitted age-verification setting ("Yes"/"No" in any casing).
func (in Input) AgeFlag() string { return in.ageFlag }

// Neighbour is one catalog entry similar to the submitted name.
type Neighbour struct {
	entry      catalog.Entry
	similarity float64
}

// NewNeighbour creates a neighbour with its cosine similarity in [0,1].
func NewNeighbour(entry catalog.Entry, similarity float64) Neighbour {
	return Neighbour{entry: entry, similarity: similarity}
}

// Entry returns the catalog entry.
func (n Neighbour) Entry() catalog.Entry { return n.entry }

// Similarity returns the similarity score.
func (n Neighbour) Similarity() float64 { return n.similarity }

// Result is the terminal output of one validation call. Ownership passes to
// the caller; the engine keeps nothing.
type Result struct {
	category   decision.Field
	price      decision.Field
	age        decision.Field
	verdict    decision.Verdict
	neighbours []Neighbour
}

// NewResult assembles a validation result.
func NewResult(
	category, price, age decision.Field,
	verdict decision.Verdict,
	neighbours []Neighbour,
) Result {
	return Result{
		category:   category,
		price:      price,
		age:        age,
		verdict:    verdict,
		neighbours: neighbours,
	}
}

// Category returns the category field decision.
func (r Result) Category() decision.Field { return r.category }

// Price returns the price field decision.
func (r Result) Price() decision.Field { return r.price }

// AgeVerification returns the age-verification field decision.
func (r Result) AgeVerification() decision.Field { return r.age }

// Verdict returns the aggregated overall verdict.
func (r Result) Verdict() decision.Verdict { return r.verdict }

// Neighbours returns the retrieved neighbour set, descending similarity.
func (r Result) Neighbours() []Neighbour { return r.neighbours }
