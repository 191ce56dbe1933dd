package validation

import (
	"math"
	"sort"

	"github.com/kailas-cloud/listcheck/internal/domain/decision"
	domval "github.com/kailas-cloud/listcheck/internal/domain/validation"
)

// categoryInference is the similarity-weighted category vote.
type categoryInference struct {
	predicted  string
	confidence float64
	ok         bool
}

// inferCategory groups neighbours by category, sums similarity per group and
// predicts the heaviest group. Confidence is that group's share of the total.
// An empty neighbour set, or one with no similarity mass at all, yields no
// prediction.
func inferCategory(neighbours []domval.Neighbour) categoryInference {
	sums := make(map[string]float64, len(neighbours))
	order := make([]string, 0, len(neighbours))
	var total float64
	for _, n := range neighbours {
		cat := n.Entry().Category()
		if _, ok := sums[cat]; !ok {
			order = append(order, cat)
		}
		sums[cat] += n.Similarity()
		total += n.Similarity()
	}
	if total == 0 {
		return categoryInference{}
	}

	// Ties resolve to the group first seen in the neighbour ranking.
	best := order[0]
	for _, cat := range order[1:] {
		if sums[cat] > sums[best] {
			best = cat
		}
	}
	return categoryInference{
		predicted:  best,
		confidence: sums[best] / total,
		ok:         true,
	}
}

// priceInference is the reference price band around the neighbour median.
type priceInference struct {
	band decision.Band
	ok   bool
}

// inferPriceBand takes the median of known neighbour prices and places a
// +/-25% band around it. No known prices means no band.
func inferPriceBand(neighbours []domval.Neighbour) priceInference {
	prices := make([]float64, 0, len(neighbours))
	for _, n := range neighbours {
		if p, ok := n.Entry().Price(); ok {
			prices = append(prices, p)
		}
	}
	if len(prices) == 0 {
		return priceInference{}
	}

	sort.Float64s(prices)
	mid := len(prices) / 2
	median := prices[mid]
	if len(prices)%2 == 0 {
		median = (prices[mid-1] + prices[mid]) / 2
	}
	return priceInference{
		band: decision.NewBand(median, median*(1-priceBandPct), median*(1+priceBandPct)),
		ok:   true,
	}
}

// ageInference is the majority vote over known age-verification flags.
type ageInference struct {
	predicted  string
	confidence float64
	ok         bool
}

// inferAgeFlag computes the fraction of neighbours requiring verification.
// Confidence is 0 at a 50/50 split and 1 when unanimous.
func inferAgeFlag(neighbours []domval.Neighbour) ageInference {
	var known, yes int
	for _, n := range neighbours {
		if required, ok := n.Entry().AgeVerification(); ok {
			known++
			if required {
				yes++
			}
		}
	}
	if known == 0 {
		return ageInference{}
	}

	yesRatio := float64(yes) / float64(known)
	predicted := "No"
	if yesRatio >= 0.5 {
		predicted = "Yes"
	}
	return ageInference{
		predicted:  predicted,
		confidence: math.Abs(yesRatio-0.5) * 2,
		ok:         true,
	}
}
