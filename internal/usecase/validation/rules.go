package validation

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/listcheck/internal/domain/decision"
)

// Fixed policy constants. Confidence at or above strongConfidence only
// changes the wording of a mismatch, never its level.
const (
	strongConfidence = 0.70
	priceBandPct     = 0.25
	priceOutlierPct  = 0.50
)

// alcoholKeywords force age verification regardless of what the neighbour
// statistics say. Tobacco and lottery terms can join this list later.
var alcoholKeywords = []string{
	"beer", "lager", "cider", "wine", "vodka", "rum", "gin",
	"whisky", "whiskey", "brandy", "alcopop",
}

// classifyCategory compares the submitted category with the inferred one.
// Category mismatches never hard-stop: the worst outcome is a review flag.
func classifyCategory(submitted string, inf categoryInference) decision.Field {
	if !inf.ok {
		return decision.NewField(decision.Pass,
			"No clear match found in the reference catalog; category accepted.")
	}

	if submitted == inf.predicted {
		return decision.NewField(decision.Pass,
			fmt.Sprintf("Category matches the typical head-office category %q.", inf.predicted),
		).WithPrediction(inf.predicted, inf.confidence)
	}

	if inf.confidence >= strongConfidence {
		return decision.NewField(decision.Warning,
			fmt.Sprintf(
				"Most similar head-office products are in category %q (confidence %.0f%%). Consider updating.",
				inf.predicted, inf.confidence*100),
		).WithPrediction(inf.predicted, inf.confidence)
	}

	return decision.NewField(decision.Warning,
		fmt.Sprintf(
			"Category differs from the common head-office category %q, but model confidence is moderate. Submission will be flagged for review.",
			inf.predicted),
	).WithPrediction(inf.predicted, inf.confidence)
}

// classifyPrice compares the submitted price against the neighbour band.
// Within 25% of the median passes, within 50% warns, beyond that hard-stops.
func classifyPrice(price float64, inf priceInference) decision.Field {
	if !inf.ok {
		return decision.NewField(decision.Pass,
			"No reference price band available; price accepted.")
	}

	if price <= 0 {
		return decision.NewField(decision.HardStop,
			"Price must be greater than zero.",
		).WithBand(inf.band)
	}

	median := inf.band.Median()
	var diffPct float64
	if median > 0 {
		diffPct = (price - median) / median
	}

	switch {
	case abs(diffPct) <= priceBandPct:
		return decision.NewField(decision.Pass,
			fmt.Sprintf("Price is within ±25%% of the typical head-office price (~£%.2f).", median),
		).WithBand(inf.band)
	case abs(diffPct) <= priceOutlierPct:
		return decision.NewField(decision.Warning,
			fmt.Sprintf(
				"Price is %.0f%% away from the typical head-office price (~£%.2f). Submission will be flagged for review.",
				diffPct*100, median),
		).WithBand(inf.band)
	default:
		return decision.NewField(decision.HardStop,
			fmt.Sprintf(
				"Price is an extreme outlier (%.0f%% from the typical ~£%.2f). Please check and correct before submitting.",
				diffPct*100, median),
		).WithBand(inf.band)
	}
}

// classifyAgeFlag checks the age-verification setting. The fixed policy layer
// runs first and always wins: an age-restricted product submitted with the
// flag off is a hard stop no matter what the inference says.
func classifyAgeFlag(name, category, submittedFlag string, inf ageInference) decision.Field {
	submitted := normalizeFlag(submittedFlag)

	if requiresAgeVerificationByPolicy(name, category) && submitted == "No" {
		return decision.NewField(decision.HardStop,
			"Product appears to be age-restricted by policy. Age verification must be set to 'Yes'.")
	}

	if !inf.ok {
		return decision.NewField(decision.Pass,
			"No clear age-check pattern in the reference catalog; value accepted.")
	}

	if submitted == inf.predicted {
		return decision.NewField(decision.Pass,
			fmt.Sprintf("Age verification setting matches the typical head-office pattern (%q).", inf.predicted),
		).WithPrediction(inf.predicted, inf.confidence)
	}

	if inf.confidence >= strongConfidence {
		return decision.NewField(decision.Warning,
			fmt.Sprintf(
				"Most similar head-office products use age verification %q. Submission will be flagged for review.",
				inf.predicted),
		).WithPrediction(inf.predicted, inf.confidence)
	}

	return decision.NewField(decision.Warning,
		"Age verification differs from many similar head-office products; submission will be flagged for review.",
	).WithPrediction(inf.predicted, inf.confidence)
}

// requiresAgeVerificationByPolicy reports whether the fixed policy list marks
// the product as age-restricted, by category substring or name keyword.
func requiresAgeVerificationByPolicy(name, category string) bool {
	if strings.Contains(strings.ToLower(category), "alcohol") {
		return true
	}
	nameLower := strings.ToLower(name)
	for _, w := range alcoholKeywords {
		if strings.Contains(nameLower, w) {
			return true
		}
	}
	return false
}

// normalizeFlag canonicalises an age-flag value to "Yes"/"No" title case,
// trimming whitespace and ignoring the submitted casing.
func normalizeFlag(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return "Yes"
	case "no":
		return "No"
	default:
		return strings.TrimSpace(s)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
