// Package decision defines field-level decision outcomes and the overall
// submission verdict. Business-rule failures are data, not errors: every
// field always produces exactly one decision.
package decision

// Level is the severity of a single field decision.
type Level string

const (
	// Pass indicates the submitted value is acceptable as-is.
	Pass Level = "pass"
	// Warning indicates the value is accepted but flagged for review.
	Warning Level = "warning"
	// HardStop indicates the value must be corrected before submission.
	HardStop Level = "hard_stop"
)

// severity orders levels for aggregation: hard_stop > warning > pass.
func (l Level) severity() int {
	switch l {
	case HardStop:
		return 2
	case Warning:
		return 1
	default:
		return 0
	}
}

// Verdict is the aggregated outcome across all field decisions.
type Verdict string

const (
	// Ready means the submission qualifies for automatic approval.
	Ready Verdict = "ready"
	// PendingReview means the submission is accepted with warnings and
	// waits for head-office review.
	PendingReview Verdict = "warnings_pending_review"
	// RequiresCorrection means at least one field must be fixed first.
	RequiresCorrection Verdict = "requires_correction"
)

// Aggregate reduces field levels to a verdict by maximum severity.
func Aggregate(levels ...Level) Verdict {
	worst := Pass
	for _, l := range levels {
		if l.severity() > worst.severity() {
			worst = l
		}
	}
	switch worst {
	case HardStop:
		return RequiresCorrection
	case Warning:
		return PendingReview
	default:
		return Ready
	}
}

// Band is a price band around the reference median.
type Band struct {
	median float64
	lower  float64
	upper  float64
}

// NewBand creates a price band.
func NewBand(median, lower, upper float64) Band {
	return Band{median: median, lower: lower, upper: upper}
}

// Median returns the reference median price.
func (b Band) Median() float64 { return b.median }

// Lower returns the lower bound of the band.
func (b Band) Lower() float64 { return b.lower }

// Upper returns the upper bound of the band.
func (b Band) Upper() float64 { return b.upper }

// Field is one field-level decision. Predicted value, confidence and price
// band are optional: absent when the neighbour set gave no signal.
type Field struct {
	level         Level
	message       string
	predicted     string
	hasPredicted  bool
	confidence    float64
	hasConfidence bool
	band          Band
	hasBand       bool
}

// NewField creates a field decision with no prediction attached.
func NewField(level Level, message string) Field {
	return Field{level: level, message: message}
}

// WithPrediction returns a copy carrying the inferred value and its confidence.
func (f Field) WithPrediction(predicted string, confidence float64) Field {
	f.predicted = predicted
	f.hasPredicted = true
	f.confidence = confidence
	f.hasConfidence = true
	return f
}

// WithBand returns a copy carrying the inferred price band.
func (f Field) WithBand(b Band) Field {
	f.band = b
	f.hasBand = true
	return f
}

// Level returns the decision level.
func (f Field) Level() Level { return f.level }

// Message returns the human-readable explanation of the decision.
func (f Field) Message() string { return f.message }

// Predicted returns the inferred value and whether one exists.
func (f Field) Predicted() (string, bool) { return f.predicted, f.hasPredicted }

// Confidence returns the inference confidence in [0,1] and whether it is defined.
func (f Field) Confidence() (float64, bool) { return f.confidence, f.hasConfidence }

// Band returns the inferred price band and whether one exists.
func (f Field) Band() (Band, bool) { return f.band, f.hasBand }
