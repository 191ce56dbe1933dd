// Package submission holds the store-submission entity reviewed by head office.
package submission

import (
	"time"

	"github.com/kailas-cloud/listcheck/internal/domain/validation"
)

// Status is the review state of a submission.
type Status string

const (
	// Pending waits for a head-office reviewer.
	Pending Status = "pending"
	// Approved was accepted, automatically or by a reviewer.
	Approved Status = "approved"
	// Denied was rejected by a reviewer.
	Denied Status = "denied"
)

// Submission is one stored product submission with its validation snapshot.
// The snapshot is immutable once stored; review only changes the status.
type Submission struct {
	id              int64
	product         validation.Input
	result          validation.Result
	notes           string
	acceptedChanges []string
	flagged         bool
	explanation     string
	status          Status
	denialReason    string
	createdAt       time.Time
}

// New creates a submission. Flagged submissions start pending review;
// everything else is approved immediately.
func New(
	id int64,
	product validation.Input,
	result validation.Result,
	notes string,
	acceptedChanges []string,
	flagged bool,
	createdAt time.Time,
) Submission {
	status := Approved
	if flagged {
		status = Pending
	}
	return Submission{
		id:              id,
		product:         product,
		result:          result,
		notes:           notes,
		acceptedChanges: acceptedChanges,
		flagged:         flagged,
		status:          status,
		createdAt:       createdAt,
	}
}

// Reconstruct rebuilds a submission from storage without re-deriving status.
func Reconstruct(
	id int64,
	product validation.Input,
	result validation.Result,
	notes string,
	acceptedChanges []string,
	flagged bool,
	explanation string,
	status Status,
	denialReason string,
	createdAt time.Time,
) Submission {
	return Submission{
		id:              id,
		product:         product,
		result:          result,
		notes:           notes,
		acceptedChanges: acceptedChanges,
		flagged:         flagged,
		explanation:     explanation,
		status:          status,
		denialReason:    denialReason,
		createdAt:       createdAt,
	}
}

// WithExplanation returns a copy carrying a generated plain-language
// explanation. The explanation never alters the validation snapshot.
func (s Submission) WithExplanation(text string) Submission {
	s.explanation = text
	return s
}

// Approve returns a copy marked approved.
func (s Submission) Approve() Submission {
	s.status = Approved
	s.denialReason = ""
	return s
}

// Deny returns a copy marked denied with an optional reason.
func (s Submission) Deny(reason string) Submission {
	s.status = Denied
	s.denialReason = reason
	return s
}

// ID returns the monotonically assigned submission id.
func (s Submission) ID() int64 { return s.id }

// Product returns the submitted listing.
func (s Submission) Product() validation.Input { return s.product }

// Result returns the validation snapshot taken at submit time.
func (s Submission) Result() validation.Result { return s.result }

// Notes returns the free-text notes from the store.
func (s Submission) Notes() string { return s.notes }

// AcceptedChanges returns the suggested changes the store accepted in the portal.
func (s Submission) AcceptedChanges() []string { return s.acceptedChanges }

// Flagged reports whether the submission was flagged for manual review.
func (s Submission) Flagged() bool { return s.flagged }

// Explanation returns the generated explanation, empty when disabled or failed.
func (s Submission) Explanation() string { return s.explanation }

// Status returns the review status.
func (s Submission) Status() Status { return s.status }

// DenialReason returns the reviewer's reason for denial, if any.
func (s Submission) DenialReason() string { return s.denialReason }

// CreatedAt returns the submission timestamp.
func (s Submission) CreatedAt() time.Time { return s.createdAt }
