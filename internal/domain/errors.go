package domain

import "errors"

var (
	// ErrCatalogData signals that the reference catalog could not be loaded
	// or is unusable. Fatal to the engine: the service must not start serving.
	ErrCatalogData = errors.New("catalog data unavailable")
	// ErrInvalidInput signals a structurally invalid submission value,
	// e.g. a non-finite price. Malformed-but-typed fields are not errors;
	// they degrade to ordinary decision outcomes.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSubmissionNotFound signals a missing submission.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrExplainerUnavailable signals an explanation provider failure.
	// Explanation failures never affect validation outcomes.
	ErrExplainerUnavailable = errors.New("explainer unavailable")
)
