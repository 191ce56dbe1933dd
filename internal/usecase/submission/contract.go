package submission

import (
	"context"

	domsub "github.com/kailas-cloud/listcheck/internal/domain/submission"
)

// Repository defines the storage contract for the submission log.
type Repository interface {
	NextID(ctx context.Context) (int64, error)
	Save(ctx context.Context, sub domsub.Submission) error
	Get(ctx context.Context, id int64) (domsub.Submission, error)
	List(ctx context.Context) ([]domsub.Submission, error)
}

// Explainer turns a finished submission into a plain-language explanation.
// It only ever reads the validation snapshot; it can never change it.
type Explainer interface {
	Explain(ctx context.Context, sub domsub.Submission) (string, error)
}
