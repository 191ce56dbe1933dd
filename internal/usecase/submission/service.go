// Package submission handles storing and reviewing product submissions.
package submission

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	domsub "github.com/kailas-cloud/listcheck/internal/domain/submission"
	domval "github.com/kailas-cloud/listcheck/internal/domain/validation"
)

// Service coordinates the submission log and the optional explainer.
type Service struct {
	repo      Repository
	explainer Explainer
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a submission service. explainer may be nil to disable
// explanation generation entirely.
func New(repo Repository, explainer Explainer, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		explainer: explainer,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit stores a validated product submission. Flagged submissions go to
// the pending review queue; everything else is approved immediately.
//
// The explanation step is best-effort: a failing explainer is logged and
// swallowed, and the stored decisions are exactly what the engine produced.
func (s *Service) Submit(
	ctx context.Context,
	product domval.Input,
	result domval.Result,
	notes string,
	acceptedChanges []string,
	flagged bool,
) (domsub.Submission, error) {
	id, err := s.repo.NextID(ctx)
	if err != nil {
		return domsub.Submission{}, fmt.Errorf("allocate submission id: %w", err)
	}

	sub := domsub.New(id, product, result, notes, acceptedChanges, flagged, s.now().UTC())

	if s.explainer != nil {
		explanation, err := s.explainer.Explain(ctx, sub)
		if err != nil {
			s.logger.Warn("explanation generation failed",
				zap.Int64("submission_id", id),
				zap.Error(err),
			)
		} else {
			sub = sub.WithExplanation(explanation)
		}
	}

	if err := s.repo.Save(ctx, sub); err != nil {
		return domsub.Submission{}, err
	}
	return sub, nil
}

// List returns submissions grouped for the review screen: pending first
// queue and processed (approved or denied) second, both newest first.
func (s *Service) List(ctx context.Context) (pending, processed []domsub.Submission, err error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	for _, sub := range subs {
		if sub.Status() == domsub.Pending {
			pending = append(pending, sub)
		} else {
			processed = append(processed, sub)
		}
	}
	newestFirst(pending)
	newestFirst(processed)
	return pending, processed, nil
}

// Approve marks a submission approved.
func (s *Service) Approve(ctx context.Context, id int64) (domsub.Submission, error) {
	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return domsub.Submission{}, err
	}

	sub = sub.Approve()
	if err := s.repo.Save(ctx, sub); err != nil {
		return domsub.Submission{}, err
	}
	return sub, nil
}

// Deny marks a submission denied with an optional reason.
func (s *Service) Deny(ctx context.Context, id int64, reason string) (domsub.Submission, error) {
	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return domsub.Submission{}, err
	}

	sub = sub.Deny(reason)
	if err := s.repo.Save(ctx, sub); err != nil {
		return domsub.Submission{}, err
	}
	return sub, nil
}

func newestFirst(subs []domsub.Submission) {
	sort.SliceStable(subs, func(a, b int) bool {
		return subs[a].CreatedAt().After(subs[b].CreatedAt())
	})
}
