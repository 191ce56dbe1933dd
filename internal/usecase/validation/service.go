package validation

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listcheck/internal/domain"
	"github.com/kailas-cloud/listcheck/internal/domain/decision"
	domval "github.com/kailas-cloud/listcheck/internal/domain/validation"
	"github.com/kailas-cloud/listcheck/internal/metrics"
)

const defaultTopK = 15

// Service runs the validation engine: retrieve neighbours, infer per-field
// expectations, apply the decision rules and aggregate.
//
// The service is stateless apart from the immutable retriever; concurrent
// calls are fully independent.
type Service struct {
	retriever Retriever
	topK      int
	logger    *zap.Logger
}

// New creates a validation service.
func New(retriever Retriever, logger *zap.Logger) *Service {
	return &Service{retriever: retriever, topK: defaultTopK, logger: logger}
}

// WithTopK overrides the neighbour set size.
func (s *Service) WithTopK(k int) *Service {
	if k > 0 {
		s.topK = k
	}
	return s
}

// Validate runs one synchronous validation pass. It never fails on
// malformed field values; only structurally invalid input (a non-finite
// price) is rejected with domain.ErrInvalidInput.
func (s *Service) Validate(_ context.Context, in domval.Input) (domval.Result, error) {
	if math.IsNaN(in.Price()) || math.IsInf(in.Price(), 0) {
		return domval.Result{}, fmt.Errorf("%w: price is not a finite number", domain.ErrInvalidInput)
	}

	start := time.Now()

	neighbours := s.retriever.TopK(in.Name(), s.topK)

	catDecision := classifyCategory(in.Category(), inferCategory(neighbours))
	priceDecision := classifyPrice(in.Price(), inferPriceBand(neighbours))
	ageDecision := classifyAgeFlag(in.Name(), in.Category(), in.AgeFlag(), inferAgeFlag(neighbours))

	verdict := decision.Aggregate(catDecision.Level(), priceDecision.Level(), ageDecision.Level())

	metrics.ValidationsTotal.WithLabelValues(string(verdict)).Inc()
	metrics.ValidationDuration.Observe(time.Since(start).Seconds())

	s.logger.Debug("product validated",
		zap.String("name", in.Name()),
		zap.String("verdict", string(verdict)),
		zap.Int("neighbours", len(neighbours)),
	)

	return domval.NewResult(catDecision, priceDecision, ageDecision, verdict, neighbours), nil
}
