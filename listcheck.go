// Package listcheck validates retail product listings against a head-office
// catalog. The embeddable Client runs the same engine the HTTP service uses:
// nearest-neighbour retrieval over catalog product names plus per-field
// decision rules.
package listcheck

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	domcat "github.com/kailas-cloud/listcheck/internal/domain/catalog"
	"github.com/kailas-cloud/listcheck/internal/domain/decision"
	domval "github.com/kailas-cloud/listcheck/internal/domain/validation"
	"github.com/kailas-cloud/listcheck/internal/index"
	catalogrepo "github.com/kailas-cloud/listcheck/internal/repository/catalog"
	validationuc "github.com/kailas-cloud/listcheck/internal/usecase/validation"
)

// Level is a per-field decision level.
type Level string

// Decision levels, ordered by severity.
const (
	Pass     Level = "pass"
	Warning  Level = "warning"
	HardStop Level = "hard_stop"
)

// Verdict is the aggregated outcome over all field decisions.
type Verdict string

// Aggregated verdicts.
const (
	Ready              Verdict = "ready"
	PendingReview      Verdict = "warnings_pending_review"
	RequiresCorrection Verdict = "requires_correction"
)

// CatalogEntry is one product row in the head-office catalog. Price and
// AgeVerificationRequired are optional; nil means the catalog holds no
// value for that column.
type CatalogEntry struct {
	Name                    string
	Category                string
	Price                   *float64
	AgeVerificationRequired *bool
}

// Product is a listing to validate.
type Product struct {
	Name     string
	Category string
	Price    float64
	AgeFlag  string
}

// Band is the accepted price range derived from neighbour prices.
type Band struct {
	Median float64
	Lower  float64
	Upper  float64
}

// Field is the decision for a single product field.
type Field struct {
	Level      Level
	Message    string
	Predicted  *string
	Confidence *float64
	Band       *Band
}

// Neighbour is a catalog product similar to the submitted name.
type Neighbour struct {
	Name       string
	Category   string
	Similarity float64
}

// Result is a full validation outcome.
type Result struct {
	Category        Field
	Price           Field
	AgeVerification Field
	Overall         Verdict
	Neighbours      []Neighbour
}

// Client is the embeddable validation engine.
type Client struct {
	svc        *validationuc.Service
	categories []string
}

// New builds a Client over a catalog supplied via WithCatalogPath or
// WithCatalog. The similarity index is built once; the Client is safe for
// concurrent use.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}

	cat, err := resolveCatalog(cfg)
	if err != nil {
		return nil, err
	}

	model, err := index.Build(cat)
	if err != nil {
		return nil, fmt.Errorf("listcheck: build index: %w", err)
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	svc := validationuc.New(model, logger)
	if cfg.topK > 0 {
		svc = svc.WithTopK(cfg.topK)
	}

	return &Client{svc: svc, categories: cat.Categories()}, nil
}

func resolveCatalog(cfg *clientConfig) (domcat.Catalog, error) {
	switch {
	case cfg.catalogPath != "":
		cat, err := catalogrepo.Load(cfg.catalogPath)
		if err != nil {
			return nil, fmt.Errorf("listcheck: load catalog: %w", err)
		}
		return cat, nil
	case len(cfg.entries) > 0:
		cat := make(domcat.Catalog, 0, len(cfg.entries))
		for _, e := range cfg.entries {
			entry := domcat.New(e.Name, e.Category)
			if e.Price != nil {
				entry = entry.WithPrice(*e.Price)
			}
			if e.AgeVerificationRequired != nil {
				entry = entry.WithAgeVerification(*e.AgeVerificationRequired)
			}
			cat = append(cat, entry)
		}
		return cat, nil
	default:
		return nil, errors.New("listcheck: catalog required (use WithCatalogPath or WithCatalog)")
	}
}

// Validate runs the engine against one product.
func (c *Client) Validate(ctx context.Context, p Product) (Result, error) {
	res, err := c.svc.Validate(ctx, domval.NewInput(p.Name, p.Category, p.Price, p.AgeFlag))
	if err != nil {
		return Result{}, fmt.Errorf("listcheck: %w", err)
	}
	return resultFromDomain(res), nil
}

// Categories returns the sorted list of catalog categories.
func (c *Client) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

func resultFromDomain(res domval.Result) Result {
	neighbours := make([]Neighbour, len(res.Neighbours()))
	for i, n := range res.Neighbours() {
		neighbours[i] = Neighbour{
			Name:       n.Entry().Name(),
			Category:   n.Entry().Category(),
			Similarity: n.Similarity(),
		}
	}
	return Result{
		Category:        fieldFromDomain(res.Category()),
		Price:           fieldFromDomain(res.Price()),
		AgeVerification: fieldFromDomain(res.AgeVerification()),
		Overall:         Verdict(res.Verdict()),
		Neighbours:      neighbours,
	}
}

func fieldFromDomain(f decision.Field) Field {
	out := Field{
		Level:   Level(f.Level()),
		Message: f.Message(),
	}
	if predicted, ok := f.Predicted(); ok {
		out.Predicted = &predicted
	}
	if confidence, ok := f.Confidence(); ok {
		out.Confidence = &confidence
	}
	if band, ok := f.Band(); ok {
		out.Band = &Band{Median: band.Median(), Lower: band.Lower(), Upper: band.Upper()}
	}
	return out
}
