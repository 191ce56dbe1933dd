package submission

import (
	"time"

	domcat "github.com/kailas-cloud/listcheck/internal/domain/catalog"
	"github.com/kailas-cloud/listcheck/internal/domain/decision"
	domsub "github.com/kailas-cloud/listcheck/internal/domain/submission"
	domval "github.com/kailas-cloud/listcheck/internal/domain/validation"
)

// Storage representation of a submission. The JSON shape is the review
// payload head office consumes, so field names stay snake_case.
type submissionDTO struct {
	ID              int64         `json:"id"`
	Timestamp       time.Time     `json:"timestamp"`
	Product         productDTO    `json:"product"`
	Validation      validationDTO `json:"validation"`
	AcceptedChanges []string      `json:"accepted_changes,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	Status          string        `json:"status"`
	Flagged         bool          `json:"flagged"`
	DenialReason    string        `json:"denial_reason,omitempty"`
	Explanation     string        `json:"explanation,omitempty"`
}

type productDTO struct {
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	AgeFlag     string  `json:"age_flag"`
}

type validationDTO struct {
	Category        fieldDTO       `json:"category"`
	Price           fieldDTO       `json:"price"`
	AgeVerification fieldDTO       `json:"age_verification"`
	Overall         string         `json:"overall"`
	Neighbours      []neighbourDTO `json:"neighbours,omitempty"`
}

type fieldDTO struct {
	Decision   string   `json:"decision"`
	Message    string   `json:"message"`
	Predicted  *string  `json:"predicted,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Median     *float64 `json:"median,omitempty"`
	Lower      *float64 `json:"lower,omitempty"`
	Upper      *float64 `json:"upper,omitempty"`
}

type neighbourDTO struct {
	ProductName             string   `json:"product_name"`
	Category                string   `json:"category"`
	Price                   *float64 `json:"price,omitempty"`
	AgeVerificationRequired *bool    `json:"age_verification_required,omitempty"`
	Similarity              float64  `json:"similarity"`
}

func toDTO(s domsub.Submission) submissionDTO {
	return submissionDTO{
		ID:              s.ID(),
		Timestamp:       s.CreatedAt().UTC(),
		Product:         productToDTO(s.Product()),
		Validation:      resultToDTO(s.Result()),
		AcceptedChanges: s.AcceptedChanges(),
		Notes:           s.Notes(),
		Status:          string(s.Status()),
		Flagged:         s.Flagged(),
		DenialReason:    s.DenialReason(),
		Explanation:     s.Explanation(),
	}
}

func fromDTO(d submissionDTO) domsub.Submission {
	return domsub.Reconstruct(
		d.ID,
		domval.NewInput(d.Product.ProductName, d.Product.Category, d.Product.Price, d.Product.AgeFlag),
		resultFromDTO(d.Validation),
		d.Notes,
		d.AcceptedChanges,
		d.Flagged,
		d.Explanation,
		domsub.Status(d.Status),
		d.DenialReason,
		d.Timestamp,
	)
}

func productToDTO(in domval.Input) productDTO {
	return productDTO{
		ProductName: in.Name(),
		Category:    in.Category(),
		Price:       in.Price(),
		AgeFlag:     in.AgeFlag(),
	}
}

func resultToDTO(r domval.Result) validationDTO {
	neighbours := make([]neighbourDTO, 0, len(r.Neighbours()))
	for _, n := range r.Neighbours() {
		nd := neighbourDTO{
			ProductName: n.Entry().Name(),
			Category:    n.Entry().Category(),
			Similarity:  n.Similarity(),
		}
		if p, ok := n.Entry().Price(); ok {
			nd.Price = &p
		}
		if required, ok := n.Entry().AgeVerification(); ok {
			nd.AgeVerificationRequired = &required
		}
		neighbours = append(neighbours, nd)
	}

	return validationDTO{
		Category:        fieldToDTO(r.Category()),
		Price:           fieldToDTO(r.Price()),
		AgeVerification: fieldToDTO(r.AgeVerification()),
		Overall:         string(r.Verdict()),
		Neighbours:      neighbours,
	}
}

func resultFromDTO(d validationDTO) domval.Result {
	neighbours := make([]domval.Neighbour, 0, len(d.Neighbours))
	for _, nd := range d.Neighbours {
		entry := domcat.New(nd.ProductName, nd.Category)
		if nd.Price != nil {
			entry = entry.WithPrice(*nd.Price)
		}
		if nd.AgeVerificationRequired != nil {
			entry = entry.WithAgeVerification(*nd.AgeVerificationRequired)
		}
		neighbours = append(neighbours, domval.NewNeighbour(entry, nd.Similarity))
	}

	return domval.NewResult(
		fieldFromDTO(d.Category),
		fieldFromDTO(d.Price),
		fieldFromDTO(d.AgeVerification),
		decision.Verdict(d.Overall),
		neighbours,
	)
}

func fieldToDTO(f decision.Field) fieldDTO {
	d := fieldDTO{
		Decision: string(f.Level()),
		Message:  f.Message(),
	}
	if predicted, ok := f.Predicted(); ok {
		d.Predicted = &predicted
	}
	if confidence, ok := f.Confidence(); ok {
		d.Confidence = &confidence
	}
	if band, ok := f.Band(); ok {
		median, lower, upper := band.Median(), band.Lower(), band.Upper()
		d.Median, d.Lower, d.Upper = &median, &lower, &upper
	}
	return d
}

func fieldFromDTO(d fieldDTO) decision.Field {
	f := decision.NewField(decision.Level(d.Decision), d.Message)
	if d.Predicted != nil && d.Confidence != nil {
		f = f.WithPrediction(*d.Predicted, *d.Confidence)
	}
	if d.Median != nil && d.Lower != nil && d.Upper != nil {
		f = f.WithBand(decision.NewBand(*d.Median, *d.Lower, *d.Upper))
	}
	return f
}
