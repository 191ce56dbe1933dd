package chi

import (
	"time"

	"github.com/kailas-cloud/listcheck/internal/domain/decision"
	domsub "github.com/kailas-cloud/listcheck/internal/domain/submission"
	domval "github.com/kailas-cloud/listcheck/internal/domain/validation"
)

type errorCode string

const (
	codeBadRequest         errorCode = "bad_request"
	codeValidationFailed   errorCode = "validation_failed"
	codeSubmissionNotFound errorCode = "submission_not_found"
	codeCatalogUnavailable errorCode = "catalog_unavailable"
	codeInternalError      errorCode = "internal_error"
	codeUnauthorized       errorCode = "unauthorized"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type productRequest struct {
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	AgeFlag     string  `json:"age_flag"`
}

type submitRequest struct {
	Product         productRequest `json:"product"`
	Notes           string         `json:"notes"`
	AcceptedChanges []string       `json:"accepted_changes"`
	Flagged         bool           `json:"flagged"`
}

type denyRequest struct {
	Reason string `json:"reason"`
}

type bandJSON struct {
	Median float64 `json:"median"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
}

type fieldJSON struct {
	Level      string    `json:"level"`
	Message    string    `json:"message"`
	Predicted  *string   `json:"predicted,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
	Band       *bandJSON `json:"band,omitempty"`
}

type neighbourJSON struct {
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Similarity  float64 `json:"similarity"`
}

type resultJSON struct {
	Category        fieldJSON       `json:"category"`
	Price           fieldJSON       `json:"price"`
	AgeVerification fieldJSON       `json:"age_verification"`
	Overall         string          `json:"overall"`
	Neighbours      []neighbourJSON `json:"neighbours"`
}

type productJSON struct {
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	AgeFlag     string  `json:"age_flag"`
}

type submissionJSON struct {
	ID              int64       `json:"id"`
	Timestamp       time.Time   `json:"timestamp"`
	Product         productJSON `json:"product"`
	Validation      resultJSON  `json:"validation"`
	Notes           string      `json:"notes,omitempty"`
	AcceptedChanges []string    `json:"accepted_changes,omitempty"`
	Status          string      `json:"status"`
	Flagged         bool        `json:"flagged"`
	DenialReason    string      `json:"denial_reason,omitempty"`
	Explanation     string      `json:"explanation,omitempty"`
}

type submissionListResponse struct {
	Pending   []submissionJSON `json:"pending"`
	Processed []submissionJSON `json:"processed"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

type healthResponse struct {
	Status      string            `json:"status"`
	Checks      map[string]string `json:"checks"`
	CatalogSize int               `json:"catalog_size"`
}

func fieldToJSON(f decision.Field) fieldJSON {
	out := fieldJSON{
		Level:   string(f.Level()),
		Message: f.Message(),
	}
	if predicted, ok := f.Predicted(); ok {
		out.Predicted = &predicted
	}
	if confidence, ok := f.Confidence(); ok {
		out.Confidence = &confidence
	}
	if band, ok := f.Band(); ok {
		out.Band = &bandJSON{
			Median: band.Median(),
			Lower:  band.Lower(),
			Upper:  band.Upper(),
		}
	}
	return out
}

func resultToJSON(r domval.Result) resultJSON {
	neighbours := make([]neighbourJSON, len(r.Neighbours()))
	for i, n := range r.Neighbours() {
		neighbours[i] = neighbourJSON{
			ProductName: n.Entry().Name(),
			Category:    n.Entry().Category(),
			Similarity:  n.Similarity(),
		}
	}
	return resultJSON{
		Category:        fieldToJSON(r.Category()),
		Price:           fieldToJSON(r.Price()),
		AgeVerification: fieldToJSON(r.AgeVerification()),
		Overall:         string(r.Verdict()),
		Neighbours:      neighbours,
	}
}

func submissionToJSON(sub domsub.Submission) submissionJSON {
	return submissionJSON{
		ID:        sub.ID(),
		Timestamp: sub.CreatedAt(),
		Product: productJSON{
			ProductName: sub.Product().Name(),
			Category:    sub.Product().Category(),
			Price:       sub.Product().Price(),
			AgeFlag:     sub.Product().AgeFlag(),
		},
		Validation:      resultToJSON(sub.Result()),
		Notes:           sub.Notes(),
		AcceptedChanges: sub.AcceptedChanges(),
		Status:          string(sub.Status()),
		Flagged:         sub.Flagged(),
		DenialReason:    sub.DenialReason(),
		Explanation:     sub.Explanation(),
	}
}

func submissionsToJSON(subs []domsub.Submission) []submissionJSON {
	out := make([]submissionJSON, len(subs))
	for i, sub := range subs {
		out[i] = submissionToJSON(sub)
	}
	return out
}
