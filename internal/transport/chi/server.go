// Package chi implements the HTTP transport for the validation service.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/listcheck/internal/domain"
	domval "github.com/kailas-cloud/listcheck/internal/domain/validation"
	healthuc "github.com/kailas-cloud/listcheck/internal/usecase/health"
	submissionuc "github.com/kailas-cloud/listcheck/internal/usecase/submission"
	validationuc "github.com/kailas-cloud/listcheck/internal/usecase/validation"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the validation engine and the submission log over REST.
type Server struct {
	validator     *validationuc.Service
	submissions   *submissionuc.Service
	health        *healthuc.Service
	categories    []string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. categories is the sorted list of
// head-office categories served by GET /api/categories.
func NewServer(
	validator *validationuc.Service,
	submissions *submissionuc.Service,
	health *healthuc.Service,
	categories []string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		validator:   validator,
		submissions: submissions,
		health:      health,
		categories:  categories,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrSubmissionNotFound, http.StatusNotFound, codeSubmissionNotFound),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrCatalogData, http.StatusServiceUnavailable, codeCatalogUnavailable),
	}
	return s
}

// Routes registers all handlers on a router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.ListCategories)
		r.Post("/validate", s.ValidateProduct)
		r.Post("/submit", s.SubmitProduct)
		r.Get("/submissions", s.ListSubmissions)
		r.Post("/submissions/{id}/approve", s.ApproveSubmission)
		r.Post("/submissions/{id}/deny", s.DenySubmission)
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string)
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:      string(report.Status),
		Checks:      checks,
		CatalogSize: report.CatalogSize,
	})
}

// ListCategories handles GET /api/categories.
func (s *Server) ListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: s.categories})
}

// ValidateProduct handles POST /api/validate.
func (s *Server) ValidateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.validator.Validate(r.Context(), inputFromRequest(req))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultToJSON(result))
}

// SubmitProduct handles POST /api/submit. The product is validated again
// on the server before being stored, so the persisted decisions are always
// the engine's own rather than whatever the client last saw.
func (s *Server) SubmitProduct(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Product.ProductName == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Product name is required")
		return
	}

	input := inputFromRequest(req.Product)
	result, err := s.validator.Validate(r.Context(), input)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sub, err := s.submissions.Submit(r.Context(), input, result, req.Notes, req.AcceptedChanges, req.Flagged)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, submissionToJSON(sub))
}

// ListSubmissions handles GET /api/submissions.
func (s *Server) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	pending, processed, err := s.submissions.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submissionListResponse{
		Pending:   submissionsToJSON(pending),
		Processed: submissionsToJSON(processed),
	})
}

// ApproveSubmission handles POST /api/submissions/{id}/approve.
func (s *Server) ApproveSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := s.submissionID(w, r)
	if !ok {
		return
	}

	sub, err := s.submissions.Approve(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submissionToJSON(sub))
}

// DenySubmission handles POST /api/submissions/{id}/deny. The body is
// optional; an empty body denies without a reason.
func (s *Server) DenySubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := s.submissionID(w, r)
	if !ok {
		return
	}

	var req denyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sub, err := s.submissions.Deny(r.Context(), id, req.Reason)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submissionToJSON(sub))
}

func (s *Server) submissionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid submission id: "+raw)
		return 0, false
	}
	return id, true
}

func inputFromRequest(req productRequest) domval.Input {
	return domval.NewInput(req.ProductName, req.Category, req.Price, req.AgeFlag)
}

func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// safeDomainMessage returns the sentinel text for known errors and hides
// everything else behind a generic message.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrSubmissionNotFound,
		domain.ErrInvalidInput,
		domain.ErrCatalogData,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
