package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/listcheck/internal/domain"
	"github.com/kailas-cloud/listcheck/internal/domain/catalog"
	domsub "github.com/kailas-cloud/listcheck/internal/domain/submission"
	"github.com/kailas-cloud/listcheck/internal/index"
	healthuc "github.com/kailas-cloud/listcheck/internal/usecase/health"
	submissionuc "github.com/kailas-cloud/listcheck/internal/usecase/submission"
	validationuc "github.com/kailas-cloud/listcheck/internal/usecase/validation"
)

// --- Mocks ---

type mockRepo struct {
	seq  int64
	subs map[int64]domsub.Submission

	nextIDErr error
	saveErr   error
	listErr   error
}

func newMockRepo() *mockRepo {
	return &mockRepo{subs: make(map[int64]domsub.Submission)}
}

func (m *mockRepo) NextID(context.Context) (int64, error) {
	if m.nextIDErr != nil {
		return 0, m.nextIDErr
	}
	m.seq++
	return m.seq, nil
}

func (m *mockRepo) Save(_ context.Context, sub domsub.Submission) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.subs[sub.ID()] = sub
	return nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (domsub.Submission, error) {
	sub, ok := m.subs[id]
	if !ok {
		return domsub.Submission{}, fmt.Errorf("submission %d: %w", id, domain.ErrSubmissionNotFound)
	}
	return sub, nil
}

func (m *mockRepo) List(context.Context) ([]domsub.Submission, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domsub.Submission, 0, len(m.subs))
	for _, sub := range m.subs {
		out = append(out, sub)
	}
	return out, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

// --- Fixtures ---

func testCatalog() catalog.Catalog {
	return catalog.Catalog{
		catalog.New("Premium Lager 4x440ml", "Beers").WithPrice(4.50).WithAgeVerification(true),
		catalog.New("Craft Lager 330ml", "Beers").WithPrice(2.10).WithAgeVerification(true),
		catalog.New("Orange Juice 1L", "Juices").WithPrice(1.80).WithAgeVerification(false),
		catalog.New("Apple Juice 1L", "Juices").WithPrice(1.70).WithAgeVerification(false),
		catalog.New("Sparkling Water 2L", "Soft Drinks").WithPrice(0.90).WithAgeVerification(false),
		catalog.New("Whole Milk 2 Pints", "Dairy").WithPrice(1.20).WithAgeVerification(false),
	}
}

type fixture struct {
	server *Server
	router gochi.Router
	repo   *mockRepo
	pinger *mockPinger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cat := testCatalog()
	model, err := index.Build(cat)
	if err != nil {
		t.Fatalf("build index: %v", err)
	}

	logger := zap.NewNop()
	repo := newMockRepo()
	pinger := &mockPinger{}

	server := NewServer(
		validationuc.New(model, logger),
		submissionuc.New(repo, nil, logger),
		healthuc.New(pinger, len(cat)),
		cat.Categories(),
		logger,
	)

	router := gochi.NewRouter()
	server.Routes(router)

	return &fixture{server: server, router: router, repo: repo, pinger: pinger}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decodeInto(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// --- Tests ---

func TestHealthCheck_OK(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "GET", "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp healthResponse
	decodeInto(t, rr, &resp)
	if resp.Status != "ok" {
		t.Errorf("status: got %q, want ok", resp.Status)
	}
	if resp.Checks["storage"] != "ok" || resp.Checks["catalog"] != "ok" {
		t.Errorf("checks: got %v", resp.Checks)
	}
	if resp.CatalogSize != len(testCatalog()) {
		t.Errorf("catalog size: got %d, want %d", resp.CatalogSize, len(testCatalog()))
	}
}

func TestHealthCheck_StorageDown_503(t *testing.T) {
	f := newFixture(t)
	f.pinger.err = errors.New("connection refused")

	rr := f.do(t, "GET", "/health", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}

	var resp healthResponse
	decodeInto(t, rr, &resp)
	if resp.Status != "degraded" {
		t.Errorf("status: got %q, want degraded", resp.Status)
	}
}

func TestListCategories(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "GET", "/api/categories", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp categoriesResponse
	decodeInto(t, rr, &resp)
	want := []string{"Beers", "Dairy", "Juices", "Soft Drinks"}
	if len(resp.Categories) != len(want) {
		t.Fatalf("categories: got %v, want %v", resp.Categories, want)
	}
	for i, c := range want {
		if resp.Categories[i] != c {
			t.Errorf("categories[%d]: got %q, want %q", i, resp.Categories[i], c)
		}
	}
}

func TestValidateProduct_Ready(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "POST", "/api/validate", productRequest{
		ProductName: "Orange Juice 1L",
		Category:    "Juices",
		Price:       1.80,
		AgeFlag:     "No",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp resultJSON
	decodeInto(t, rr, &resp)
	if resp.Overall != "ready" {
		t.Errorf("overall: got %q, want ready", resp.Overall)
	}
	if len(resp.Neighbours) == 0 {
		t.Error("expected neighbours in response")
	}
	if resp.Category.Level != "pass" {
		t.Errorf("category level: got %q, want pass", resp.Category.Level)
	}
}

func TestValidateProduct_AlcoholPolicy_HardStop(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "POST", "/api/validate", productRequest{
		ProductName: "Premium Lager 4x440ml",
		Category:    "Beers",
		Price:       4.50,
		AgeFlag:     "No",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp resultJSON
	decodeInto(t, rr, &resp)
	if resp.AgeVerification.Level != "hard_stop" {
		t.Errorf("age level: got %q, want hard_stop", resp.AgeVerification.Level)
	}
	if resp.Overall != "requires_correction" {
		t.Errorf("overall: got %q, want requires_correction", resp.Overall)
	}
}

func TestValidateProduct_MalformedBody_400(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest("POST", "/api/validate", strings.NewReader(`{"price": "abc"}`))
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var resp errorResponse
	decodeInto(t, rr, &resp)
	if resp.Code != codeBadRequest {
		t.Errorf("code: got %q, want %q", resp.Code, codeBadRequest)
	}
}

func TestSubmitProduct_StoresAndReturnsSubmission(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "POST", "/api/submit", submitRequest{
		Product: productRequest{
			ProductName: "Orange Juice 1L",
			Category:    "Juices",
			Price:       1.80,
			AgeFlag:     "No",
		},
		Notes: "new supplier",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var resp submissionJSON
	decodeInto(t, rr, &resp)
	if resp.ID != 1 {
		t.Errorf("id: got %d, want 1", resp.ID)
	}
	if resp.Status != "approved" {
		t.Errorf("status: got %q, want approved", resp.Status)
	}
	if resp.Notes != "new supplier" {
		t.Errorf("notes: got %q", resp.Notes)
	}
	if resp.Validation.Overall != "ready" {
		t.Errorf("overall: got %q, want ready", resp.Validation.Overall)
	}

	if _, ok := f.repo.subs[1]; !ok {
		t.Error("submission was not saved")
	}
}

func TestSubmitProduct_Flagged_Pending(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "POST", "/api/submit", submitRequest{
		Product: productRequest{
			ProductName: "Orange Juice 1L",
			Category:    "Juices",
			Price:       9.99,
			AgeFlag:     "No",
		},
		Flagged: true,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusCreated)
	}

	var resp submissionJSON
	decodeInto(t, rr, &resp)
	if resp.Status != "pending" {
		t.Errorf("status: got %q, want pending", resp.Status)
	}
}

func TestSubmitProduct_MissingName_400(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "POST", "/api/submit", submitRequest{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var resp errorResponse
	decodeInto(t, rr, &resp)
	if resp.Code != codeValidationFailed {
		t.Errorf("code: got %q, want %q", resp.Code, codeValidationFailed)
	}
}

func TestSubmitProduct_RepoFailure_500(t *testing.T) {
	f := newFixture(t)
	f.repo.nextIDErr = errors.New("redis down")

	rr := f.do(t, "POST", "/api/submit", submitRequest{
		Product: productRequest{ProductName: "Orange Juice 1L", Category: "Juices", Price: 1.80},
	})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}

	var resp errorResponse
	decodeInto(t, rr, &resp)
	if resp.Message != "internal error" {
		t.Errorf("message leaked: %q", resp.Message)
	}
}

func TestListSubmissions_Grouped(t *testing.T) {
	f := newFixture(t)

	f.do(t, "POST", "/api/submit", submitRequest{
		Product: productRequest{ProductName: "Orange Juice 1L", Category: "Juices", Price: 1.80, AgeFlag: "No"},
	})
	f.do(t, "POST", "/api/submit", submitRequest{
		Product: productRequest{ProductName: "Orange Juice 1L", Category: "Juices", Price: 9.99, AgeFlag: "No"},
		Flagged: true,
	})

	rr := f.do(t, "GET", "/api/submissions", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp submissionListResponse
	decodeInto(t, rr, &resp)
	if len(resp.Pending) != 1 {
		t.Errorf("pending: got %d, want 1", len(resp.Pending))
	}
	if len(resp.Processed) != 1 {
		t.Errorf("processed: got %d, want 1", len(resp.Processed))
	}
}

func TestApproveSubmission(t *testing.T) {
	f := newFixture(t)

	f.do(t, "POST", "/api/submit", submitRequest{
		Product: productRequest{ProductName: "Orange Juice 1L", Category: "Juices", Price: 9.99, AgeFlag: "No"},
		Flagged: true,
	})

	rr := f.do(t, "POST", "/api/submissions/1/approve", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp submissionJSON
	decodeInto(t, rr, &resp)
	if resp.Status != "approved" {
		t.Errorf("status: got %q, want approved", resp.Status)
	}
}

func TestDenySubmission_WithReason(t *testing.T) {
	f := newFixture(t)

	f.do(t, "POST", "/api/submit", submitRequest{
		Product: productRequest{ProductName: "Orange Juice 1L", Category: "Juices", Price: 9.99, AgeFlag: "No"},
		Flagged: true,
	})

	rr := f.do(t, "POST", "/api/submissions/1/deny", denyRequest{Reason: "price out of range"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp submissionJSON
	decodeInto(t, rr, &resp)
	if resp.Status != "denied" {
		t.Errorf("status: got %q, want denied", resp.Status)
	}
	if resp.DenialReason != "price out of range" {
		t.Errorf("denial reason: got %q", resp.DenialReason)
	}
}

func TestDenySubmission_EmptyBody(t *testing.T) {
	f := newFixture(t)

	f.do(t, "POST", "/api/submit", submitRequest{
		Product: productRequest{ProductName: "Orange Juice 1L", Category: "Juices", Price: 9.99, AgeFlag: "No"},
		Flagged: true,
	})

	rr := f.do(t, "POST", "/api/submissions/1/deny", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
}

func TestApproveSubmission_NotFound_404(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "POST", "/api/submissions/42/approve", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}

	var resp errorResponse
	decodeInto(t, rr, &resp)
	if resp.Code != codeSubmissionNotFound {
		t.Errorf("code: got %q, want %q", resp.Code, codeSubmissionNotFound)
	}
}

func TestApproveSubmission_BadID_400(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "POST", "/api/submissions/abc/approve", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
