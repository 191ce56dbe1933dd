package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, 200)

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("status = %s, want ok", report.Status)
	}
	if report.Checks["storage"] != CheckOK || report.Checks["catalog"] != CheckOK {
		t.Errorf("checks = %v", report.Checks)
	}
	if report.CatalogSize != 200 {
		t.Errorf("catalog size = %d, want 200", report.CatalogSize)
	}
}

func TestCheck_StorageDown(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("connection refused")}, 200)

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("status = %s, want degraded", report.Status)
	}
	if report.Checks["storage"] != CheckError {
		t.Errorf("storage check = %s, want error", report.Checks["storage"])
	}
}
