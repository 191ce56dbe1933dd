package listcheck

import (
	"context"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func testEntries() []CatalogEntry {
	return []CatalogEntry{
		{Name: "Premium Lager 4x440ml", Category: "Beers", Price: ptr(4.50), AgeVerificationRequired: ptr(true)},
		{Name: "Craft Lager 330ml", Category: "Beers", Price: ptr(2.10), AgeVerificationRequired: ptr(true)},
		{Name: "Orange Juice 1L", Category: "Juices", Price: ptr(1.80), AgeVerificationRequired: ptr(false)},
		{Name: "Apple Juice 1L", Category: "Juices", Price: ptr(1.70), AgeVerificationRequired: ptr(false)},
		{Name: "Sparkling Water 2L", Category: "Soft Drinks", Price: ptr(0.90), AgeVerificationRequired: ptr(false)},
		{Name: "Whole Milk 2 Pints", Category: "Dairy", Price: ptr(1.20), AgeVerificationRequired: ptr(false)},
	}
}

func TestNew_RequiresCatalog(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("expected error without a catalog")
	}
}

func TestClient_Validate(t *testing.T) {
	client, err := New(WithCatalog(testEntries()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	res, err := client.Validate(context.Background(), Product{
		Name:     "Orange Juice 1L",
		Category: "Juices",
		Price:    1.80,
		AgeFlag:  "No",
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if res.Overall != Ready {
		t.Errorf("overall: got %q, want %q", res.Overall, Ready)
	}
	if res.Category.Level != Pass {
		t.Errorf("category level: got %q, want %q", res.Category.Level, Pass)
	}
	if len(res.Neighbours) == 0 {
		t.Error("expected neighbours")
	}
}

func TestClient_Validate_AlcoholPolicy(t *testing.T) {
	client, err := New(WithCatalog(testEntries()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	res, err := client.Validate(context.Background(), Product{
		Name:     "Premium Lager 4x440ml",
		Category: "Beers",
		Price:    4.50,
		AgeFlag:  "No",
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if res.AgeVerification.Level != HardStop {
		t.Errorf("age level: got %q, want %q", res.AgeVerification.Level, HardStop)
	}
	if res.Overall != RequiresCorrection {
		t.Errorf("overall: got %q, want %q", res.Overall, RequiresCorrection)
	}
}

func TestClient_Categories(t *testing.T) {
	client, err := New(WithCatalog(testEntries()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	got := client.Categories()
	want := []string{"Beers", "Dairy", "Juices", "Soft Drinks"}
	if len(got) != len(want) {
		t.Fatalf("categories: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("categories[%d]: got %q, want %q", i, got[i], want[i])
		}
	}

	// Mutating the returned slice must not affect the client.
	got[0] = "mutated"
	if client.Categories()[0] != "Beers" {
		t.Error("Categories returned internal slice")
	}
}

func TestClient_WithTopK(t *testing.T) {
	client, err := New(WithCatalog(testEntries()), WithTopK(2))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	res, err := client.Validate(context.Background(), Product{
		Name:    "Orange Juice 1L",
		Price:   1.80,
		AgeFlag: "No",
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(res.Neighbours) != 2 {
		t.Errorf("neighbours: got %d, want 2", len(res.Neighbours))
	}
}
