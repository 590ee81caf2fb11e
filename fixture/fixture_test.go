package fixture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSampleDatasetShape(t *testing.T) {
	d, err := Sample()
	if err != nil {
		t.Fatalf("unexpected error loading sample: %v", err)
	}
	restaurants, offers := d.Models()
	if len(restaurants) != 11 {
		t.Fatalf("expected 11 restaurants, got %d", len(restaurants))
	}
	if len(offers) != 22 {
		t.Fatalf("expected 22 offers, got %d", len(offers))
	}
	for _, o := range offers {
		if o.Restaurant.ID != o.RestaurantID {
			t.Fatalf("offer %d not joined to its restaurant", o.ID)
		}
		if o.CreatedAt.IsZero() || o.ExpiresAt.IsZero() {
			t.Fatalf("offer %d missing timestamps", o.ID)
		}
	}
}

func TestSampleMarksUnlocatedRestaurantsPending(t *testing.T) {
	d, err := Sample()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	restaurants, _ := d.Models()
	unlocated := 0
	for _, r := range restaurants {
		if r.Coordinates == nil {
			unlocated++
			if r.GeoStatus != "PENDING" {
				t.Fatalf("expected pending geo status for %s, got %s", r.Name, r.GeoStatus)
			}
		}
	}
	if unlocated == 0 {
		t.Fatalf("expected the sample to contain unlocated restaurants")
	}
}

func TestParseRejectsInvertedPrices(t *testing.T) {
	payload := []byte(`
restaurants:
  - id: 1
    name: X
    offers:
      - id: 1
        title: Y
        original_price: 10
        discounted_price: 12
`)
	if _, err := Parse(payload); !errors.Is(err, ErrInvalidDataset) {
		t.Fatalf("expected ErrInvalidDataset, got %v", err)
	}
}

func TestParseRejectsDuplicateOffers(t *testing.T) {
	payload := []byte(`
restaurants:
  - id: 1
    offers:
      - {id: 5, original_price: 10, discounted_price: 5}
  - id: 2
    offers:
      - {id: 5, original_price: 10, discounted_price: 5}
`)
	if _, err := Parse(payload); !errors.Is(err, ErrInvalidDataset) {
		t.Fatalf("expected ErrInvalidDataset, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	if err := os.WriteFile(path, sampleYAML, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if len(d.Restaurants) != 11 {
		t.Fatalf("expected 11 restaurants, got %d", len(d.Restaurants))
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSourceHonoursCancelledContext(t *testing.T) {
	d, _ := Sample()
	src := NewSource(d)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.ListOffers(ctx); err == nil {
		t.Fatalf("expected context error")
	}
	offers, err := src.ListOffers(context.Background())
	if err != nil || len(offers) != 22 {
		t.Fatalf("expected 22 offers, got %d (%v)", len(offers), err)
	}
}
