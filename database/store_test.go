package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"mealdeal/logger"
	"mealdeal/models"
)

type fakeRow struct {
	values []any
}

func (f fakeRow) Scan(dest ...any) error {
	if len(dest) != len(f.values) {
		return errors.New("column count mismatch")
	}
	for i, v := range f.values {
		switch d := dest[i].(type) {
		case *int64:
			*d = v.(int64)
		case *int:
			*d = v.(int)
		case *string:
			*d = v.(string)
		case *float64:
			*d = v.(float64)
		case *bool:
			*d = v.(bool)
		case *time.Time:
			*d = v.(time.Time)
		case *sql.NullFloat64:
			if v == nil {
				*d = sql.NullFloat64{}
			} else {
				*d = sql.NullFloat64{Float64: v.(float64), Valid: true}
			}
		default:
			return errors.New("unsupported destination")
		}
	}
	return nil
}

func restaurantRow(lat, lng any) []any {
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	return []any{int64(1), "Bella Vista", "Italian", "", "Downtown, New York", lat, lng,
		"dr5ru", models.GeoStatusResolved, "", "", 4.5, 120, "", "owner-1", created}
}

func TestScanRestaurantCoordinates(t *testing.T) {
	r, err := ScanRestaurant(fakeRow{values: restaurantRow(40.7128, -74.006)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Coordinates == nil || r.Coordinates.Latitude != 40.7128 || r.Coordinates.Longitude != -74.006 {
		t.Fatalf("expected coordinates, got %+v", r.Coordinates)
	}
	if r.Name != "Bella Vista" || r.ReviewCount != 120 || r.OwnerID != "owner-1" {
		t.Fatalf("unexpected restaurant %+v", r)
	}

	for _, pair := range [][2]any{{nil, nil}, {40.7, nil}, {nil, -74.0}} {
		r, err := ScanRestaurant(fakeRow{values: restaurantRow(pair[0], pair[1])})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Coordinates != nil {
			t.Fatalf("expected unlocated restaurant for %v, got %+v", pair, r.Coordinates)
		}
	}
}

func TestScanOfferAttachesRestaurant(t *testing.T) {
	expires := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	values := append([]any{int64(101), int64(1), "Pasta Night", "", 40.0, 20.0, 50.0, "", expires, true, created},
		restaurantRow(nil, nil)...)
	o, err := ScanOffer(fakeRow{values: values})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.ID != 101 || o.Discount != 50 || o.Restaurant.Name != "Bella Vista" {
		t.Fatalf("unexpected offer %+v", o)
	}
	if _, ok := o.Position(); ok {
		t.Fatalf("expected offer of unlocated restaurant to be unlocated")
	}
}

func TestNullCoordinate(t *testing.T) {
	lat, lng := nullCoordinate(nil)
	if lat.Valid || lng.Valid {
		t.Fatalf("expected NULL columns for missing coordinate")
	}
	lat, lng = nullCoordinate(&models.Coordinate{Latitude: 1, Longitude: 2})
	if !lat.Valid || !lng.Valid || lat.Float64 != 1 || lng.Float64 != 2 {
		t.Fatalf("unexpected columns %v %v", lat, lng)
	}
}

func TestConnectRequiresURL(t *testing.T) {
	if _, err := Connect(context.Background(), "", logger.Nop()); err == nil {
		t.Fatalf("expected error for empty connection string")
	}
}
