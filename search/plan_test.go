package search

import (
	"net/url"
	"testing"
	"time"

	"mealdeal/models"
)

func TestParseCriteriaDefaults(t *testing.T) {
	c := ParseCriteria(url.Values{}, testNow)
	if c.Page != 1 || c.Limit != DefaultLimit {
		t.Fatalf("unexpected paging defaults: page=%d limit=%d", c.Page, c.Limit)
	}
	if c.SortBy != SortCreated || c.Discount != DiscountAll {
		t.Fatalf("unexpected sort/discount defaults: %s %s", c.SortBy, c.Discount)
	}
	if c.Scope != nil || c.ActiveOnly {
		t.Fatalf("expected no scope and activeOnly=false")
	}
	if !c.Now.Equal(testNow) {
		t.Fatalf("expected request clock to be carried")
	}
}

func TestParseCriteriaDegradesGracefully(t *testing.T) {
	c := ParseCriteria(url.Values{
		"page":       {"-3"},
		"limit":      {"lots"},
		"sortBy":     {"popularity"},
		"discount":   {"huge"},
		"activeOnly": {"maybe"},
	}, testNow)
	if c.Page != 1 || c.Limit != DefaultLimit || c.SortBy != SortCreated || c.Discount != DiscountAll || c.ActiveOnly {
		t.Fatalf("expected malformed values to fall back to defaults, got %+v", c)
	}

	c = ParseCriteria(url.Values{"limit": {"5000"}}, testNow)
	if c.Limit != MaxLimit {
		t.Fatalf("expected limit capped at %d, got %d", MaxLimit, c.Limit)
	}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		name             string
		lat, lng, radius string
		wantNil          bool
		wantRadius       float64
	}{
		{name: "valid", lat: "40.7", lng: "-74", radius: "5", wantRadius: 5},
		{name: "missing radius defaults", lat: "40.7", lng: "-74", wantRadius: DefaultRadiusKm},
		{name: "missing lng", lat: "40.7", radius: "5", wantNil: true},
		{name: "malformed radius", lat: "40.7", lng: "-74", radius: "abc", wantNil: true},
		{name: "negative radius", lat: "40.7", lng: "-74", radius: "-5", wantNil: true},
		{name: "zero radius", lat: "40.7", lng: "-74", radius: "0", wantNil: true},
		{name: "nan radius", lat: "40.7", lng: "-74", radius: "NaN", wantNil: true},
		{name: "malformed lat", lat: "north", lng: "-74", radius: "5", wantNil: true},
		{name: "out of range lat", lat: "91", lng: "-74", radius: "5", wantNil: true},
		{name: "out of range lng", lat: "40", lng: "181", radius: "5", wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ParseScope(tt.lat, tt.lng, tt.radius)
			if tt.wantNil {
				if s != nil {
					t.Fatalf("expected nil scope, got %+v", s)
				}
				return
			}
			if s == nil || s.RadiusKm != tt.wantRadius {
				t.Fatalf("expected radius %v, got %+v", tt.wantRadius, s)
			}
		})
	}
}

func TestParseCriteriaAcceptsLonAlias(t *testing.T) {
	c := ParseCriteria(url.Values{"lat": {"1"}, "lon": {"2"}, "radius": {"3"}}, testNow)
	if c.Scope == nil || c.Scope.Center.Longitude != 2 {
		t.Fatalf("expected lon alias to be accepted, got %+v", c.Scope)
	}
}

func TestBuildPlanPredicates(t *testing.T) {
	plan := BuildPlan(Criteria{
		Search:     "  Pasta ",
		Cuisine:    "Italian",
		Location:   "all",
		Discount:   DiscountMedium,
		ActiveOnly: true,
		SortBy:     SortRating,
		Now:        testNow,
	})

	var kinds []PredicateKind
	for _, p := range plan.Predicates {
		kinds = append(kinds, p.Kind())
	}
	want := []PredicateKind{PredicateText, PredicateCuisine, PredicateDiscount, PredicateActive}
	if len(kinds) != len(want) {
		t.Fatalf("expected predicates %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("expected predicates %v, got %v", want, kinds)
		}
	}
	if text := plan.Predicates[0].(TextPredicate); text.Term != "pasta" {
		t.Fatalf("expected trimmed folded term, got %q", text.Term)
	}
	if plan.Order != (Ordering{Key: SortRating, Field: FieldRating, Descending: true}) {
		t.Fatalf("unexpected ordering %+v", plan.Order)
	}
}

func TestBuildPlanOrderings(t *testing.T) {
	tests := map[SortKey]Ordering{
		SortDiscount: {Key: SortDiscount, Field: FieldDiscount, Descending: true},
		SortPrice:    {Key: SortPrice, Field: FieldDiscountedPrice},
		SortRating:   {Key: SortRating, Field: FieldRating, Descending: true},
		SortExpiry:   {Key: SortExpiry, Field: FieldExpiresAt},
		SortCreated:  {Key: SortCreated, Field: FieldCreatedAt, Descending: true},
		SortDistance: {Key: SortDistance, Field: FieldDistance},
		"bogus":      {Key: SortCreated, Field: FieldCreatedAt, Descending: true},
	}
	for key, want := range tests {
		if got := BuildPlan(Criteria{SortBy: key}).Order; got != want {
			t.Fatalf("sort %q: expected %+v, got %+v", key, want, got)
		}
	}
}

func TestDiscountBands(t *testing.T) {
	tests := []struct {
		band     DiscountBand
		discount float64
		want     bool
	}{
		{DiscountHigh, 40, true},
		{DiscountHigh, 39.9, false},
		{DiscountMedium, 25, true},
		{DiscountMedium, 40, false},
		{DiscountMedium, 24.99, false},
		{DiscountLow, 24.99, true},
		{DiscountLow, 25, false},
		{DiscountAll, 99, true},
	}
	for _, tt := range tests {
		got := DiscountPredicate{Band: tt.band}.Match(models.Offer{Discount: tt.discount})
		if got != tt.want {
			t.Fatalf("band %s with %v%%: expected %v, got %v", tt.band, tt.discount, tt.want, got)
		}
	}
}

func TestActivePredicateBoundary(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	p := ActivePredicate{Now: now}
	if p.Match(models.Offer{IsActive: true, ExpiresAt: now}) {
		t.Fatalf("offer expiring exactly now must be treated as expired")
	}
	if !p.Match(models.Offer{IsActive: true, ExpiresAt: now.Add(time.Second)}) {
		t.Fatalf("expected live offer to match")
	}
	if p.Match(models.Offer{IsActive: false, ExpiresAt: now.Add(time.Hour)}) {
		t.Fatalf("expected inactive offer not to match")
	}
}

func TestTextPredicateIsCaseInsensitive(t *testing.T) {
	p := BuildPlan(Criteria{Search: "CAFÉ"}).Predicates[0]
	o := models.Offer{Restaurant: models.Restaurant{Name: "Little Café"}}
	if !p.Match(o) {
		t.Fatalf("expected unicode case-insensitive match")
	}
}
