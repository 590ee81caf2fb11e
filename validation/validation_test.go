package validation

import (
	"errors"
	"testing"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New()
	if err != nil {
		t.Fatalf("compile schemas: %v", err)
	}
	return v
}

func TestOfferCreateSchema(t *testing.T) {
	v := newValidator(t)

	valid := `{"restaurant_id":"1","title":"Pasta Night","original_price":40,"discounted_price":20,"expires_at":"2027-01-01T00:00:00Z"}`
	if err := v.Validate(OfferCreate, []byte(valid)); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	invalid := map[string]string{
		"missing title":   `{"restaurant_id":"1","original_price":40,"discounted_price":20,"expires_at":"2027-01-01T00:00:00Z"}`,
		"bad date":        `{"restaurant_id":"1","title":"x","original_price":40,"discounted_price":20,"expires_at":"tomorrow"}`,
		"zero price":      `{"restaurant_id":"1","title":"x","original_price":0,"discounted_price":0,"expires_at":"2027-01-01T00:00:00Z"}`,
		"unknown field":   `{"restaurant_id":"1","title":"x","original_price":4,"discounted_price":2,"expires_at":"2027-01-01T00:00:00Z","owner":"me"}`,
		"discount > 100":  `{"restaurant_id":"1","title":"x","original_price":4,"discounted_price":2,"discount":140,"expires_at":"2027-01-01T00:00:00Z"}`,
		"not json at all": `{`,
	}
	for name, body := range invalid {
		if err := v.Validate(OfferCreate, []byte(body)); !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("%s: expected ErrInvalidPayload, got %v", name, err)
		}
	}
}

func TestRestaurantCreateSchema(t *testing.T) {
	v := newValidator(t)
	if err := v.Validate(RestaurantCreate, []byte(`{"name":"Bella Vista","cuisine":"Italian","location":"Downtown","latitude":40.7,"longitude":-74}`)); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
	if err := v.Validate(RestaurantCreate, []byte(`{"name":"Bella Vista","cuisine":"Italian","location":"Downtown","latitude":40.7}`)); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected latitude without longitude to fail, got %v", err)
	}
	if err := v.Validate(RestaurantCreate, []byte(`{"name":"Bella Vista","cuisine":"Italian","location":"Downtown","latitude":95,"longitude":0}`)); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected out-of-range latitude to fail, got %v", err)
	}
}

func TestUnknownSchema(t *testing.T) {
	if err := newValidator(t).Validate("nope", []byte(`{}`)); !errors.Is(err, ErrUnknownSchema) {
		t.Fatalf("expected ErrUnknownSchema, got %v", err)
	}
}

func TestNewsletterAndLocationSchemas(t *testing.T) {
	v := newValidator(t)
	if err := v.Validate(Newsletter, []byte(`{"subject":"Hi","body":"Deals!"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.Validate(Location, []byte(`{"latitude":10}`)); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected missing longitude to fail, got %v", err)
	}
}
