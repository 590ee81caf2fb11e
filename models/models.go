package models

import "time"

// Geocoding states for restaurants, mirrored in the geo_status column.
const (
	GeoStatusPending  = "PENDING"
	GeoStatusResolved = "RESOLVED"
	GeoStatusFailed   = "FAILED"
)

// Coordinate is a point on earth in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Valid reports whether the coordinate lies within latitude/longitude bounds.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Restaurant represents a venue that owns discount offers. Coordinates are
// optional: restaurants that have not been geocoded yet are "unlocated".
type Restaurant struct {
	ID          int64       `json:"id,string"`
	Name        string      `json:"name"`
	Cuisine     string      `json:"cuisine"`
	Description string      `json:"description,omitempty"`
	Location    string      `json:"location"`
	Coordinates *Coordinate `json:"coordinates,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	Hours       string      `json:"hours,omitempty"`
	Rating      float64     `json:"rating"`
	ReviewCount int         `json:"review_count"`
	Image       string      `json:"image,omitempty"`
	OwnerID     string      `json:"owner_id,omitempty"`
	GeoStatus   string      `json:"geo_status,omitempty"`
	Geohash     string      `json:"geohash,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Position returns the restaurant coordinate, if known.
func (r Restaurant) Position() (Coordinate, bool) {
	if r.Coordinates == nil {
		return Coordinate{}, false
	}
	return *r.Coordinates, true
}

// Offer is a time-bounded discounted listing belonging to one restaurant.
// Discount is stored independently of the prices and is authoritative.
type Offer struct {
	ID              int64      `json:"id,string"`
	RestaurantID    int64      `json:"restaurant_id,string"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	OriginalPrice   float64    `json:"original_price"`
	DiscountedPrice float64    `json:"discounted_price"`
	Discount        float64    `json:"discount"`
	Terms           string     `json:"terms,omitempty"`
	ExpiresAt       time.Time  `json:"expires_at"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	Restaurant      Restaurant `json:"-"`
}

// Position locates an offer through its owning restaurant.
func (o Offer) Position() (Coordinate, bool) {
	return o.Restaurant.Position()
}

// Expired reports whether the offer is past its expiry at the given instant.
func (o Offer) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

// Claim records a user redeeming an offer.
type Claim struct {
	ID        int64     `json:"id,string"`
	OfferID   int64     `json:"offer_id,string"`
	UserID    string    `json:"user_id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// RestaurantSummary is the public slice of a restaurant embedded in search results.
type RestaurantSummary struct {
	ID          int64       `json:"id,string"`
	Name        string      `json:"name"`
	Cuisine     string      `json:"cuisine"`
	Location    string      `json:"location"`
	Coordinates *Coordinate `json:"coordinates,omitempty"`
	Rating      float64     `json:"rating"`
	ReviewCount int         `json:"review_count"`
	Image       string      `json:"image,omitempty"`
}

// Summary extracts the public restaurant fields.
func (r Restaurant) Summary() RestaurantSummary {
	return RestaurantSummary{
		ID:          r.ID,
		Name:        r.Name,
		Cuisine:     r.Cuisine,
		Location:    r.Location,
		Coordinates: r.Coordinates,
		Rating:      r.Rating,
		ReviewCount: r.ReviewCount,
		Image:       r.Image,
	}
}
