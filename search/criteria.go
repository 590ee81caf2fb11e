package search

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"mealdeal/models"
)

const (
	DefaultLimit    = 12
	MaxLimit        = 100
	DefaultRadiusKm = 50.0
)

// DiscountBand is the enumerated discount filter.
type DiscountBand string

const (
	DiscountAll    DiscountBand = "all"
	DiscountHigh   DiscountBand = "high"
	DiscountMedium DiscountBand = "medium"
	DiscountLow    DiscountBand = "low"
)

// SortKey is the enumerated ordering requested by the caller.
type SortKey string

const (
	SortCreated  SortKey = "created"
	SortDiscount SortKey = "discount"
	SortPrice    SortKey = "price"
	SortRating   SortKey = "rating"
	SortExpiry   SortKey = "expiry"
	SortDistance SortKey = "distance"
)

// Scope narrows a search to offers near a center.
type Scope struct {
	Center   models.Coordinate
	RadiusKm float64
}

// Criteria is the full set of filter and sort inputs for one search.
type Criteria struct {
	Search     string
	Cuisine    string
	Location   string
	Discount   DiscountBand
	SortBy     SortKey
	Scope      *Scope
	ActiveOnly bool
	Page       int
	Limit      int
	Now        time.Time
}

// ParseCriteria extracts search criteria from URL query values. Values that
// fail to parse are treated as absent, never as errors.
func ParseCriteria(query url.Values, now time.Time) Criteria {
	c := Criteria{
		Search:   strings.TrimSpace(query.Get("search")),
		Cuisine:  strings.TrimSpace(query.Get("cuisine")),
		Location: strings.TrimSpace(query.Get("location")),
		Discount: parseDiscountBand(query.Get("discount")),
		SortBy:   parseSortKey(query.Get("sortBy")),
		Limit:    DefaultLimit,
		Now:      now,
	}
	if c.Search == "" {
		c.Search = strings.TrimSpace(query.Get("q"))
	}

	c.Page, _ = strconv.Atoi(query.Get("page"))
	if c.Page <= 0 {
		c.Page = 1
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil && limit > 0 {
		c.Limit = min(limit, MaxLimit)
	}

	c.ActiveOnly, _ = strconv.ParseBool(query.Get("activeOnly"))

	lng := query.Get("lng")
	if lng == "" {
		lng = query.Get("lon")
	}
	c.Scope = ParseScope(query.Get("lat"), lng, query.Get("radius"))
	return c
}

// ParseScope builds a geographic scope from raw strings. Any malformed or
// out-of-range value, or a non-positive radius, disables geo filtering. A
// missing radius falls back to DefaultRadiusKm.
func ParseScope(latStr, lngStr, radiusStr string) *Scope {
	if latStr == "" || lngStr == "" {
		return nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil
	}
	center := models.Coordinate{Latitude: lat, Longitude: lng}
	if !center.Valid() {
		return nil
	}

	radius := DefaultRadiusKm
	if radiusStr != "" {
		radius, err = strconv.ParseFloat(radiusStr, 64)
		// !(radius > 0) also rejects NaN.
		if err != nil || !(radius > 0) {
			return nil
		}
	}
	return &Scope{Center: center, RadiusKm: radius}
}

func parseDiscountBand(v string) DiscountBand {
	switch band := DiscountBand(strings.ToLower(strings.TrimSpace(v))); band {
	case DiscountHigh, DiscountMedium, DiscountLow:
		return band
	default:
		return DiscountAll
	}
}

func parseSortKey(v string) SortKey {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(v))); key {
	case SortDiscount, SortPrice, SortRating, SortExpiry, SortDistance:
		return key
	default:
		return SortCreated
	}
}
