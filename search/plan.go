package search

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"mealdeal/models"
)

// PredicateKind enumerates the supported filters.
type PredicateKind int

const (
	PredicateText PredicateKind = iota + 1
	PredicateCuisine
	PredicateLocation
	PredicateDiscount
	PredicateActive
)

func (k PredicateKind) String() string {
	switch k {
	case PredicateText:
		return "text"
	case PredicateCuisine:
		return "cuisine"
	case PredicateLocation:
		return "location"
	case PredicateDiscount:
		return "discount"
	case PredicateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Predicate is one AND-term of a plan.
type Predicate interface {
	Kind() PredicateKind
	Match(o models.Offer) bool
}

// TextPredicate matches when any of the offer title, offer description,
// restaurant name, cuisine or location contains the term, ignoring case.
type TextPredicate struct {
	Term string // folded
}

func (p TextPredicate) Kind() PredicateKind { return PredicateText }

func (p TextPredicate) Match(o models.Offer) bool {
	fields := [...]string{
		o.Title,
		o.Description,
		o.Restaurant.Name,
		o.Restaurant.Cuisine,
		o.Restaurant.Location,
	}
	for _, f := range fields {
		if strings.Contains(fold(f), p.Term) {
			return true
		}
	}
	return false
}

// CuisinePredicate matches restaurants whose cuisine equals the value, ignoring case.
type CuisinePredicate struct {
	Cuisine string // folded
}

func (p CuisinePredicate) Kind() PredicateKind { return PredicateCuisine }

func (p CuisinePredicate) Match(o models.Offer) bool {
	return fold(o.Restaurant.Cuisine) == p.Cuisine
}

// LocationPredicate matches restaurants whose location contains the value, ignoring case.
type LocationPredicate struct {
	Area string // folded
}

func (p LocationPredicate) Kind() PredicateKind { return PredicateLocation }

func (p LocationPredicate) Match(o models.Offer) bool {
	return strings.Contains(fold(o.Restaurant.Location), p.Area)
}

// DiscountPredicate restricts the stored discount percentage to a band.
type DiscountPredicate struct {
	Band DiscountBand
}

func (p DiscountPredicate) Kind() PredicateKind { return PredicateDiscount }

func (p DiscountPredicate) Match(o models.Offer) bool {
	switch p.Band {
	case DiscountHigh:
		return o.Discount >= 40
	case DiscountMedium:
		return o.Discount >= 25 && o.Discount < 40
	case DiscountLow:
		return o.Discount < 25
	default:
		return true
	}
}

// ActivePredicate keeps offers flagged active and not yet expired at Now.
type ActivePredicate struct {
	Now time.Time
}

func (p ActivePredicate) Kind() PredicateKind { return PredicateActive }

func (p ActivePredicate) Match(o models.Offer) bool {
	return o.IsActive && !o.Expired(p.Now)
}

// SortField is the offer attribute an ordering compares.
type SortField int

const (
	FieldCreatedAt SortField = iota
	FieldDiscount
	FieldDiscountedPrice
	FieldRating
	FieldExpiresAt
	FieldDistance
)

// Ordering is the resolved sort of a plan.
type Ordering struct {
	Key        SortKey
	Field      SortField
	Descending bool
}

// Plan is the resolved set of predicates and ordering for one search.
type Plan struct {
	Predicates []Predicate
	Order      Ordering
}

// Match reports whether the offer satisfies every predicate.
func (p Plan) Match(o models.Offer) bool {
	for _, pred := range p.Predicates {
		if !pred.Match(o) {
			return false
		}
	}
	return true
}

// BuildPlan resolves criteria into a plan. It performs no I/O.
func BuildPlan(c Criteria) Plan {
	var plan Plan

	if term := fold(strings.TrimSpace(c.Search)); term != "" {
		plan.Predicates = append(plan.Predicates, TextPredicate{Term: term})
	}
	if cuisine := strings.TrimSpace(c.Cuisine); cuisine != "" && !isAll(cuisine) {
		plan.Predicates = append(plan.Predicates, CuisinePredicate{Cuisine: fold(cuisine)})
	}
	if area := strings.TrimSpace(c.Location); area != "" && !isAll(area) {
		plan.Predicates = append(plan.Predicates, LocationPredicate{Area: fold(area)})
	}
	switch c.Discount {
	case DiscountHigh, DiscountMedium, DiscountLow:
		plan.Predicates = append(plan.Predicates, DiscountPredicate{Band: c.Discount})
	}
	if c.ActiveOnly {
		plan.Predicates = append(plan.Predicates, ActivePredicate{Now: c.Now})
	}

	plan.Order = resolveOrdering(c.SortBy)
	return plan
}

func resolveOrdering(key SortKey) Ordering {
	switch key {
	case SortDiscount:
		return Ordering{Key: key, Field: FieldDiscount, Descending: true}
	case SortPrice:
		return Ordering{Key: key, Field: FieldDiscountedPrice}
	case SortRating:
		return Ordering{Key: key, Field: FieldRating, Descending: true}
	case SortExpiry:
		return Ordering{Key: key, Field: FieldExpiresAt}
	case SortDistance:
		return Ordering{Key: key, Field: FieldDistance}
	default:
		return defaultOrdering()
	}
}

func defaultOrdering() Ordering {
	return Ordering{Key: SortCreated, Field: FieldCreatedAt, Descending: true}
}

func isAll(v string) bool {
	return strings.EqualFold(v, "all")
}

// fold applies Unicode case folding. A Caser keeps state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
