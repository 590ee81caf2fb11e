package search

import (
	"cmp"
	"slices"
	"sort"

	"mealdeal/geo"
	"mealdeal/models"
)

// OfferResult is one offer in a result page with its restaurant summary and,
// when the search had a geographic scope, its distance from the center.
type OfferResult struct {
	models.Offer
	Restaurant models.RestaurantSummary `json:"restaurant"`
	Distance   *float64                 `json:"distance,omitempty"`
}

// Filters lists the values available for further filtering.
type Filters struct {
	Cuisines  []string `json:"cuisines"`
	Locations []string `json:"locations"`
}

// Pagination describes the slice of results returned.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Count      int  `json:"count"`
	TotalCount int  `json:"total_count"`
	TotalPages int  `json:"total_pages"`
	NextPage   *int `json:"next_page,omitempty"`
}

// ResultPage is one page of ordered offers plus facets.
type ResultPage struct {
	Offers     []OfferResult `json:"offers"`
	Filters    Filters       `json:"filters"`
	Pagination Pagination    `json:"pagination"`
}

// PageRequest selects the slice of the ordered result to return.
type PageRequest struct {
	Page  int
	Limit int
}

// Input bundles everything Execute works on.
type Input struct {
	Candidates  []models.Offer
	Restaurants []models.Restaurant
	Plan        Plan
	Scope       *Scope
	Page        PageRequest
}

// Execute filters, ranks and slices the candidates. It is a pure function of
// its input: identical inputs always yield identical pages.
func Execute(in Input) ResultPage {
	scope := in.Scope
	if scope != nil && !(scope.RadiusKm > 0) {
		scope = nil
	}

	matched := make([]OfferResult, 0, len(in.Candidates))
	for _, o := range in.Candidates {
		if !in.Plan.Match(o) {
			continue
		}
		res := OfferResult{Offer: o, Restaurant: o.Restaurant.Summary()}
		if scope != nil {
			if pos, ok := o.Position(); ok {
				d := geo.Distance(scope.Center, pos)
				if d > scope.RadiusKm {
					continue
				}
				res.Distance = &d
			}
		}
		matched = append(matched, res)
	}

	order := in.Plan.Order
	if order.Field == FieldDistance && scope == nil {
		order = defaultOrdering()
	}
	sortResults(matched, order)

	page, limit := normalizePage(in.Page)
	return ResultPage{
		Offers:     slicePage(matched, page, limit),
		Filters:    Facets(in.Restaurants),
		Pagination: paginate(len(matched), page, limit),
	}
}

// sortResults establishes a total order: id ascending first, then a stable
// sort on the requested field, so ties always resolve by id.
func sortResults(results []OfferResult, order Ordering) {
	slices.SortFunc(results, func(a, b OfferResult) int {
		return cmp.Compare(a.ID, b.ID)
	})
	slices.SortStableFunc(results, func(a, b OfferResult) int {
		return compareBy(order, a, b)
	})
}

func compareBy(order Ordering, a, b OfferResult) int {
	var c int
	switch order.Field {
	case FieldDistance:
		// Absent distances always trail, independent of direction.
		return geo.CompareDistance(a.Distance, b.Distance)
	case FieldDiscount:
		c = cmp.Compare(a.Discount, b.Discount)
	case FieldDiscountedPrice:
		c = cmp.Compare(a.DiscountedPrice, b.DiscountedPrice)
	case FieldRating:
		c = cmp.Compare(a.Restaurant.Rating, b.Restaurant.Rating)
	case FieldExpiresAt:
		c = a.ExpiresAt.Compare(b.ExpiresAt)
	default:
		c = a.CreatedAt.Compare(b.CreatedAt)
	}
	if order.Descending {
		return -c
	}
	return c
}

func normalizePage(p PageRequest) (int, int) {
	page, limit := p.Page, p.Limit
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return page, limit
}

// pageStart returns the offset of the first result on page, or false when
// the page lies past the end. The bound is checked before multiplying so huge
// page numbers cannot overflow.
func pageStart(total, page, limit int) (int, bool) {
	if page-1 >= (total+limit-1)/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}

func slicePage(results []OfferResult, page, limit int) []OfferResult {
	start, ok := pageStart(len(results), page, limit)
	if !ok {
		return []OfferResult{}
	}
	end := min(start+limit, len(results))
	return results[start:end]
}

func paginate(total, page, limit int) Pagination {
	p := Pagination{
		Page:       page,
		Limit:      limit,
		TotalCount: total,
		TotalPages: (total + limit - 1) / limit,
	}
	if start, ok := pageStart(total, page, limit); ok {
		p.Count = min(limit, total-start)
	}
	if page < p.TotalPages {
		next := page + 1
		p.NextPage = &next
	}
	return p
}

// Facets returns the distinct non-empty cuisines and locations across all
// restaurants, sorted.
func Facets(restaurants []models.Restaurant) Filters {
	cuisines := make(map[string]struct{})
	locations := make(map[string]struct{})
	for _, r := range restaurants {
		if r.Cuisine != "" {
			cuisines[r.Cuisine] = struct{}{}
		}
		if r.Location != "" {
			locations[r.Location] = struct{}{}
		}
	}
	return Filters{
		Cuisines:  sortedKeys(cuisines),
		Locations: sortedKeys(locations),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
