package handlers

import (
	"context"
	"time"

	"mealdeal/geo"
	"mealdeal/models"
	"mealdeal/notify"
	"mealdeal/search"
	"mealdeal/validation"
)

// Store is the persistence the HTTP handlers need beyond search.
type Store interface {
	search.Source
	GetRestaurant(ctx context.Context, id int64) (models.Restaurant, error)
	ListOffersByRestaurant(ctx context.Context, restaurantID int64) ([]models.Offer, error)
	GetOffer(ctx context.Context, id int64) (models.Offer, error)
	CreateRestaurant(ctx context.Context, r *models.Restaurant) error
	CreateOffer(ctx context.Context, o *models.Offer) error
	CreateClaim(ctx context.Context, c *models.Claim) error
	CountClaims(ctx context.Context, offerID int64) (int, error)
}

type Deps struct {
	Store     Store
	Validator *validation.Validator
	Publisher notify.Publisher
	Locations *geo.LocationCache
	Areas     *geo.AreaCache

	LocationTTL     time.Duration
	DefaultPageSize int
	Now             func() time.Time
}

// API groups the MealDeal HTTP handlers.
type API struct {
	store       Store
	search      *search.Service
	validator   *validation.Validator
	publisher   notify.Publisher
	locations   *geo.LocationCache
	areas       *geo.AreaCache
	locationTTL time.Duration
	pageSize    int
	now         func() time.Time
}

func NewAPI(d Deps) *API {
	a := &API{
		store:       d.Store,
		search:      search.NewService(d.Store),
		validator:   d.Validator,
		publisher:   d.Publisher,
		locations:   d.Locations,
		areas:       d.Areas,
		locationTTL: d.LocationTTL,
		pageSize:    d.DefaultPageSize,
		now:         d.Now,
	}
	if a.publisher == nil {
		a.publisher = notify.Nop()
	}
	if a.locations == nil {
		a.locations = geo.NewLocationCache()
	}
	if a.areas == nil {
		a.areas = geo.NewAreaCache()
	}
	if a.pageSize <= 0 {
		a.pageSize = search.DefaultLimit
	}
	a.pageSize = min(a.pageSize, search.MaxLimit)
	if a.now == nil {
		a.now = time.Now
	}
	return a
}
