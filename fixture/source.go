package fixture

import (
	"context"
	"slices"

	"mealdeal/models"
)

func (s *Source) ListOffers(ctx context.Context) ([]models.Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s.offers), nil
}

func (s *Source) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s.restaurants), nil
}
