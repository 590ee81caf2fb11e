package search

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"mealdeal/logger"
	"mealdeal/models"
)

// Source supplies the live offer and restaurant data a search runs over.
type Source interface {
	ListOffers(ctx context.Context) ([]models.Offer, error)
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
}

// Service loads candidates from storage and runs the search core over them.
type Service struct {
	source Source
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

// Search returns one page of offers matching the criteria.
func (s *Service) Search(ctx context.Context, c Criteria) (ResultPage, error) {
	log := logger.FromContext(ctx).WithFields(logger.Fields{
		"use_case": "SearchOffers",
		"sort_by":  string(c.SortBy),
		"page":     c.Page,
		"geo":      c.Scope != nil,
	})

	offers, restaurants, err := s.load(ctx)
	if err != nil {
		log.Error("Loading candidates failed", err, nil)
		return ResultPage{}, err
	}

	page := Execute(Input{
		Candidates:  offers,
		Restaurants: restaurants,
		Plan:        BuildPlan(c),
		Scope:       c.Scope,
		Page:        PageRequest{Page: c.Page, Limit: c.Limit},
	})

	log.Debug("Search finished", logger.Fields{
		"candidates":  len(offers),
		"total_found": page.Pagination.TotalCount,
		"on_page":     len(page.Offers),
	})
	return page, nil
}

// Filters returns the facet values across all restaurants.
func (s *Service) Filters(ctx context.Context) (Filters, error) {
	restaurants, err := s.source.ListRestaurants(ctx)
	if err != nil {
		return Filters{}, fmt.Errorf("list restaurants: %w", err)
	}
	return Facets(restaurants), nil
}

func (s *Service) load(ctx context.Context) ([]models.Offer, []models.Restaurant, error) {
	var (
		offers      []models.Offer
		restaurants []models.Restaurant
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		offers, err = s.source.ListOffers(ctx)
		if err != nil {
			return fmt.Errorf("list offers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		restaurants, err = s.source.ListRestaurants(ctx)
		if err != nil {
			return fmt.Errorf("list restaurants: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return offers, restaurants, nil
}
