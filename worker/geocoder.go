package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gopkg.in/resty.v1"

	"mealdeal/models"
)

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// ErrNotGeocodable means the provider answered but the address cannot be
// resolved. Retrying will not help.
var ErrNotGeocodable = errors.New("address not geocodable")

// Geocoder resolves a free-text address to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinate, error)
}

// GoogleGeocoder calls the Google Maps Geocoding API.
type GoogleGeocoder struct {
	client  *resty.Client
	baseURL string
	apiKey  string
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		client:  resty.New().SetTimeout(10 * time.Second),
		baseURL: googleGeocodeURL,
		apiKey:  apiKey,
	}
}

type geocodeResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"address": address, "key": g.apiKey}).
		Get(g.baseURL)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("geocode request: %w", err)
	}
	if resp.IsError() {
		return models.Coordinate{}, fmt.Errorf("geocode request: http %d", resp.StatusCode())
	}

	var result geocodeResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return models.Coordinate{}, fmt.Errorf("decode geocode response: %w", err)
	}

	switch result.Status {
	case "OK":
	case "ZERO_RESULTS":
		return models.Coordinate{}, ErrNotGeocodable
	case "INVALID_REQUEST":
		// The same address would be rejected again on every retry.
		return models.Coordinate{}, fmt.Errorf("%w: %s %s", ErrNotGeocodable, result.Status, result.ErrorMessage)
	default:
		return models.Coordinate{}, fmt.Errorf("API error: %s %s", result.Status, result.ErrorMessage)
	}
	if len(result.Results) == 0 {
		return models.Coordinate{}, ErrNotGeocodable
	}

	loc := result.Results[0].Geometry.Location
	c := models.Coordinate{Latitude: loc.Lat, Longitude: loc.Lng}
	if !c.Valid() {
		return models.Coordinate{}, fmt.Errorf("%w: coordinate out of range %v", ErrNotGeocodable, c)
	}
	return c, nil
}
