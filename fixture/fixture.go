package fixture

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"mealdeal/geo"
	"mealdeal/models"
)

//go:embed sample.yaml
var sampleYAML []byte

// ErrInvalidDataset is returned when fixture data violates model invariants.
var ErrInvalidDataset = errors.New("fixture dataset is invalid")

// Dataset is a set of restaurants with their offers.
type Dataset struct {
	Restaurants []RestaurantRecord `yaml:"restaurants"`
}

type RestaurantRecord struct {
	ID          int64              `yaml:"id"`
	Name        string             `yaml:"name"`
	Cuisine     string             `yaml:"cuisine"`
	Description string             `yaml:"description"`
	Location    string             `yaml:"location"`
	Coordinates *models.Coordinate `yaml:"coordinates"`
	Phone       string             `yaml:"phone"`
	Hours       string             `yaml:"hours"`
	Rating      float64            `yaml:"rating"`
	ReviewCount int                `yaml:"review_count"`
	Image       string             `yaml:"image"`
	OwnerID     string             `yaml:"owner_id"`
	CreatedAt   time.Time          `yaml:"created_at"`
	Offers      []OfferRecord      `yaml:"offers"`
}

type OfferRecord struct {
	ID              int64     `yaml:"id"`
	Title           string    `yaml:"title"`
	Description     string    `yaml:"description"`
	OriginalPrice   float64   `yaml:"original_price"`
	DiscountedPrice float64   `yaml:"discounted_price"`
	Discount        float64   `yaml:"discount"`
	Terms           string    `yaml:"terms"`
	ExpiresAt       time.Time `yaml:"expires_at"`
	IsActive        bool      `yaml:"is_active"`
	CreatedAt       time.Time `yaml:"created_at"`
}

// Sample returns the bundled demo dataset.
func Sample() (Dataset, error) {
	return Parse(sampleYAML)
}

// Load reads a dataset from a YAML file.
func Load(path string) (Dataset, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(payload)
}

// Parse decodes and validates a YAML dataset.
func Parse(payload []byte) (Dataset, error) {
	var d Dataset
	if err := yaml.Unmarshal(payload, &d); err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if err := d.validate(); err != nil {
		return Dataset{}, err
	}
	return d, nil
}

func (d Dataset) validate() error {
	restaurantIDs := make(map[int64]struct{}, len(d.Restaurants))
	offerIDs := make(map[int64]struct{})
	for _, r := range d.Restaurants {
		if _, dup := restaurantIDs[r.ID]; dup {
			return fmt.Errorf("%w: duplicate restaurant id %d", ErrInvalidDataset, r.ID)
		}
		restaurantIDs[r.ID] = struct{}{}
		if r.Coordinates != nil && !r.Coordinates.Valid() {
			return fmt.Errorf("%w: restaurant %d has out-of-range coordinates", ErrInvalidDataset, r.ID)
		}
		for _, o := range r.Offers {
			if _, dup := offerIDs[o.ID]; dup {
				return fmt.Errorf("%w: duplicate offer id %d", ErrInvalidDataset, o.ID)
			}
			offerIDs[o.ID] = struct{}{}
			if o.DiscountedPrice >= o.OriginalPrice {
				return fmt.Errorf("%w: offer %d discounted price must be below original price", ErrInvalidDataset, o.ID)
			}
		}
	}
	return nil
}

// Models converts the dataset into domain models. Offers carry their
// restaurant.
func (d Dataset) Models() ([]models.Restaurant, []models.Offer) {
	restaurants := make([]models.Restaurant, 0, len(d.Restaurants))
	var offers []models.Offer
	for _, rec := range d.Restaurants {
		r := models.Restaurant{
			ID:          rec.ID,
			Name:        rec.Name,
			Cuisine:     rec.Cuisine,
			Description: rec.Description,
			Location:    rec.Location,
			Coordinates: rec.Coordinates,
			Phone:       rec.Phone,
			Hours:       rec.Hours,
			Rating:      rec.Rating,
			ReviewCount: rec.ReviewCount,
			Image:       rec.Image,
			OwnerID:     rec.OwnerID,
			GeoStatus:   models.GeoStatusPending,
			CreatedAt:   rec.CreatedAt,
		}
		if rec.Coordinates != nil {
			r.GeoStatus = models.GeoStatusResolved
			r.Geohash = geo.Encode(*rec.Coordinates)
		}
		restaurants = append(restaurants, r)

		for _, o := range rec.Offers {
			offers = append(offers, models.Offer{
				ID:              o.ID,
				RestaurantID:    rec.ID,
				Title:           o.Title,
				Description:     o.Description,
				OriginalPrice:   o.OriginalPrice,
				DiscountedPrice: o.DiscountedPrice,
				Discount:        o.Discount,
				Terms:           o.Terms,
				ExpiresAt:       o.ExpiresAt,
				IsActive:        o.IsActive,
				CreatedAt:       o.CreatedAt,
				Restaurant:      r,
			})
		}
	}
	return restaurants, offers
}

// Source serves a dataset to the search service without a database.
type Source struct {
	restaurants []models.Restaurant
	offers      []models.Offer
}

func NewSource(d Dataset) *Source {
	restaurants, offers := d.Models()
	return &Source{restaurants: restaurants, offers: offers}
}
