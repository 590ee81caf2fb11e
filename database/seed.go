package database

import (
	"context"
	"fmt"

	"mealdeal/models"
)

// Seed upserts restaurants and offers with their given ids in one
// transaction, then moves the id sequences past them.
func (s *Store) Seed(ctx context.Context, restaurants []models.Restaurant, offers []models.Offer) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, r := range restaurants {
		lat, lng := nullCoordinate(r.Coordinates)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO restaurants (id, name, cuisine, description, location, latitude, longitude, geohash, geo_status,
			                         phone, hours, rating, review_count, image, owner_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, cuisine = EXCLUDED.cuisine, description = EXCLUDED.description,
				location = EXCLUDED.location, latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
				geohash = EXCLUDED.geohash, geo_status = EXCLUDED.geo_status, phone = EXCLUDED.phone,
				hours = EXCLUDED.hours, rating = EXCLUDED.rating, review_count = EXCLUDED.review_count,
				image = EXCLUDED.image, owner_id = EXCLUDED.owner_id, created_at = EXCLUDED.created_at
		`, r.ID, r.Name, r.Cuisine, r.Description, r.Location, lat, lng, r.Geohash, r.GeoStatus,
			r.Phone, r.Hours, r.Rating, r.ReviewCount, r.Image, r.OwnerID, r.CreatedAt)
		if err != nil {
			return fmt.Errorf("seed restaurant %d: %w", r.ID, err)
		}
	}

	for _, o := range offers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO offers (id, restaurant_id, title, description, original_price, discounted_price, discount,
			                    terms, expires_at, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO UPDATE SET
				restaurant_id = EXCLUDED.restaurant_id, title = EXCLUDED.title, description = EXCLUDED.description,
				original_price = EXCLUDED.original_price, discounted_price = EXCLUDED.discounted_price,
				discount = EXCLUDED.discount, terms = EXCLUDED.terms, expires_at = EXCLUDED.expires_at,
				is_active = EXCLUDED.is_active, created_at = EXCLUDED.created_at
		`, o.ID, o.RestaurantID, o.Title, o.Description, o.OriginalPrice, o.DiscountedPrice, o.Discount,
			o.Terms, o.ExpiresAt, o.IsActive, o.CreatedAt)
		if err != nil {
			return fmt.Errorf("seed offer %d: %w", o.ID, err)
		}
	}

	for _, table := range []string{"restaurants", "offers"} {
		query := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))", table, table)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("advance %s sequence: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}
