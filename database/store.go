package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mealdeal/models"
)

var ErrNotFound = errors.New("record not found")

// Store reads and writes MealDeal records in Postgres.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const restaurantColumns = `r.id, r.name, r.cuisine, r.description, r.location, r.latitude, r.longitude,
	r.geohash, r.geo_status, r.phone, r.hours, r.rating, r.review_count, r.image, r.owner_id, r.created_at`

const offerColumns = `o.id, o.restaurant_id, o.title, o.description, o.original_price, o.discounted_price,
	o.discount, o.terms, o.expires_at, o.is_active, o.created_at`

type scanner interface {
	Scan(dest ...any) error
}

func restaurantDest(r *models.Restaurant, lat, lng *sql.NullFloat64) []any {
	return []any{&r.ID, &r.Name, &r.Cuisine, &r.Description, &r.Location, lat, lng,
		&r.Geohash, &r.GeoStatus, &r.Phone, &r.Hours, &r.Rating, &r.ReviewCount, &r.Image, &r.OwnerID, &r.CreatedAt}
}

func offerDest(o *models.Offer) []any {
	return []any{&o.ID, &o.RestaurantID, &o.Title, &o.Description, &o.OriginalPrice, &o.DiscountedPrice,
		&o.Discount, &o.Terms, &o.ExpiresAt, &o.IsActive, &o.CreatedAt}
}

// ScanRestaurant reads one row selected with restaurantColumns.
func ScanRestaurant(row scanner) (models.Restaurant, error) {
	var r models.Restaurant
	var lat, lng sql.NullFloat64
	if err := row.Scan(restaurantDest(&r, &lat, &lng)...); err != nil {
		return r, err
	}
	r.Coordinates = coordinateFromNull(lat, lng)
	return r, nil
}

// ScanOffer reads one row selected with offerColumns followed by restaurantColumns.
func ScanOffer(row scanner) (models.Offer, error) {
	var o models.Offer
	var lat, lng sql.NullFloat64
	dest := append(offerDest(&o), restaurantDest(&o.Restaurant, &lat, &lng)...)
	if err := row.Scan(dest...); err != nil {
		return o, err
	}
	o.Restaurant.Coordinates = coordinateFromNull(lat, lng)
	return o, nil
}

// coordinateFromNull maps nullable columns to an optional coordinate. A
// half-present pair counts as unlocated.
func coordinateFromNull(lat, lng sql.NullFloat64) *models.Coordinate {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &models.Coordinate{Latitude: lat.Float64, Longitude: lng.Float64}
}

func nullCoordinate(c *models.Coordinate) (sql.NullFloat64, sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Latitude, Valid: true}, sql.NullFloat64{Float64: c.Longitude, Valid: true}
}

func (s *Store) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+restaurantColumns+" FROM restaurants r ORDER BY r.id ASC")
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := []models.Restaurant{}
	for rows.Next() {
		r, err := ScanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		restaurants = append(restaurants, r)
	}
	return restaurants, rows.Err()
}

func (s *Store) queryOffers(ctx context.Context, where string, args ...any) ([]models.Offer, error) {
	query := "SELECT " + offerColumns + ", " + restaurantColumns +
		" FROM offers o JOIN restaurants r ON r.id = o.restaurant_id " + where + " ORDER BY o.id ASC"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query offers: %w", err)
	}
	defer rows.Close()

	offers := []models.Offer{}
	for rows.Next() {
		o, err := ScanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// ListOffers returns every offer with its owning restaurant attached.
func (s *Store) ListOffers(ctx context.Context) ([]models.Offer, error) {
	return s.queryOffers(ctx, "")
}

func (s *Store) ListOffersByRestaurant(ctx context.Context, restaurantID int64) ([]models.Offer, error) {
	return s.queryOffers(ctx, "WHERE o.restaurant_id = $1", restaurantID)
}

func (s *Store) GetRestaurant(ctx context.Context, id int64) (models.Restaurant, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+restaurantColumns+" FROM restaurants r WHERE r.id = $1", id)
	r, err := ScanRestaurant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("restaurant %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return r, fmt.Errorf("get restaurant %d: %w", id, err)
	}
	return r, nil
}

func (s *Store) GetOffer(ctx context.Context, id int64) (models.Offer, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+offerColumns+", "+restaurantColumns+
		" FROM offers o JOIN restaurants r ON r.id = o.restaurant_id WHERE o.id = $1", id)
	o, err := ScanOffer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return o, fmt.Errorf("offer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return o, fmt.Errorf("get offer %d: %w", id, err)
	}
	return o, nil
}

// CreateRestaurant inserts r and fills in its generated id and timestamps.
func (s *Store) CreateRestaurant(ctx context.Context, r *models.Restaurant) error {
	lat, lng := nullCoordinate(r.Coordinates)
	if r.GeoStatus == "" {
		r.GeoStatus = models.GeoStatusPending
		if r.Coordinates != nil {
			r.GeoStatus = models.GeoStatusResolved
		}
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO restaurants (name, cuisine, description, location, latitude, longitude, geohash, geo_status,
		                         phone, hours, rating, review_count, image, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at
	`, r.Name, r.Cuisine, r.Description, r.Location, lat, lng, r.Geohash, r.GeoStatus,
		r.Phone, r.Hours, r.Rating, r.ReviewCount, r.Image, r.OwnerID).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert restaurant: %w", err)
	}
	return nil
}

// CreateOffer inserts o and fills in its generated id and creation time.
func (s *Store) CreateOffer(ctx context.Context, o *models.Offer) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO offers (restaurant_id, title, description, original_price, discounted_price, discount,
		                    terms, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, o.RestaurantID, o.Title, o.Description, o.OriginalPrice, o.DiscountedPrice, o.Discount,
		o.Terms, o.ExpiresAt, o.IsActive).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

func (s *Store) CreateClaim(ctx context.Context, c *models.Claim) error {
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO claims (offer_id, user_id, code) VALUES ($1, $2, $3) RETURNING id, created_at",
		c.OfferID, c.UserID, c.Code).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert claim: %w", err)
	}
	return nil
}

func (s *Store) CountClaims(ctx context.Context, offerID int64) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM claims WHERE offer_id = $1", offerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count claims for offer %d: %w", offerID, err)
	}
	return n, nil
}

// PendingGeocodes returns up to limit restaurants still waiting for coordinates.
func (s *Store) PendingGeocodes(ctx context.Context, limit int) ([]models.Restaurant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+restaurantColumns+" FROM restaurants r WHERE r.geo_status = $1 ORDER BY r.id ASC LIMIT $2",
		models.GeoStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending restaurants: %w", err)
	}
	defer rows.Close()

	var pending []models.Restaurant
	for rows.Next() {
		r, err := ScanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		pending = append(pending, r)
	}
	return pending, rows.Err()
}

func (s *Store) SetCoordinate(ctx context.Context, id int64, c models.Coordinate, geohash string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE restaurants
		SET latitude = $1, longitude = $2, geohash = $3, geo_status = $4
		WHERE id = $5
	`, c.Latitude, c.Longitude, geohash, models.GeoStatusResolved, id)
	if err != nil {
		return fmt.Errorf("update restaurant %d coordinates: %w", id, err)
	}
	return expectOne(res, "restaurant", id)
}

func (s *Store) MarkGeocodeFailed(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "UPDATE restaurants SET geo_status = $1 WHERE id = $2", models.GeoStatusFailed, id)
	if err != nil {
		return fmt.Errorf("mark restaurant %d failed: %w", id, err)
	}
	return expectOne(res, "restaurant", id)
}

func expectOne(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: %w", kind, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}
