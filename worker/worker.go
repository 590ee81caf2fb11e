package worker

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"mealdeal/geo"
	"mealdeal/logger"
	"mealdeal/models"
)

const (
	BatchSize        = 200
	WorkerPoolSize   = 50
	IntervalDuration = 2 * time.Second
)

// Store is the storage the geocoding worker needs.
type Store interface {
	PendingGeocodes(ctx context.Context, limit int) ([]models.Restaurant, error)
	SetCoordinate(ctx context.Context, id int64, c models.Coordinate, geohash string) error
	MarkGeocodeFailed(ctx context.Context, id int64) error
}

type Config struct {
	Interval    time.Duration
	Batch       int
	Concurrency int
	// RatePerSecond caps provider calls; zero means unlimited.
	RatePerSecond float64
	// OnResolved runs after a batch that stored at least one coordinate.
	OnResolved func()
}

// Stats summarises one batch.
type Stats struct {
	Resolved int
	Failed   int
	Skipped  int
}

// GeocodingWorker resolves coordinates for restaurants stuck in PENDING.
type GeocodingWorker struct {
	store    Store
	geocoder Geocoder
	cfg      Config
	limiter  *rate.Limiter
	log      logger.Logger
}

func NewGeocodingWorker(store Store, geocoder Geocoder, cfg Config, log logger.Logger) *GeocodingWorker {
	if cfg.Interval <= 0 {
		cfg.Interval = IntervalDuration
	}
	if cfg.Batch <= 0 {
		cfg.Batch = BatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = WorkerPoolSize
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	return &GeocodingWorker{
		store:    store,
		geocoder: geocoder,
		cfg:      cfg,
		limiter:  limiter,
		log:      log.WithFields(logger.Fields{"component": "GeocodingWorker"}),
	}
}

// Run processes a batch on every tick until ctx is cancelled.
func (w *GeocodingWorker) Run(ctx context.Context) {
	w.log.Info("Starting geocoding worker", logger.Fields{
		"batch":       w.cfg.Batch,
		"concurrency": w.cfg.Concurrency,
		"interval":    w.cfg.Interval.String(),
	})
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Geocoding worker stopped", nil)
			return
		case <-ticker.C:
			w.finishBatch(w.ProcessBatch(ctx))
		}
	}
}

// finishBatch reports a batch. Coordinates stored before a failure still
// count as resolved.
func (w *GeocodingWorker) finishBatch(stats Stats, err error) {
	if stats.Resolved > 0 && w.cfg.OnResolved != nil {
		w.cfg.OnResolved()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		w.log.Error("Geocoding batch failed", err, logger.Fields{"resolved": stats.Resolved})
		return
	}
	if stats.Resolved+stats.Failed > 0 {
		w.log.Info("Geocoding batch done", logger.Fields{"resolved": stats.Resolved, "failed": stats.Failed, "skipped": stats.Skipped})
	}
}

// ProcessBatch resolves one batch of pending restaurants. Transient provider
// errors leave a restaurant PENDING for the next batch.
func (w *GeocodingWorker) ProcessBatch(ctx context.Context) (Stats, error) {
	pending, err := w.store.PendingGeocodes(ctx, w.cfg.Batch)
	if err != nil {
		return Stats{}, err
	}

	var resolved, failed, skipped atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.Concurrency)

	for _, r := range pending {
		g.Go(func() error {
			if err := w.limiter.Wait(ctx); err != nil {
				return err
			}
			log := w.log.WithFields(logger.Fields{"restaurant_id": r.ID, "name": r.Name})

			coord, err := w.geocoder.Geocode(ctx, address(r))
			switch {
			case errors.Is(err, ErrNotGeocodable):
				if err := w.store.MarkGeocodeFailed(ctx, r.ID); err != nil {
					log.Error("Failed to mark restaurant", err, nil)
					return nil
				}
				log.Warn("Geocoding failed permanently", logger.Fields{"error": err.Error()})
				failed.Add(1)
				return nil
			case err != nil:
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Warn("Geocoding failed, will retry", logger.Fields{"error": err.Error()})
				skipped.Add(1)
				return nil
			}

			if err := w.store.SetCoordinate(ctx, r.ID, coord, geo.Encode(coord)); err != nil {
				log.Error("Failed to update restaurant", err, nil)
				return nil
			}
			log.Debug("Resolved", logger.Fields{"lat": coord.Latitude, "lng": coord.Longitude})
			resolved.Add(1)
			return nil
		})
	}

	err = g.Wait()
	return Stats{Resolved: int(resolved.Load()), Failed: int(failed.Load()), Skipped: int(skipped.Load())}, err
}

func address(r models.Restaurant) string {
	parts := []string{r.Name}
	if loc := strings.TrimSpace(r.Location); loc != "" {
		parts = append(parts, loc)
	}
	return strings.Join(parts, ", ")
}
