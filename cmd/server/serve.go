package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"mealdeal/auth"
	"mealdeal/config"
	"mealdeal/database"
	"mealdeal/geo"
	"mealdeal/handlers"
	"mealdeal/logger"
	"mealdeal/notify"
	"mealdeal/validation"
	"mealdeal/worker"
)

func newServeCmd(cfg **config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the geocoding worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *cfg)
		},
	}
	return cmd
}

// runServe initializes the store, API and background worker and serves until
// SIGINT or SIGTERM.
func runServe(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closeLog, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closeLog()
	for _, warning := range cfg.Warnings {
		log.Warn("Configuration value ignored", logger.Fields{"detail": warning})
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	store := database.NewStore(db)

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return err
	}
	validator, err := validation.New()
	if err != nil {
		return err
	}

	publisher := notify.Nop()
	if cfg.RabbitMQURL != "" {
		amqpPublisher, err := notify.DialAMQP(notify.AMQPConfig{URL: cfg.RabbitMQURL, Exchange: cfg.NotifyExchange})
		if err != nil {
			log.Error("RabbitMQ unavailable, notifications disabled", err, nil)
		} else {
			publisher = amqpPublisher
		}
	} else {
		log.Warn("RABBITMQ_URL not set, notifications disabled", nil)
	}
	defer publisher.Close()

	areas := geo.NewAreaCache()
	api := handlers.NewAPI(handlers.Deps{
		Store:           store,
		Validator:       validator,
		Publisher:       publisher,
		Locations:       geo.NewLocationCache(),
		Areas:           areas,
		LocationTTL:     cfg.LocationTTL,
		DefaultPageSize: cfg.DefaultPageSize,
	})

	mux := http.NewServeMux()
	api.Register(mux, auth.NewMiddleware(tokens))

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", handlers.TraceHeader},
		ExposedHeaders:   []string{handlers.TraceHeader},
		AllowCredentials: true,
	})
	handler := handlers.LoggerMiddleware(log)(middleware.Recoverer(c.Handler(mux)))

	if cfg.GoogleMapsAPIKey != "" {
		geocoder := worker.NewGeocodingWorker(store, worker.NewGoogleGeocoder(cfg.GoogleMapsAPIKey), worker.Config{
			Interval:      cfg.GeocodeInterval,
			Batch:         cfg.GeocodeBatch,
			Concurrency:   cfg.GeocodeConcurrency,
			RatePerSecond: cfg.GeocodeRPS,
			OnResolved:    areas.Reset,
		}, log)
		go geocoder.Run(ctx)
	} else {
		log.Warn("GOOGLE_MAPS_API_KEY not set, skipping geocoding", nil)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", logger.Fields{"port": cfg.Port})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
