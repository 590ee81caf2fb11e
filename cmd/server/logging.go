package main

import (
	"log/slog"

	"mealdeal/config"
	"mealdeal/logger"
)

// buildLogger wires stdout logging and, when enabled, Fluent Bit shipping.
// The returned func flushes and closes the Fluent client.
func buildLogger(cfg *config.Config) (logger.Logger, func(), error) {
	level, levelErr := logger.ParseLevel(cfg.LogLevel)
	stdout := logger.NewSlogAdapter(logger.SlogConfig{
		Level:    level,
		IsJSON:   cfg.LogFormat == "json",
		UseColor: cfg.LogFormat != "json",
	})
	if levelErr != nil {
		stdout.Warn("Unknown LOG_LEVEL, using info", logger.Fields{"error": levelErr.Error()})
	}

	if !cfg.FluentEnabled {
		return stdout, func() {}, nil
	}

	client, err := logger.NewFluentClient(logger.FluentConfig{
		Host:      cfg.FluentHost,
		Port:      cfg.FluentPort,
		TagPrefix: cfg.AppName,
	})
	if err != nil {
		return nil, nil, err
	}
	fluentLevel, err := logger.ParseLevel(cfg.FluentLevel)
	if err != nil {
		fluentLevel = slog.LevelInfo
	}
	fluentLogger, err := logger.NewFluentAdapter(client, fluentLevel)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	multi, err := logger.NewMulti(stdout, fluentLogger)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return multi, func() { client.Close() }, nil
}
