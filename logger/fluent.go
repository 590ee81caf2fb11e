package logger

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// FluentConfig describes the Fluent Bit endpoint.
type FluentConfig struct {
	Host      string
	Port      int
	TagPrefix string
}

// NewFluentClient connects to Fluent Bit. The client dials lazily, so a
// nil error does not mean the endpoint is reachable.
func NewFluentClient(cfg FluentConfig) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluent tag prefix is required")
	}
	client, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
		Async:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("create fluent client: %w", err)
	}
	return client, nil
}

type poster interface {
	Post(tag string, message interface{}) error
}

// FluentAdapter ships entries to Fluent Bit, tagged by level.
type FluentAdapter struct {
	client   poster
	fields   Fields
	minLevel slog.Level
}

func NewFluentAdapter(client *fluent.Fluent, minLevel slog.Leveler) (*FluentAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("fluent client cannot be nil")
	}
	return newFluentAdapter(client, minLevel), nil
}

func newFluentAdapter(client poster, minLevel slog.Leveler) *FluentAdapter {
	level := slog.LevelInfo
	if minLevel != nil {
		level = minLevel.Level()
	}
	return &FluentAdapter{client: client, fields: Fields{}, minLevel: level}
}

func (a *FluentAdapter) merge(fields Fields) Fields {
	merged := make(Fields, len(a.fields)+len(fields)+3)
	for k, v := range a.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

func (a *FluentAdapter) post(level slog.Level, tag, msg string, data Fields) {
	if level < a.minLevel {
		return
	}
	data["level"] = tag
	data["message"] = msg
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	_ = a.client.Post(tag, data)
}

func (a *FluentAdapter) Info(msg string, fields Fields) {
	a.post(slog.LevelInfo, "info", msg, a.merge(fields))
}

func (a *FluentAdapter) Warn(msg string, fields Fields) {
	a.post(slog.LevelWarn, "warn", msg, a.merge(fields))
}

func (a *FluentAdapter) Error(msg string, err error, fields Fields) {
	data := a.merge(fields)
	if err != nil {
		data["error"] = err.Error()
	}
	a.post(slog.LevelError, "error", msg, data)
}

func (a *FluentAdapter) Debug(msg string, fields Fields) {
	a.post(slog.LevelDebug, "debug", msg, a.merge(fields))
}

func (a *FluentAdapter) WithFields(fields Fields) Logger {
	return &FluentAdapter{client: a.client, fields: a.merge(fields), minLevel: a.minLevel}
}
