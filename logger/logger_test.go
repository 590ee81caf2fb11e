package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type recordingPoster struct {
	tags     []string
	messages []map[string]interface{}
}

func (r *recordingPoster) Post(tag string, message interface{}) error {
	r.tags = append(r.tags, tag)
	r.messages = append(r.messages, map[string]interface{}(message.(Fields)))
	return nil
}

func TestSlogAdapterJSONIncludesFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogAdapter(SlogConfig{Writer: &buf, IsJSON: true}).WithFields(Fields{"component": "search"})
	l.Error("lookup failed", errors.New("boom"), Fields{"offer_id": 7})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "search" || entry["error"] != "boom" || entry["msg"] != "lookup failed" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestSlogAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelWarn})
	l.Info("hidden", nil)
	l.Debug("hidden", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}
	l.Warn("shown", nil)
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn entry, got %q", buf.String())
	}
}

func TestFluentAdapterFiltersAndMerges(t *testing.T) {
	rec := &recordingPoster{}
	l := newFluentAdapter(rec, slog.LevelInfo).WithFields(Fields{"service": "mealdeal"})

	l.Debug("dropped", nil)
	l.Info("kept", Fields{"k": "v"})

	if len(rec.tags) != 1 || rec.tags[0] != "info" {
		t.Fatalf("expected a single info post, got %v", rec.tags)
	}
	msg := rec.messages[0]
	if msg["service"] != "mealdeal" || msg["k"] != "v" || msg["message"] != "kept" {
		t.Fatalf("unexpected fluent payload: %+v", msg)
	}
}

func TestMultiRequiresLoggers(t *testing.T) {
	if _, err := NewMulti(); err == nil {
		t.Fatalf("expected error for empty multilogger")
	}
}

func TestMultiFansOut(t *testing.T) {
	a, b := &recordingPoster{}, &recordingPoster{}
	m, err := NewMulti(newFluentAdapter(a, nil), newFluentAdapter(b, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.WithFields(Fields{"x": 1}).Warn("careful", nil)
	if len(a.tags) != 1 || len(b.tags) != 1 {
		t.Fatalf("expected both loggers to receive the entry")
	}
}

func TestFromContextFallsBackToNop(t *testing.T) {
	if _, ok := FromContext(context.Background()).(nopLogger); !ok {
		t.Fatalf("expected nop logger when none stored")
	}
	rec := newFluentAdapter(&recordingPoster{}, nil)
	ctx := WithContext(context.Background(), rec)
	if FromContext(ctx) != Logger(rec) {
		t.Fatalf("expected stored logger")
	}
	ctx = WithTraceID(ctx, "abc")
	if TraceIDFromContext(ctx) != "abc" {
		t.Fatalf("expected trace id roundtrip")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{"debug": slog.LevelDebug, "": slog.LevelInfo, "WARN": slog.LevelWarn, "error": slog.LevelError}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
