package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type failingSink struct{ slog.Handler }

func (failingSink) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func (f failingSink) WithAttrs([]slog.Attr) slog.Handler { return f }

func (f failingSink) WithGroup(string) slog.Handler { return f }

func TestNewTeeHandlerCollapses(t *testing.T) {
	inner := slog.NewJSONHandler(&bytes.Buffer{}, nil)
	if _, ok := newTeeHandler(nil, nil).(NoopHandler); !ok {
		t.Error("expected NoopHandler when every sink is nil")
	}
	if got := newTeeHandler(nil, inner); got != slog.Handler(inner) {
		t.Errorf("expected the single live sink back, got %T", got)
	}
}

func TestTeeHandlerRoutesByLevel(t *testing.T) {
	tests := []struct {
		name        string
		log         func(*slog.Logger)
		wantConsole bool
		wantFile    bool
	}{
		{"debug reaches only the file", func(l *slog.Logger) { l.Debug("profiling entries") }, false, true},
		{"info reaches both", func(l *slog.Logger) { l.Info("index built") }, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var console, file bytes.Buffer
			h := newTeeHandler(
				slog.NewJSONHandler(&console, &slog.HandlerOptions{Level: slog.LevelInfo}),
				slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}),
			)
			tt.log(slog.New(h.WithAttrs([]slog.Attr{slog.String(FieldComponent, "index")})))

			if got := console.Len() > 0; got != tt.wantConsole {
				t.Errorf("console written = %v, want %v", got, tt.wantConsole)
			}
			if got := file.Len() > 0; got != tt.wantFile {
				t.Errorf("file written = %v, want %v", got, tt.wantFile)
			}
			if tt.wantFile && !strings.Contains(file.String(), `"component":"index"`) {
				t.Errorf("attrs not carried to file sink: %s", file.String())
			}
		})
	}
}

func TestTeeHandlerKeepsWritingAfterSinkError(t *testing.T) {
	var file bytes.Buffer
	broken := failingSink{slog.NewJSONHandler(&bytes.Buffer{}, nil)}
	h := newTeeHandler(broken, slog.NewJSONHandler(&file, nil)).WithGroup("link")

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "link run complete", 0)
	record.AddAttrs(slog.Int("accepted", 3))
	if err := h.Handle(context.Background(), record); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected sink error, got %v", err)
	}
	if !strings.Contains(file.String(), `"link":{"accepted":3}`) {
		t.Fatalf("second sink missed the record: %s", file.String())
	}
}

func TestRecordHandlerFormatsFileRecords(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelDebug)
	logger := slog.New(newRecordHandler(&buf, lvl, true))

	logger.Warn("benchmark timed out", slog.Duration("elapsed", 1500*time.Millisecond))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v (%s)", err, buf.String())
	}
	if record["level"] != "warn" || record["msg"] != "benchmark timed out" || record["elapsed"] != "1.5s" {
		t.Fatalf("unexpected record %v", record)
	}
	ts, _ := record["ts"].(string)
	if _, err := time.Parse(fileTimestampLayout, ts); err != nil {
		t.Fatalf("ts %q does not match layout: %v", ts, err)
	}
	if caller, _ := record["caller"].(string); !strings.Contains(caller, "tee_handler_test.go:") {
		t.Fatalf("caller = %q", record["caller"])
	}
}
