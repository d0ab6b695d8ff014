package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// captureLogOutput redirects the global logger to a buffer while f runs.
func captureLogOutput(t *testing.T, level Level, format Format, f func()) string {
	t.Helper()
	var buf bytes.Buffer
	old := defaultLogger
	InitLoggerTo(&buf, level, format)
	defer func() {
		defaultLogger = old
		slog.SetDefault(old)
	}()
	f()
	return buf.String()
}

func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("log line %q is not JSON: %v", line, err)
	}
	return m
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"Text", FormatText, false},
		{"", FormatText, false},
		{"xml", FormatText, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestInitLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		wantDebug bool
		wantWarn  bool
	}{
		{"debug", LevelDebug, true, true},
		{"info", LevelInfo, false, true},
		{"error", LevelError, false, false},
		{"invalid falls back to info", Level(999), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureLogOutput(t, tt.level, FormatText, func() {
				DebugContext(context.Background(), "debug message")
				WarnContext(context.Background(), "warn message")
			})
			if got := strings.Contains(out, "debug message"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "warn message"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestTimestampFormat(t *testing.T) {
	out := captureLogOutput(t, LevelInfo, FormatJSON, func() {
		ErrorContext(context.Background(), "stamped")
	})
	m := decodeLine(t, strings.TrimSpace(out))
	ts, ok := m["time"].(string)
	if !ok {
		t.Fatalf("time attribute missing in %v", m)
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q is not RFC3339: %v", ts, err)
	}
}

func TestContextValues(t *testing.T) {
	ctx := WithDocumentID(WithRequestID(context.Background(), "req-1"), "http://ex.org/doc")
	if GetRequestID(ctx) != "req-1" {
		t.Errorf("GetRequestID() = %q", GetRequestID(ctx))
	}
	if GetDocumentID(ctx) != "http://ex.org/doc" {
		t.Errorf("GetDocumentID() = %q", GetDocumentID(ctx))
	}
	if GetRequestID(context.Background()) != "" || GetDocumentID(context.Background()) != "" {
		t.Error("empty context should carry no ids")
	}

	out := captureLogOutput(t, LevelDebug, FormatJSON, func() {
		InfoContext(ctx, "with context")
	})
	m := decodeLine(t, strings.TrimSpace(out))
	if m["request_id"] != "req-1" || m["document_id"] != "http://ex.org/doc" {
		t.Errorf("context attributes missing: %v", m)
	}
}

func TestDomainHelpers(t *testing.T) {
	ctx := context.Background()
	out := captureLogOutput(t, LevelDebug, FormatJSON, func() {
		DocumentLoaded(ctx, "d", "ntriples", 6)
		DocumentWritten(ctx, "d", "yaml", 120, "compressed", false)
		FetchCompleted(ctx, "http://ex.org/t", 200, time.Millisecond)
		FetchFailed(nil, "http://ex.org/t", errors.New("boom"))
		FormatError("sqlite", "write", errors.New("disk full"))
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d log lines, want 5:\n%s", len(lines), out)
	}
	want := []struct {
		msg   string
		level string
		key   string
		value any
	}{
		{"document_loaded", "INFO", "nodes", float64(6)},
		{"document_written", "INFO", "compressed", false},
		{"fetch_completed", "DEBUG", "status_code", float64(200)},
		{"fetch_failed", "WARN", "error", "boom"},
		{"format_error", "ERROR", "operation", "write"},
	}
	for i, w := range want {
		m := decodeLine(t, lines[i])
		if m["msg"] != w.msg || m["level"] != w.level || m[w.key] != w.value {
			t.Errorf("line %d = %v; want msg=%s level=%s %s=%v", i, m, w.msg, w.level, w.key, w.value)
		}
	}
}

func TestFetchFailedUsesGivenLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelWarn, FormatText)
	FetchFailed(logger, "file:///missing", errors.New("not found"), "document", "d")
	if !strings.Contains(buf.String(), "fetch_failed") || !strings.Contains(buf.String(), "document=d") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestTransport(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewTransport(nil)}

	out := captureLogOutput(t, LevelDebug, FormatJSON, func() {
		req, _ := http.NewRequestWithContext(WithRequestID(context.Background(), "fixed"), http.MethodGet, srv.URL, nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		resp.Body.Close()
	})
	if seen != "fixed" {
		t.Errorf("X-Request-ID = %q, want fixed", seen)
	}
	m := decodeLine(t, strings.TrimSpace(out))
	if m["msg"] != "fetch_completed" || m["status_code"] != float64(http.StatusTeapot) || m["request_id"] != "fixed" {
		t.Errorf("unexpected log %v", m)
	}

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if len(seen) != 16 {
		t.Errorf("generated request id %q should be 16 hex chars", seen)
	}
}
