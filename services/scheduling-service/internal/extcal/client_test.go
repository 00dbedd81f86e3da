package extcal

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBusyIntervalsNoIntegration(t *testing.T) {
	c := NewClient("", nil, testLogger(), 0)

	got, err := c.BusyIntervals(context.Background(), "user-1", time.Now(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("expected nil error without integration, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no intervals, got %d", len(got))
	}
}

func TestBusyIntervalsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/busy" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("user_id"); got != "user-1" {
			t.Errorf("expected user_id=user-1, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"start_time": "2026-03-02T10:00:00Z", "end_time": "2026-03-02T11:00:00Z"},
			{"start_time": "2026-03-02T13:00:00Z", "end_time": "2026-03-02T13:00:00Z"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, testLogger(), 0)

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	got, err := c.BusyIntervals(context.Background(), "user-1", from, from.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected the zero-length block dropped, got %d intervals", len(got))
	}
	want := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if !got[0].Start.Equal(want) {
		t.Fatalf("expected start %v, got %v", want, got[0].Start)
	}
}

func TestBusyIntervalsNotFoundMeansEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, testLogger(), 0)

	got, err := c.BusyIntervals(context.Background(), "user-1", time.Now(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("404 should not be an error, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result for unconnected user, got %d", len(got))
	}
}

func TestBusyIntervalsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, testLogger(), 0)

	if _, err := c.BusyIntervals(context.Background(), "user-1", time.Now(), time.Now().Add(time.Hour)); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestKind(t *testing.T) {
	c := NewClient("", nil, testLogger(), 0)
	if c.Kind() != model.SourceExternalEvent {
		t.Fatalf("expected external-event kind, got %s", c.Kind())
	}
}
