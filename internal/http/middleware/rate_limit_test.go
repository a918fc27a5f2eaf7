package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/velorahq/velora-api/internal/http/middleware"
)

// countingDB behaves like the Postgres upsert counter: every query bumps the
// window count and returns it.
type countingDB struct {
	count int
}

func (db *countingDB) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	db.count++
	return scanRow{count: db.count}
}

// failingDB simulates a datastore outage.
type failingDB struct{}

func (failingDB) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return scanRow{err: errors.New("connection refused")}
}

type scanRow struct {
	count int
	err   error
}

func (r scanRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int)) = r.count
	return nil
}

func limitedHandler(db middleware.Queryer, requests int) http.Handler {
	rl := middleware.NewRateLimiter(db, middleware.RateLimitConfig{
		Requests: requests,
		Window:   time.Minute,
		KeyFunc:  middleware.FormRateLimitKeyFunc,
	})
	return rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	handler := limitedHandler(&countingDB{}, 3)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/v1/leads/waitlist", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("Request %d: expected 200 under the limit, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/leads/waitlist", nil)
	req.RemoteAddr = "203.0.113.7:4000"
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 over the limit, got %d", rec.Code)
	}
}

func TestRateLimiter_FailsOpenOnDatastoreError(t *testing.T) {
	handler := limitedHandler(failingDB{}, 1)

	// Every counter query errors, so no request is ever throttled.
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/v1/bookings/attempts", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("Request %d: expected fail-open 200, got %d", i+1, rec.Code)
		}
	}
}

func TestRateLimiter_SkipFunc(t *testing.T) {
	db := &countingDB{}
	rl := middleware.NewRateLimiter(db, middleware.RateLimitConfig{
		Requests: 1,
		Window:   time.Minute,
		KeyFunc:  middleware.FormRateLimitKeyFunc,
		SkipFunc: func(r *http.Request) bool { return r.Header.Get("X-Internal") != "" },
	})
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/v1/leads/contact", nil)
	req.Header.Set("X-Internal", "1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Skipped request was throttled: %d", rec.Code)
	}
	if db.count != 0 {
		t.Fatalf("Skipped request hit the counter %d times", db.count)
	}
}
