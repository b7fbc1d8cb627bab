package exchange

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func rateServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.URL.Path != "/INR" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"INR","rates":{"INR":1,"USD":0.012,"EUR":0.011}}`))
	}))
}

func TestRatesFetch(t *testing.T) {
	var hits int32
	srv := rateServer(t, &hits)
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, time.Minute)
	rates, err := p.Rates("INR")
	if err != nil {
		t.Fatalf("rates: %v", err)
	}
	if rates["USD"] != 0.012 {
		t.Fatalf("unexpected USD rate: %v", rates["USD"])
	}
}

func TestRatesCachedWithinTTL(t *testing.T) {
	var hits int32
	srv := rateServer(t, &hits)
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, time.Minute)
	for i := 0; i < 5; i++ {
		if _, err := p.Rates("inr"); err != nil {
			t.Fatalf("rates: %v", err)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected a single upstream call within TTL, got %d", n)
	}
}

func TestRatesExpiredTTLRefetches(t *testing.T) {
	var hits int32
	srv := rateServer(t, &hits)
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, 0)
	p.Rates("INR")
	p.Rates("INR")
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Fatalf("expected refetch after TTL expiry, got %d calls", n)
	}
}

func TestRatesUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, time.Minute)
	if _, err := p.Rates("INR"); !errors.Is(err, ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
}

func TestRatesBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, time.Minute)
	if _, err := p.Rates("INR"); !errors.Is(err, ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable on bad JSON, got %v", err)
	}
}
