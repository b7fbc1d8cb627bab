// Package exchange fetches currency exchange rates and converts amounts
// between currencies. All persisted amounts stay in the base currency;
// conversion is a pure transform applied at the display boundary.
package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

var (
	// ErrRateUnavailable means the rate service could not be reached or
	// returned garbage. Callers fall back to unconverted amounts.
	ErrRateUnavailable = errors.New("exchange rates unavailable")
	// ErrUnknownCurrency means a currency code is absent from the snapshot.
	ErrUnknownCurrency = errors.New("unknown currency code")
)

// Rates maps a currency code to its rate relative to the snapshot's base.
type Rates map[string]float64

const defaultRateURL = "https://api.exchangerate-api.com/v4/latest"

// Provider fetches rate snapshots over HTTP and caches them per base
// currency for a short TTL so one aggregated response never triggers more
// than one external call.
type Provider struct {
	baseURL string
	client  *http.Client
	ttl     time.Duration

	mu    sync.Mutex
	cache map[string]snapshot
}

type snapshot struct {
	rates   Rates
	fetched time.Time
}

// NewProvider returns a Provider against the public exchangerate API with a
// 15 minute snapshot TTL.
func NewProvider() *Provider {
	return &Provider{
		baseURL: defaultRateURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		ttl:     15 * time.Minute,
		cache:   make(map[string]snapshot),
	}
}

// NewProviderWithURL is used by tests to point at a local server.
func NewProviderWithURL(url string, ttl time.Duration) *Provider {
	return &Provider{
		baseURL: strings.TrimRight(url, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		ttl:     ttl,
		cache:   make(map[string]snapshot),
	}
}

// Rates returns the snapshot of rates relative to base, serving from cache
// when fresh. Fetch one snapshot per logical batch of conversions so every
// amount in a response is converted consistently.
func (p *Provider) Rates(base string) (Rates, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		return nil, fmt.Errorf("%w: empty base code", ErrUnknownCurrency)
	}

	p.mu.Lock()
	if s, ok := p.cache[base]; ok && time.Since(s.fetched) < p.ttl {
		p.mu.Unlock()
		return s.rates, nil
	}
	p.mu.Unlock()

	resp, err := p.client.Get(p.baseURL + "/" + base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRateUnavailable, resp.StatusCode)
	}
	var body struct {
		Rates Rates `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrRateUnavailable, err)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("%w: empty rate table", ErrRateUnavailable)
	}

	p.mu.Lock()
	p.cache[base] = snapshot{rates: body.Rates, fetched: time.Now()}
	p.mu.Unlock()
	return body.Rates, nil
}
