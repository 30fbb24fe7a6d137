// Package geocode resolves city/state pairs to coordinates via Nominatim
// (primary) and Google (fallback).
package geocode

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client resolves a city/state pair to geographic coordinates.
type Client interface {
	// Resolve looks up coordinates for a city and state. An unmatched
	// location is reported through Result.Matched, not as an error.
	Resolve(ctx context.Context, city, state string) (*Result, error)
}

// Result holds the outcome of a lookup.
type Result struct {
	Latitude  float64
	Longitude float64
	Source    string // "nominatim" or "google"
	Matched   bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithGoogleAPIKey enables the Google Geocoding API as a fallback.
func WithGoogleAPIKey(key string) Option {
	return func(g *geocoder) {
		g.googleKey = key
	}
}

// WithHTTPClient sets a custom HTTP client for all requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithBaseURL overrides the Nominatim endpoint.
func WithBaseURL(u string) Option {
	return func(g *geocoder) {
		g.baseURL = u
	}
}

// WithGoogleBaseURL overrides the Google Geocoding endpoint.
func WithGoogleBaseURL(u string) Option {
	return func(g *geocoder) {
		g.googleURL = u
	}
}

// WithRateLimit sets the requests-per-second limit for Nominatim calls.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent sets the User-Agent header sent to Nominatim, which
// requires one identifying the application.
func WithUserAgent(ua string) Option {
	return func(g *geocoder) {
		g.userAgent = ua
	}
}

type geocoder struct {
	httpClient *http.Client
	baseURL    string
	googleURL  string
	googleKey  string
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient creates a geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://nominatim.openstreetmap.org",
		googleURL:  googleGeocodeURL,
		userAgent:  "inteligencia-de-mercado/1.0",
		limiter:    rate.NewLimiter(1, 1), // Nominatim usage policy: 1 req/s
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Resolve tries Nominatim first, then Google if configured.
func (g *geocoder) Resolve(ctx context.Context, city, state string) (*Result, error) {
	result, nominatimErr := g.resolveNominatim(ctx, city, state)
	if nominatimErr == nil && result.Matched {
		return result, nil
	}

	if g.googleKey != "" {
		googleResult, googleErr := g.resolveGoogle(ctx, city, state)
		if googleErr == nil && googleResult.Matched {
			return googleResult, nil
		}
	}

	if nominatimErr != nil && g.googleKey == "" {
		return nil, nominatimErr
	}

	// No match from any provider. Not an error, just unmatched.
	return &Result{Matched: false}, nil
}
