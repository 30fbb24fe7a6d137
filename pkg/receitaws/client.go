// Package receitaws looks up Brazilian company registration data on the
// public ReceitaWS API.
package receitaws

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/match"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/resilience"
)

// Client looks up company registration data by CNPJ.
type Client interface {
	// Lookup fetches registration data for a CNPJ. An unknown CNPJ is
	// reported through Company.Found, not as an error.
	Lookup(ctx context.Context, cnpj string) (*Company, error)
}

// Company holds the registry fields the enrichment pipeline consumes.
type Company struct {
	CNPJ         string
	Name         string
	TradeName    string
	MainActivity string
	Email        string
	Phone        string
	City         string
	State        string
	Found        bool
}

// Option configures the client.
type Option func(*client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithRateLimit overrides the requests-per-second limit.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a ReceitaWS client. The free tier allows three
// requests per minute, which is the default limit.
func NewClient(opts ...Option) Client {
	c := &client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://receitaws.com.br/v1",
		limiter:    rate.NewLimiter(rate.Limit(3.0/60.0), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiResponse is the ReceitaWS JSON payload.
type apiResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	CNPJ         string `json:"cnpj"`
	Nome         string `json:"nome"`
	Fantasia     string `json:"fantasia"`
	Email        string `json:"email"`
	Telefone     string `json:"telefone"`
	Municipio    string `json:"municipio"`
	UF           string `json:"uf"`
	AtivPrimaria []struct {
		Text string `json:"text"`
	} `json:"atividade_principal"`
}

func (c *client) Lookup(ctx context.Context, cnpj string) (*Company, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "receitaws: rate limit")
	}

	digits := match.DigitsOnly(cnpj)
	if len(digits) != 14 {
		return nil, eris.Errorf("receitaws: invalid cnpj %q", cnpj)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cnpj/"+digits, nil)
	if err != nil {
		return nil, eris.Wrap(err, "receitaws: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "receitaws: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return nil, resilience.NewTransientError(
			eris.Errorf("receitaws: returned status %d", resp.StatusCode), resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("receitaws: returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "receitaws: read body")
	}

	var payload apiResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, eris.Wrap(err, "receitaws: parse response")
	}

	// The API reports unknown CNPJs with status ERROR and HTTP 200.
	if payload.Status == "ERROR" {
		return &Company{CNPJ: digits, Found: false}, nil
	}

	company := &Company{
		CNPJ:      digits,
		Name:      payload.Nome,
		TradeName: payload.Fantasia,
		Email:     payload.Email,
		Phone:     payload.Telefone,
		City:      payload.Municipio,
		State:     payload.UF,
		Found:     true,
	}
	if len(payload.AtivPrimaria) > 0 {
		company.MainActivity = payload.AtivPrimaria[0].Text
	}

	return company, nil
}
