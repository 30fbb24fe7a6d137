package reasoning

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/match"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/model"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/resilience"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/pkg/anthropic"
)

// ClaudeGatewayConfig configures the Claude-backed Gateway.
type ClaudeGatewayConfig struct {
	Model     string
	MaxTokens int64
	Retry     resilience.RetryConfig
}

type claudeGateway struct {
	api       anthropic.Client
	model     string
	maxTokens int64
	retry     resilience.RetryConfig
}

// NewClaudeGateway builds a Gateway on top of the Anthropic client. Pass
// a nil client when no credential is configured; Configured then reports
// false and the pipeline refuses to start jobs.
func NewClaudeGateway(api anthropic.Client, cfg ClaudeGatewayConfig) Gateway {
	return &claudeGateway{
		api:       api,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		retry:     cfg.Retry,
	}
}

func (g *claudeGateway) Configured() bool {
	return g.api != nil && g.model != ""
}

func (g *claudeGateway) EnrichClient(ctx context.Context, client model.ClientRecord) (*ClientProfile, error) {
	const stage = "enrich_client"

	payload, err := g.complete(ctx, stage, clientPrompt(client))
	if err != nil {
		return nil, err
	}

	profile, err := decode[ClientProfile](stage, payload)
	if err != nil {
		return nil, err
	}
	if profile.Sector == "" || profile.Description == "" {
		return nil, schemaErr(stage, "missing sector or description")
	}

	return &profile, nil
}

func (g *claudeGateway) IdentifyMarket(ctx context.Context, client model.EnrichedClient) (*MarketIdentity, error) {
	const stage = "identify_market"

	payload, err := g.complete(ctx, stage, marketIdentityPrompt(client))
	if err != nil {
		return nil, err
	}

	identity, err := decode[MarketIdentity](stage, payload)
	if err != nil {
		return nil, err
	}
	if identity.Name == "" {
		return nil, schemaErr(stage, "missing market name")
	}

	return &identity, nil
}

func (g *claudeGateway) EnrichMarket(ctx context.Context, market model.Market) (*MarketProfile, error) {
	const stage = "enrich_market"

	payload, err := g.complete(ctx, stage, marketProfilePrompt(market))
	if err != nil {
		return nil, err
	}

	profile, err := decode[MarketProfile](stage, payload)
	if err != nil {
		return nil, err
	}
	if len(profile.Trends) != model.MarketTrendCount {
		return nil, schemaErr(stage, "got %d trends, want %d", len(profile.Trends), model.MarketTrendCount)
	}
	if len(profile.TopPlayers) != model.MarketTopPlayerCount {
		return nil, schemaErr(stage, "got %d top players, want %d", len(profile.TopPlayers), model.MarketTopPlayerCount)
	}

	return &profile, nil
}

func (g *claudeGateway) IdentifyProducts(ctx context.Context, client model.EnrichedClient, market model.Market) ([]ProductIdea, error) {
	const stage = "identify_products"

	payload, err := g.complete(ctx, stage, productsPrompt(client, market))
	if err != nil {
		return nil, err
	}

	products, err := decode[[]ProductIdea](stage, payload)
	if err != nil {
		return nil, err
	}
	if len(products) != model.ProductCount {
		return nil, schemaErr(stage, "got %d products, want %d", len(products), model.ProductCount)
	}

	for i, p := range products {
		if p.Name == "" {
			return nil, schemaErr(stage, "product %d has no name", i+1)
		}
		if len(p.Differentiators) != model.ProductDifferentiators {
			return nil, schemaErr(stage, "product %q has %d differentiators, want %d",
				p.Name, len(p.Differentiators), model.ProductDifferentiators)
		}
	}

	return products, nil
}

func (g *claudeGateway) IdentifyCompetitors(ctx context.Context, client model.EnrichedClient, market model.Market) ([]CompetitorProspect, error) {
	const stage = "identify_competitors"

	payload, err := g.complete(ctx, stage, competitorsPrompt(client, market))
	if err != nil {
		return nil, err
	}

	competitors, err := decode[[]CompetitorProspect](stage, payload)
	if err != nil {
		return nil, err
	}

	// The model occasionally lists the client among its own competitors.
	clientFP := match.FingerprintEntity(client.TaxID, client.Name)
	filtered := competitors[:0]
	for _, c := range competitors {
		if c.Name == "" {
			continue
		}
		if match.FingerprintEntity(c.TaxID, c.Name) == clientFP {
			continue
		}
		filtered = append(filtered, c)
	}

	if len(filtered) != model.CompetitorCount {
		return nil, schemaErr(stage, "got %d usable competitors, want %d", len(filtered), model.CompetitorCount)
	}

	return filtered, nil
}

func (g *claudeGateway) IdentifyLeads(ctx context.Context, client model.EnrichedClient, market model.Market, products []model.Product, competitors []model.Competitor) ([]LeadProspect, error) {
	const stage = "identify_leads"

	payload, err := g.complete(ctx, stage, leadsPrompt(client, market, products, competitors))
	if err != nil {
		return nil, err
	}

	leads, err := decode[[]LeadProspect](stage, payload)
	if err != nil {
		return nil, err
	}

	// A lead that is really the client or one of its competitors is
	// discarded, not stored under another role.
	excluded := map[string]bool{
		match.FingerprintEntity(client.TaxID, client.Name): true,
	}
	for _, c := range competitors {
		excluded[match.FingerprintEntity(c.TaxID, c.Name)] = true
	}

	filtered := leads[:0]
	for _, l := range leads {
		if l.Name == "" {
			continue
		}
		if excluded[match.FingerprintEntity(l.TaxID, l.Name)] {
			continue
		}
		filtered = append(filtered, normalizeLeadSource(l, market))
	}

	if len(filtered) != model.LeadCount {
		return nil, schemaErr(stage, "got %d usable leads, want %d", len(filtered), model.LeadCount)
	}

	hasPlayer := false
	for _, l := range filtered {
		if l.Source == string(model.LeadSourceMarketPlayer) {
			hasPlayer = true
			break
		}
	}
	if !hasPlayer {
		return nil, schemaErr(stage, "no lead sourced from market top players")
	}

	return filtered, nil
}

// normalizeLeadSource repairs the source tag when the model mislabels a
// lead that is plainly one of the market's top players.
func normalizeLeadSource(l LeadProspect, market model.Market) LeadProspect {
	if l.Source == string(model.LeadSourceMarketPlayer) {
		return l
	}
	for _, p := range market.TopPlayers {
		if strings.EqualFold(strings.TrimSpace(p), strings.TrimSpace(l.Name)) {
			l.Source = string(model.LeadSourceMarketPlayer)
			return l
		}
	}
	l.Source = string(model.LeadSourceAdditionalResearch)
	return l
}

func (g *claudeGateway) complete(ctx context.Context, stage, prompt string) (string, error) {
	cfg := g.retry
	cfg.OnRetry = resilience.RetryLogger("anthropic", stage)

	resp, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return g.api.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     g.model,
			MaxTokens: g.maxTokens,
			System:    systemPrompt,
			Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
		})
	})
	if err != nil {
		return "", &UpstreamError{Stage: stage, Err: err}
	}

	resp.Usage.LogCost(g.model, stage)
	return stripFence(resp.Text()), nil
}

func schemaErr(stage, format string, args ...any) *SchemaError {
	return &SchemaError{Stage: stage, Err: fmt.Errorf(format, args...)}
}

func decode[T any](stage, payload string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		var zero T
		return zero, &SchemaError{Stage: stage, Err: err}
	}
	return v, nil
}

// stripFence removes a markdown code fence the model sometimes wraps
// around its JSON despite instructions.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
