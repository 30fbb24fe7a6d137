// Package reasoning generates market intelligence for a client through
// an LLM gateway.
package reasoning

import (
	"context"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/model"
)

// Gateway defines the enrichment reasoning operations the pipeline
// depends on. Implementations validate shape and cardinality before
// returning; counts that differ from the contract are a SchemaError.
type Gateway interface {
	// Configured reports whether the gateway has a usable credential.
	Configured() bool

	// EnrichClient fills sector, description and location fields for a
	// client from its name, tax ID and whatever else is on record.
	EnrichClient(ctx context.Context, client model.ClientRecord) (*ClientProfile, error)

	// IdentifyMarket names the market a client operates in.
	IdentifyMarket(ctx context.Context, client model.EnrichedClient) (*MarketIdentity, error)

	// EnrichMarket fills size, growth, trends and top players for a market.
	EnrichMarket(ctx context.Context, market model.Market) (*MarketProfile, error)

	// IdentifyProducts proposes the client's main products in its market.
	IdentifyProducts(ctx context.Context, client model.EnrichedClient, market model.Market) ([]ProductIdea, error)

	// IdentifyCompetitors proposes competitors of the client in its
	// market. None of them equals the client by fingerprint.
	IdentifyCompetitors(ctx context.Context, client model.EnrichedClient, market model.Market) ([]CompetitorProspect, error)

	// IdentifyLeads proposes sales leads for the client's products. At
	// least one lead comes from the market's top players, and none
	// equals the client or one of the given competitors by fingerprint.
	IdentifyLeads(ctx context.Context, client model.EnrichedClient, market model.Market, products []model.Product, competitors []model.Competitor) ([]LeadProspect, error)
}

// ClientProfile is the reasoning output for a single client.
type ClientProfile struct {
	Sector      string `json:"sector"`
	Description string `json:"description"`
	Site        string `json:"site"`
	City        string `json:"city"`
	State       string `json:"state"`
}

// MarketIdentity names the market a client belongs to.
type MarketIdentity struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Segmentation string `json:"segmentation"`
}

// MarketProfile is the reasoning output for a market.
type MarketProfile struct {
	SizeEstimate string   `json:"size_estimate"`
	AnnualGrowth string   `json:"annual_growth"`
	Trends       []string `json:"trends"`
	TopPlayers   []string `json:"top_players"`
}

// ProductIdea is one proposed product.
type ProductIdea struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	TargetAudience  string   `json:"target_audience"`
	Differentiators []string `json:"differentiators"`
}

// CompetitorProspect is one proposed competitor.
type CompetitorProspect struct {
	Name           string `json:"name"`
	TaxID          string `json:"tax_id"`
	Site           string `json:"site"`
	City           string `json:"city"`
	State          string `json:"state"`
	PrimaryProduct string `json:"primary_product"`
}

// LeadProspect is one proposed sales lead.
type LeadProspect struct {
	Name              string `json:"name"`
	TaxID             string `json:"tax_id"`
	Site              string `json:"site"`
	City              string `json:"city"`
	State             string `json:"state"`
	ProductOfInterest string `json:"product_of_interest"`
	Source            string `json:"source"`
}
