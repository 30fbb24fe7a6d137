package model

import "time"

// Cardinalities enforced at the reasoning boundary.
const (
	MarketTrendCount       = 5
	MarketTopPlayerCount   = 10
	ProductCount           = 3
	ProductDifferentiators = 3
	CompetitorCount        = 5
	LeadCount              = 5
)

// Market describes the market a client competes in. Base fields come
// from market identification; growth, trends and top players are filled
// by the market enrichment stage.
type Market struct {
	ID           int64    `json:"id"`
	SurveyID     int64    `json:"survey_id"`
	ProjectID    int64    `json:"project_id"`
	Fingerprint  string   `json:"fingerprint"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Segmentation string   `json:"segmentation"`
	SizeEstimate string   `json:"size_estimate"`
	AnnualGrowth string   `json:"annual_growth,omitempty"`
	Trends       []string `json:"trends,omitempty"`
	TopPlayers   []string `json:"top_players,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product is one of the client's offerings inside a market.
type Product struct {
	ID              int64    `json:"id"`
	SurveyID        int64    `json:"survey_id"`
	ProjectID       int64    `json:"project_id"`
	ClientID        int64    `json:"client_id"`
	MarketID        int64    `json:"market_id"`
	Fingerprint     string   `json:"fingerprint"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	TargetAudience  string   `json:"target_audience"`
	Differentiators []string `json:"differentiators"`
}

// Competitor is a direct competitor discovered for a market. It must
// never equal the originating client by fingerprint.
type Competitor struct {
	ID             int64  `json:"id"`
	SurveyID       int64  `json:"survey_id"`
	ProjectID      int64  `json:"project_id"`
	MarketID       int64  `json:"market_id"`
	Fingerprint    string `json:"fingerprint"`
	Name           string `json:"name"`
	TaxID          string `json:"tax_id,omitempty"`
	Site           string `json:"site,omitempty"`
	City           string `json:"city"`
	State          string `json:"state"`
	PrimaryProduct string `json:"primary_product"`
	QualityScore   int    `json:"quality_score,omitempty"`
}

// LeadSource tells where a lead name came from.
type LeadSource string

const (
	// LeadSourceMarketPlayer marks a lead reused from the market's top
	// players list (the closed loop).
	LeadSourceMarketPlayer LeadSource = "MARKET_PLAYER"
	// LeadSourceAdditionalResearch marks a freshly generated lead.
	LeadSourceAdditionalResearch LeadSource = "ADDITIONAL_RESEARCH"
)

// Lead is a potential buyer discovered for a market. It must not
// duplicate the client or any competitor produced for that market.
type Lead struct {
	ID                int64      `json:"id"`
	SurveyID          int64      `json:"survey_id"`
	ProjectID         int64      `json:"project_id"`
	MarketID          int64      `json:"market_id"`
	Fingerprint       string     `json:"fingerprint"`
	Name              string     `json:"name"`
	TaxID             string     `json:"tax_id,omitempty"`
	Site              string     `json:"site,omitempty"`
	City              string     `json:"city"`
	State             string     `json:"state"`
	ProductOfInterest string     `json:"product_of_interest"`
	Source            LeadSource `json:"source"`
	QualityScore      int        `json:"quality_score,omitempty"`
}
