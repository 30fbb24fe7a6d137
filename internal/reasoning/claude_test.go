package reasoning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/model"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/resilience"
)

func newTestGateway(api *mockAnthropic) Gateway {
	return NewClaudeGateway(api, ClaudeGatewayConfig{
		Model:     "claude-sonnet-4-5-20250929",
		MaxTokens: 4096,
		Retry: resilience.RetryConfig{
			MaxAttempts:    2,
			InitialBackoff: time.Millisecond,
		},
	})
}

func TestConfigured(t *testing.T) {
	assert.True(t, newTestGateway(&mockAnthropic{}).Configured())

	unconfigured := NewClaudeGateway(nil, ClaudeGatewayConfig{Model: "claude-sonnet-4-5-20250929"})
	assert.False(t, unconfigured.Configured())

	noModel := NewClaudeGateway(&mockAnthropic{}, ClaudeGatewayConfig{})
	assert.False(t, noModel.Configured())
}

func TestEnrichClient(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`{
		"sector": "Embalagens",
		"description": "Fabricante de embalagens plásticas para o setor alimentício.",
		"site": "https://acme.com.br",
		"city": "São Paulo",
		"state": "SP"
	}`), nil)

	g := newTestGateway(api)
	got, err := g.EnrichClient(context.Background(), model.ClientRecord{Name: "Acme Embalagens"})
	require.NoError(t, err)

	assert.Equal(t, "Embalagens", got.Sector)
	assert.Equal(t, "SP", got.State)
	api.AssertExpectations(t)
}

func TestEnrichClient_FencedPayload(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(
		"```json\n{\"sector\":\"Logística\",\"description\":\"Transportadora rodoviária.\"}\n```"), nil)

	g := newTestGateway(api)
	got, err := g.EnrichClient(context.Background(), model.ClientRecord{Name: "Trans Sul"})
	require.NoError(t, err)
	assert.Equal(t, "Logística", got.Sector)
}

func TestEnrichClient_UpstreamError(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("api down"))

	g := newTestGateway(api)
	_, err := g.EnrichClient(context.Background(), model.ClientRecord{Name: "Acme"})

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "enrich_client", ue.Stage)
}

func TestEnrichClient_RetriesTransient(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, resilience.NewTransientError(errors.New("overloaded"), 529)).Once()
	api.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{"sector":"Varejo","description":"Rede de lojas."}`), nil).Once()

	g := newTestGateway(api)
	got, err := g.EnrichClient(context.Background(), model.ClientRecord{Name: "Lojas Azul"})
	require.NoError(t, err)
	assert.Equal(t, "Varejo", got.Sector)
	api.AssertExpectations(t)
}

func TestEnrichClient_SchemaError(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse("not json at all"), nil)

	g := newTestGateway(api)
	_, err := g.EnrichClient(context.Background(), model.ClientRecord{Name: "Acme"})

	var se *SchemaError
	assert.ErrorAs(t, err, &se)
}

func TestEnrichClient_MissingFields(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`{"sector":""}`), nil)

	g := newTestGateway(api)
	_, err := g.EnrichClient(context.Background(), model.ClientRecord{Name: "Acme"})

	var se *SchemaError
	assert.ErrorAs(t, err, &se)
}

func TestIdentifyMarket(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(
		`{"name":"Embalagens Alimentícias","category":"Indústria","segmentation":"B2B"}`), nil)

	g := newTestGateway(api)
	got, err := g.IdentifyMarket(context.Background(), model.EnrichedClient{Name: "Acme", Sector: "Embalagens"})
	require.NoError(t, err)
	assert.Equal(t, "Embalagens Alimentícias", got.Name)
}

func TestEnrichMarket(t *testing.T) {
	trends := quoted("t", model.MarketTrendCount)
	players := quoted("Player ", model.MarketTopPlayerCount)

	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(fmt.Sprintf(
		`{"size_estimate":"R$ 12 bi","annual_growth":"4,5%%","trends":[%s],"top_players":[%s]}`,
		trends, players)), nil)

	g := newTestGateway(api)
	got, err := g.EnrichMarket(context.Background(), model.Market{Name: "Embalagens"})
	require.NoError(t, err)

	assert.Len(t, got.Trends, model.MarketTrendCount)
	assert.Len(t, got.TopPlayers, model.MarketTopPlayerCount)
	assert.Equal(t, "R$ 12 bi", got.SizeEstimate)
}

func TestEnrichMarket_TooFewTrends(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(
		`{"size_estimate":"R$ 1 bi","annual_growth":"2%","trends":["só uma"],"top_players":[]}`), nil)

	g := newTestGateway(api)
	_, err := g.EnrichMarket(context.Background(), model.Market{Name: "Embalagens"})

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "enrich_market", se.Stage)
}

func TestEnrichMarket_TooManyTrends(t *testing.T) {
	trends := quoted("t", model.MarketTrendCount+2)
	players := quoted("Player ", model.MarketTopPlayerCount)

	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(fmt.Sprintf(
		`{"size_estimate":"R$ 1 bi","annual_growth":"2%%","trends":[%s],"top_players":[%s]}`,
		trends, players)), nil)

	g := newTestGateway(api)
	_, err := g.EnrichMarket(context.Background(), model.Market{Name: "Embalagens"})

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Error(), "trends")
}

func TestIdentifyProducts(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`[
		{"name":"P1","description":"d","target_audience":"a","differentiators":["x","y","z"]},
		{"name":"P2","description":"d","target_audience":"a","differentiators":["x","y","z"]},
		{"name":"P3","description":"d","target_audience":"a","differentiators":["x","y","z"]}
	]`), nil)

	g := newTestGateway(api)
	got, err := g.IdentifyProducts(context.Background(), model.EnrichedClient{Name: "Acme"}, model.Market{Name: "M"})
	require.NoError(t, err)

	require.Len(t, got, model.ProductCount)
	for _, p := range got {
		assert.Len(t, p.Differentiators, model.ProductDifferentiators)
	}
}

func TestIdentifyProducts_MissingDifferentiators(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`[
		{"name":"P1","differentiators":["x"]},
		{"name":"P2","differentiators":["x","y","z"]},
		{"name":"P3","differentiators":["x","y","z"]}
	]`), nil)

	g := newTestGateway(api)
	_, err := g.IdentifyProducts(context.Background(), model.EnrichedClient{Name: "Acme"}, model.Market{Name: "M"})

	var se *SchemaError
	assert.ErrorAs(t, err, &se)
}

func TestIdentifyProducts_ExtraDifferentiator(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`[
		{"name":"P1","differentiators":["x","y","z"]},
		{"name":"P2","differentiators":["x","y","z"]},
		{"name":"P3","differentiators":["x","y","z","extra"]}
	]`), nil)

	g := newTestGateway(api)
	_, err := g.IdentifyProducts(context.Background(), model.EnrichedClient{Name: "Acme"}, model.Market{Name: "M"})

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Error(), "P3")
}

func TestIdentifyCompetitors_FiltersClientItself(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`[
		{"name":"Acme Embalagens","tax_id":"","primary_product":"p"},
		{"name":"Rival A","primary_product":"p"},
		{"name":"Rival B","primary_product":"p"},
		{"name":"Rival C","primary_product":"p"},
		{"name":"Rival D","primary_product":"p"},
		{"name":"Rival E","primary_product":"p"}
	]`), nil)

	g := newTestGateway(api)
	got, err := g.IdentifyCompetitors(context.Background(),
		model.EnrichedClient{Name: "Acme Embalagens"}, model.Market{Name: "M"})
	require.NoError(t, err)

	require.Len(t, got, model.CompetitorCount)
	for _, c := range got {
		assert.NotEqual(t, "Acme Embalagens", c.Name)
	}
}

func TestIdentifyCompetitors_TooFewAfterFiltering(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`[
		{"name":"Acme"},
		{"name":"Rival A"},
		{"name":"Rival B"}
	]`), nil)

	g := newTestGateway(api)
	_, err := g.IdentifyCompetitors(context.Background(), model.EnrichedClient{Name: "Acme"}, model.Market{Name: "M"})

	var se *SchemaError
	assert.ErrorAs(t, err, &se)
}

func TestIdentifyCompetitors_TooMany(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`[
		{"name":"Rival A"},
		{"name":"Rival B"},
		{"name":"Rival C"},
		{"name":"Rival D"},
		{"name":"Rival E"},
		{"name":"Rival F"},
		{"name":"Rival G"}
	]`), nil)

	g := newTestGateway(api)
	_, err := g.IdentifyCompetitors(context.Background(), model.EnrichedClient{Name: "Acme"}, model.Market{Name: "M"})

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Error(), "competitors")
}

func TestIdentifyLeads(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`[
		{"name":"Grande Rede","product_of_interest":"P1","source":"MARKET_PLAYER"},
		{"name":"Lead B","product_of_interest":"P1","source":"ADDITIONAL_RESEARCH"},
		{"name":"Lead C","product_of_interest":"P2","source":"ADDITIONAL_RESEARCH"},
		{"name":"Lead D","product_of_interest":"P2","source":""},
		{"name":"Lead E","product_of_interest":"P3","source":"weird"}
	]`), nil)

	g := newTestGateway(api)
	got, err := g.IdentifyLeads(context.Background(),
		model.EnrichedClient{Name: "Acme"},
		model.Market{Name: "M", TopPlayers: []string{"Grande Rede"}},
		[]model.Product{{Name: "P1"}}, nil)
	require.NoError(t, err)

	require.Len(t, got, model.LeadCount)
	assert.Equal(t, string(model.LeadSourceMarketPlayer), got[0].Source)
	// Unknown tags collapse to ADDITIONAL_RESEARCH.
	assert.Equal(t, string(model.LeadSourceAdditionalResearch), got[3].Source)
	assert.Equal(t, string(model.LeadSourceAdditionalResearch), got[4].Source)
}

func TestIdentifyLeads_FiltersCompetitors(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`[
		{"name":"Rival A","source":"ADDITIONAL_RESEARCH"},
		{"name":"Grande Rede","source":"MARKET_PLAYER"},
		{"name":"Lead B","source":"ADDITIONAL_RESEARCH"},
		{"name":"Lead C","source":"ADDITIONAL_RESEARCH"},
		{"name":"Lead D","source":"ADDITIONAL_RESEARCH"},
		{"name":"Lead E","source":"ADDITIONAL_RESEARCH"}
	]`), nil)

	g := newTestGateway(api)
	got, err := g.IdentifyLeads(context.Background(),
		model.EnrichedClient{Name: "Acme"},
		model.Market{Name: "M", TopPlayers: []string{"Grande Rede"}},
		[]model.Product{{Name: "P1"}},
		[]model.Competitor{{Name: "Rival A"}})
	require.NoError(t, err)

	require.Len(t, got, model.LeadCount)
	for _, l := range got {
		assert.NotEqual(t, "Rival A", l.Name)
	}
}

func TestIdentifyLeads_RetagsKnownPlayer(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`[
		{"name":"grande rede","source":"ADDITIONAL_RESEARCH"},
		{"name":"Lead B","source":"ADDITIONAL_RESEARCH"},
		{"name":"Lead C","source":"ADDITIONAL_RESEARCH"},
		{"name":"Lead D","source":"ADDITIONAL_RESEARCH"},
		{"name":"Lead E","source":"ADDITIONAL_RESEARCH"}
	]`), nil)

	g := newTestGateway(api)
	got, err := g.IdentifyLeads(context.Background(),
		model.EnrichedClient{Name: "Acme"},
		model.Market{Name: "M", TopPlayers: []string{"Grande Rede"}},
		nil, nil)
	require.NoError(t, err)
	assert.Equal(t, string(model.LeadSourceMarketPlayer), got[0].Source)
}

func TestIdentifyLeads_NoMarketPlayer(t *testing.T) {
	api := &mockAnthropic{}
	api.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`[
		{"name":"Lead A","source":"ADDITIONAL_RESEARCH"},
		{"name":"Lead B","source":"ADDITIONAL_RESEARCH"},
		{"name":"Lead C","source":"ADDITIONAL_RESEARCH"},
		{"name":"Lead D","source":"ADDITIONAL_RESEARCH"},
		{"name":"Lead E","source":"ADDITIONAL_RESEARCH"}
	]`), nil)

	g := newTestGateway(api)
	_, err := g.IdentifyLeads(context.Background(),
		model.EnrichedClient{Name: "Acme"}, model.Market{Name: "M"}, nil, nil)

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Error(), "top players")
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFence(`{"a":1}`))
}

func quoted(prefix string, n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf("%q", fmt.Sprintf("%s%d", prefix, i+1))
	}
	return strings.Join(items, ",")
}
