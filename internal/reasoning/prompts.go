package reasoning

import (
	"fmt"
	"strings"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/model"
)

const systemPrompt = `You are a B2B market intelligence analyst covering Brazilian companies.
Answer with a single JSON object or array, no prose and no markdown fences.
When a field is unknown, use an empty string rather than inventing data.`

func clientPrompt(c model.ClientRecord) string {
	var b strings.Builder
	b.WriteString("Profile the following company.\n")
	writeField(&b, "name", c.Name)
	writeField(&b, "tax_id", c.TaxID)
	writeField(&b, "primary_product", c.PrimaryProduct)
	writeField(&b, "site", c.Site)
	writeField(&b, "city", c.City)
	writeField(&b, "state", c.State)
	b.WriteString(`Respond with JSON: {"sector":"","description":"","site":"","city":"","state":""}.
The description is two or three sentences. City and state confirm or correct the input; state is the two-letter UF code.`)
	return b.String()
}

func marketIdentityPrompt(c model.EnrichedClient) string {
	var b strings.Builder
	b.WriteString("Name the market this company sells into.\n")
	writeField(&b, "name", c.Name)
	writeField(&b, "sector", c.Sector)
	writeField(&b, "description", c.Description)
	b.WriteString(`Respond with JSON: {"name":"","category":"","segmentation":""}.
Use a stable market name so two companies in the same market get the same name.`)
	return b.String()
}

func marketProfilePrompt(m model.Market) string {
	return fmt.Sprintf(`Profile the Brazilian market %q (category %q, segmentation %q).
Respond with JSON: {"size_estimate":"","annual_growth":"","trends":[],"top_players":[]}.
Provide exactly %d trends and exactly %d top players by company name.`,
		m.Name, m.Category, m.Segmentation,
		model.MarketTrendCount, model.MarketTopPlayerCount)
}

func productsPrompt(c model.EnrichedClient, m model.Market) string {
	return fmt.Sprintf(`List the %d main products that %q offers in the market %q.
Respond with a JSON array of exactly %d objects:
[{"name":"","description":"","target_audience":"","differentiators":[]}]
Each product carries exactly %d differentiators.`,
		model.ProductCount, c.Name, m.Name,
		model.ProductCount, model.ProductDifferentiators)
}

func competitorsPrompt(c model.EnrichedClient, m model.Market) string {
	return fmt.Sprintf(`List %d direct competitors of %q in the market %q.
Exclude %q itself. Respond with a JSON array of exactly %d objects:
[{"name":"","tax_id":"","site":"","city":"","state":"","primary_product":""}]`,
		model.CompetitorCount, c.Name, m.Name, c.Name, model.CompetitorCount)
}

func leadsPrompt(c model.EnrichedClient, m model.Market, products []model.Product, competitors []model.Competitor) string {
	productNames := make([]string, len(products))
	for i, p := range products {
		productNames[i] = p.Name
	}
	competitorNames := make([]string, len(competitors))
	for i, cp := range competitors {
		competitorNames[i] = cp.Name
	}
	return fmt.Sprintf(`List %d qualified sales leads for %q, potential buyers of: %s.
At least one lead must be among the top players of the market %q, tagged with source %q.
Other leads use source %q. Exclude %q itself and its direct competitors: %s.
Respond with a JSON array of exactly %d objects:
[{"name":"","tax_id":"","site":"","city":"","state":"","product_of_interest":"","source":""}]`,
		model.LeadCount, c.Name, strings.Join(productNames, ", "),
		m.Name, model.LeadSourceMarketPlayer, model.LeadSourceAdditionalResearch,
		c.Name, strings.Join(competitorNames, ", "), model.LeadCount)
}

func writeField(b *strings.Builder, key, val string) {
	if val != "" {
		fmt.Fprintf(b, "%s: %s\n", key, val)
	}
}
