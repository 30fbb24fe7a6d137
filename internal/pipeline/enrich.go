package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/match"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/model"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/reasoning"
)

// enrichOne runs the full stage sequence for a single client. Reasoning
// and geocoding failures are client faults; store failures bubble up and
// abort the job.
func (p *Pipeline) enrichOne(ctx context.Context, survey *model.Survey, client *model.ClientRecord) error {
	log := zap.L().With(
		zap.Int64("client_id", client.ID),
		zap.String("client", client.Name),
	)

	trackStage := func(name string, fn func() error) error {
		start := time.Now()
		err := fn()
		duration := time.Since(start).Milliseconds()
		if err != nil {
			log.Error("pipeline: stage failed",
				zap.String("stage", name),
				zap.Int64("duration_ms", duration),
				zap.Error(err),
			)
			return err
		}
		log.Debug("pipeline: stage complete",
			zap.String("stage", name),
			zap.Int64("duration_ms", duration),
		)
		return nil
	}

	// Stage 1: registry prefill. Best effort; a registry outage never
	// fails the client.
	if p.registry != nil && client.TaxID != "" && match.ValidTaxID(client.TaxID) {
		_ = trackStage("1_registry_prefill", func() error {
			company, err := p.registry.Lookup(ctx, client.TaxID)
			if err != nil {
				log.Warn("pipeline: registry lookup failed", zap.Error(err))
				return nil
			}
			if !company.Found {
				return nil
			}
			if client.City == "" {
				client.City = company.City
			}
			if client.State == "" {
				client.State = company.State
			}
			if client.Email == "" {
				client.Email = company.Email
			}
			if client.Phone == "" {
				client.Phone = company.Phone
			}
			if client.PrimaryProduct == "" {
				client.PrimaryProduct = company.MainActivity
			}
			return nil
		})
	}

	// Stage 2: client profile. The result is normalized into an
	// EnrichedClient; reasoning output only overrides fields the raw
	// row left empty.
	var enriched *model.EnrichedClient
	if err := trackStage("2_enrich_client", func() error {
		cp, err := p.gateway.EnrichClient(ctx, *client)
		if err != nil {
			return err
		}
		enriched = &model.EnrichedClient{
			Name:        client.Name,
			TaxID:       client.TaxID,
			Site:        client.Site,
			City:        client.City,
			State:       client.State,
			Sector:      cp.Sector,
			Description: cp.Description,
		}
		if enriched.Site == "" {
			enriched.Site = cp.Site
		}
		if enriched.City == "" {
			enriched.City = cp.City
		}
		if enriched.State == "" {
			enriched.State = cp.State
		}
		if enriched.City == "" || enriched.State == "" {
			return &reasoning.IncompleteEnrichmentError{
				Stage:  "enrich_client",
				Reason: "city or state unresolved after enrichment",
			}
		}
		return nil
	}); err != nil {
		return err
	}

	client.Sector = enriched.Sector
	client.Description = enriched.Description
	client.Site = enriched.Site
	client.City = enriched.City
	client.State = enriched.State

	// Stage 3: geocoding. An unmatched or unreachable geocoder leaves
	// the coordinates empty and the client still succeeds.
	_ = trackStage("3_geocode", func() error {
		if client.City == "" {
			return nil
		}
		result, err := p.geocoder.Resolve(ctx, client.City, client.State)
		if err != nil {
			log.Warn("pipeline: geocode failed", zap.Error(err))
			return nil
		}
		if !result.Matched {
			log.Info("pipeline: location not found",
				zap.String("city", client.City),
				zap.String("state", client.State),
			)
			return nil
		}
		client.Lat = &result.Latitude
		client.Lon = &result.Longitude
		enriched.Lat = client.Lat
		enriched.Lon = client.Lon
		return nil
	})

	// Stage 4: persist the approved client.
	if err := trackStage("4_persist_client", func() error {
		client.ValidationStatus = model.ValidationApproved
		client.QualityScore = clientQualityScore(*client)
		return p.store.UpdateClientEnrichment(ctx, *client)
	}); err != nil {
		return err
	}

	// Stage 5: market identification.
	var identity marketIdentity
	if err := trackStage("5_identify_market", func() error {
		mi, err := p.gateway.IdentifyMarket(ctx, *enriched)
		if err != nil {
			return err
		}
		identity = marketIdentity{mi.Name, mi.Category, mi.Segmentation}
		return nil
	}); err != nil {
		return err
	}

	// Stage 6: market deduplication by fingerprint inside the survey.
	var market *model.Market
	marketFP := match.FingerprintCategorized(identity.name, identity.category)
	if err := trackStage("6_dedupe_market", func() error {
		existing, err := p.store.FindMarketByFingerprint(ctx, survey.ID, marketFP)
		if err != nil {
			return err
		}
		if existing != nil {
			market = existing
			return nil
		}
		market = &model.Market{
			SurveyID:     survey.ID,
			ProjectID:    survey.ProjectID,
			Fingerprint:  marketFP,
			Name:         identity.name,
			Category:     identity.category,
			Segmentation: identity.segmentation,
		}
		return p.store.InsertMarket(ctx, market)
	}); err != nil {
		return err
	}

	// Stage 7: market enrichment, once per market.
	if market.SizeEstimate == "" {
		if err := trackStage("7_enrich_market", func() error {
			mp, err := p.gateway.EnrichMarket(ctx, *market)
			if err != nil {
				return err
			}
			market.SizeEstimate = mp.SizeEstimate
			market.AnnualGrowth = mp.AnnualGrowth
			market.Trends = mp.Trends
			market.TopPlayers = mp.TopPlayers
			return p.store.UpdateMarketEnrichment(ctx, *market)
		}); err != nil {
			return err
		}
	}

	// Stage 8: product identification.
	var ideas []productIdea
	if err := trackStage("8_identify_products", func() error {
		ps, err := p.gateway.IdentifyProducts(ctx, *enriched, *market)
		if err != nil {
			return err
		}
		for _, pr := range ps {
			ideas = append(ideas, productIdea{pr.Name, pr.Description, pr.TargetAudience, pr.Differentiators})
		}
		return nil
	}); err != nil {
		return err
	}

	// Stage 9: persist products, deduplicated by (name, market).
	var products []model.Product
	if err := trackStage("9_persist_products", func() error {
		for _, idea := range ideas {
			fp := match.FingerprintCategorized(idea.name, market.Name)
			existing, err := p.store.FindProductByFingerprint(ctx, survey.ID, fp)
			if err != nil {
				return err
			}
			if existing != nil {
				products = append(products, *existing)
				continue
			}
			product := model.Product{
				SurveyID:        survey.ID,
				ProjectID:       survey.ProjectID,
				ClientID:        client.ID,
				MarketID:        market.ID,
				Fingerprint:     fp,
				Name:            idea.name,
				Description:     idea.description,
				TargetAudience:  idea.targetAudience,
				Differentiators: idea.differentiators,
			}
			if err := p.store.InsertProduct(ctx, &product); err != nil {
				return err
			}
			products = append(products, product)
		}
		return nil
	}); err != nil {
		return err
	}

	// Stage 10: competitor identification.
	var competitors []competitorProspect
	if err := trackStage("10_identify_competitors", func() error {
		cs, err := p.gateway.IdentifyCompetitors(ctx, *enriched, *market)
		if err != nil {
			return err
		}
		for _, c := range cs {
			competitors = append(competitors, competitorProspect{c.Name, c.TaxID, c.Site, c.City, c.State, c.PrimaryProduct})
		}
		return nil
	}); err != nil {
		return err
	}

	// Stage 11: persist competitors, deduplicated by entity fingerprint.
	// The stored records feed lead identification so leads can be told
	// apart from competitors.
	clientFP := match.FingerprintEntity(client.TaxID, client.Name)
	competitorFPs := make(map[string]bool)
	var stored []model.Competitor
	if err := trackStage("11_persist_competitors", func() error {
		for _, c := range competitors {
			fp := match.FingerprintEntity(c.taxID, c.name)
			if fp == clientFP {
				continue
			}
			competitorFPs[fp] = true
			existing, err := p.store.FindCompetitorByFingerprint(ctx, survey.ID, fp)
			if err != nil {
				return err
			}
			if existing != nil {
				stored = append(stored, *existing)
				continue
			}
			competitor := model.Competitor{
				SurveyID:       survey.ID,
				ProjectID:      survey.ProjectID,
				MarketID:       market.ID,
				Fingerprint:    fp,
				Name:           c.name,
				TaxID:          c.taxID,
				Site:           c.site,
				City:           c.city,
				State:          c.state,
				PrimaryProduct: c.primaryProduct,
			}
			competitor.QualityScore = entityQualityScore(competitor.Name, competitor.TaxID, competitor.Site, competitor.City, competitor.State)
			if err := p.store.InsertCompetitor(ctx, &competitor); err != nil {
				return err
			}
			stored = append(stored, competitor)
		}
		return nil
	}); err != nil {
		return err
	}

	// Stage 12: lead identification.
	var leads []leadProspect
	if err := trackStage("12_identify_leads", func() error {
		ls, err := p.gateway.IdentifyLeads(ctx, *enriched, *market, products, stored)
		if err != nil {
			return err
		}
		for _, l := range ls {
			leads = append(leads, leadProspect{l.Name, l.TaxID, l.Site, l.City, l.State, l.ProductOfInterest, l.Source})
		}
		return nil
	}); err != nil {
		return err
	}

	// Stage 13: persist leads. A lead that duplicates the client or a
	// competitor of this market is dropped.
	if err := trackStage("13_persist_leads", func() error {
		for _, l := range leads {
			fp := match.FingerprintEntity(l.taxID, l.name)
			if fp == clientFP || competitorFPs[fp] {
				continue
			}
			existing, err := p.store.FindLeadByFingerprint(ctx, survey.ID, fp)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			lead := model.Lead{
				SurveyID:          survey.ID,
				ProjectID:         survey.ProjectID,
				MarketID:          market.ID,
				Fingerprint:       fp,
				Name:              l.name,
				TaxID:             l.taxID,
				Site:              l.site,
				City:              l.city,
				State:             l.state,
				ProductOfInterest: l.productOfInterest,
				Source:            model.LeadSource(l.source),
			}
			lead.QualityScore = entityQualityScore(lead.Name, lead.TaxID, lead.Site, lead.City, lead.State)
			if err := p.store.InsertLead(ctx, &lead); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	log.Info("pipeline: client enriched",
		zap.String("market", market.Name),
		zap.Int("quality_score", client.QualityScore),
		zap.String("quality", qualityClassification(client.QualityScore)),
	)
	return nil
}

type marketIdentity struct {
	name, category, segmentation string
}

type productIdea struct {
	name, description, targetAudience string
	differentiators                   []string
}

type competitorProspect struct {
	name, taxID, site, city, state, primaryProduct string
}

type leadProspect struct {
	name, taxID, site, city, state, productOfInterest, source string
}
