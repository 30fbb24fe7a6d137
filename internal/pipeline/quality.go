package pipeline

import "github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/model"

// Quality classifications by score.
const (
	QualityHigh   = "high"
	QualityMedium = "medium"
	QualityLow    = "low"
)

// clientQualityScore measures field completeness of an enriched client
// on a 0-100 scale. Weights favor the fields downstream consumers use
// most.
func clientQualityScore(c model.ClientRecord) int {
	score := 0
	if c.Name != "" {
		score += 10
	}
	if c.TaxID != "" {
		score += 15
	}
	if c.Sector != "" {
		score += 15
	}
	if c.Description != "" {
		score += 20
	}
	if c.Site != "" {
		score += 10
	}
	if c.City != "" {
		score += 10
	}
	if c.State != "" {
		score += 5
	}
	if c.Lat != nil && c.Lon != nil {
		score += 15
	}
	return score
}

// entityQualityScore measures field completeness of a generated
// competitor or lead.
func entityQualityScore(name, taxID, site, city, state string) int {
	score := 0
	if name != "" {
		score += 30
	}
	if taxID != "" {
		score += 25
	}
	if site != "" {
		score += 15
	}
	if city != "" {
		score += 20
	}
	if state != "" {
		score += 10
	}
	return score
}

// qualityClassification buckets a score for reporting.
func qualityClassification(score int) string {
	switch {
	case score >= 80:
		return QualityHigh
	case score >= 50:
		return QualityMedium
	default:
		return QualityLow
	}
}
