package match

import (
	"math"
	"strings"
)

// DefaultDuplicateThreshold is the entity similarity score at or above
// which two records are treated as the same real-world company.
const DefaultDuplicateThreshold = 60

// EntityRecord is the normalized view of a company used for similarity
// scoring. Empty fields are treated as absent.
type EntityRecord struct {
	Name  string
	TaxID string
	Email string
	Phone string
}

// EntitySimilarity scores how likely two records refer to the same
// company, 0-100. Name similarity contributes up to 40 points, an exact
// tax id match 30, an exact case-insensitive email match 15 and an
// exact digits-only phone match 15. Fields absent on either side are
// excluded; if no field is present on both sides the score is 0.
func EntitySimilarity(e1, e2 EntityRecord) int {
	score := 0.0
	checked := 0

	if e1.Name != "" && e2.Name != "" {
		sim := BlendedSimilarity(strings.ToLower(e1.Name), strings.ToLower(e2.Name))
		score += float64(sim) * 0.4
		checked++
	}

	if e1.TaxID != "" && e2.TaxID != "" {
		if DigitsOnly(e1.TaxID) == DigitsOnly(e2.TaxID) {
			score += 30
		}
		checked++
	}

	if e1.Email != "" && e2.Email != "" {
		if strings.EqualFold(e1.Email, e2.Email) {
			score += 15
		}
		checked++
	}

	if e1.Phone != "" && e2.Phone != "" {
		if DigitsOnly(e1.Phone) == DigitsOnly(e2.Phone) {
			score += 15
		}
		checked++
	}

	if checked == 0 {
		return 0
	}
	return int(math.Round(score))
}

// IsDuplicate reports whether two records score at or above threshold.
// A threshold of 0 or less falls back to DefaultDuplicateThreshold.
func IsDuplicate(e1, e2 EntityRecord, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultDuplicateThreshold
	}
	return EntitySimilarity(e1, e2) >= threshold
}
