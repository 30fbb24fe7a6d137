package match

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// FingerprintEntity computes the dedup key for a company-like entity.
// When a tax id is present only its digits participate, so the same
// company fingerprints identically regardless of punctuation noise.
// Without a tax id the lowercased trimmed name is hashed instead.
func FingerprintEntity(taxID, name string) string {
	if digits := DigitsOnly(taxID); digits != "" {
		return hashHex(digits)
	}
	return hashHex(strings.ToLower(strings.TrimSpace(name)))
}

// FingerprintCategorized computes the dedup key for name-plus-category
// entities (markets, products), where two entities may share a name
// under different categories and must not collide.
func FingerprintCategorized(name, category string) string {
	return hashHex(strings.ToLower(name) + "|" + strings.ToLower(category))
}

func hashHex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
