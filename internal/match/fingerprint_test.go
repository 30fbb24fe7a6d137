package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintEntity_Deterministic(t *testing.T) {
	fp1 := FingerprintEntity("12.345.678/0001-95", "Acme Ltd")
	fp2 := FingerprintEntity("12.345.678/0001-95", "Acme Ltd")
	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1, 32)
}

func TestFingerprintEntity_TaxIDPunctuationInsensitive(t *testing.T) {
	assert.Equal(t,
		FingerprintEntity("12.345.678/0001-95", "Acme Ltd"),
		FingerprintEntity("12345678000195", "Completely Different Name"),
	)
}

func TestFingerprintEntity_FallsBackToName(t *testing.T) {
	fp1 := FingerprintEntity("", "  Acme Ltd ")
	fp2 := FingerprintEntity("", "acme ltd")
	assert.Equal(t, fp1, fp2)

	assert.NotEqual(t, FingerprintEntity("", "acme ltd"), FingerprintEntity("", "acme sa"))
}

func TestFingerprintCategorized(t *testing.T) {
	// Same name under different categories must not collide.
	fp1 := FingerprintCategorized("Embalagens", "Alimentos")
	fp2 := FingerprintCategorized("Embalagens", "Farmacêutico")
	assert.NotEqual(t, fp1, fp2)

	// Case-insensitive on both parts.
	assert.Equal(t,
		FingerprintCategorized("Embalagens", "Alimentos"),
		FingerprintCategorized("EMBALAGENS", "ALIMENTOS"),
	)
}
