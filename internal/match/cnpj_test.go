package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTaxID(t *testing.T) {
	tests := []struct {
		name string
		cnpj string
		want bool
	}{
		{"valid formatted", "11.222.333/0001-81", true},
		{"valid bare digits", "11222333000181", true},
		{"valid second example", "12.345.678/0001-95", true},
		{"wrong check digit", "11.222.333/0001-80", false},
		{"all same digits", "11111111111111", false},
		{"too short", "1122233300018", false},
		{"too long", "112223330001811", false},
		{"empty", "", false},
		{"letters only", "not-a-cnpj", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidTaxID(tt.cnpj))
		})
	}
}
