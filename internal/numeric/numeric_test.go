package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
		ok   bool
	}{
		{"plain integer", "1500000", 1500000, true},
		{"decimal period", "1234.56", 1234.56, true},
		{"decimal comma", "1234,56", 1234.56, true},
		{"colombian thousands with decimal comma", "1.234,56", 1234.56, true},
		{"us thousands with decimal period", "1,234.56", 1234.56, true},
		{"colombian thousands only", "1.500.000", 1500000, true},
		{"us thousands only", "1,500,000", 1500000, true},
		{"currency symbol", "$ 2.000.000", 2000000, true},
		{"currency suffix", "150000 COP", 150000, true},
		{"negative", "-500", -500, true},
		{"empty", "", 0, false},
		{"whitespace", "   ", 0, false},
		{"text only", "pendiente", 0, false},
		{"lone separator", "$,", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-6)
			}
		})
	}
}

func TestParsePositive(t *testing.T) {
	_, ok := ParsePositive("-100")
	assert.False(t, ok)

	_, ok = ParsePositive("0")
	assert.False(t, ok)

	v, ok := ParsePositive("42")
	assert.True(t, ok)
	assert.InDelta(t, 42.0, v, 1e-6)
}
