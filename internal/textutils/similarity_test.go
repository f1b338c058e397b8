package textutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{"identical", "woolworths", "woolworths", 100, 100},
		{"both empty", "", "", 100, 100},
		{"one empty", "woolworths", "", 0, 0},
		{"store suffix", "woolworths sandton", "woolworths sandton #4021", 85, 86},
		{"unrelated", "woolworths", "uber trip", 0, 30},
		{"header alias", "transaction date", "transaction date", 100, 100},
		{"header close", "trans. date", "trans date", 90, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := Ratio(tt.a, tt.b)
			assert.GreaterOrEqual(t, score, tt.min)
			assert.LessOrEqual(t, score, tt.max)
		})
	}
}

func TestRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"woolworths sandton", "woolworths sandton #4021"},
		{"date", "value date"},
		{"uber trip", "uber eats"},
	}
	for _, p := range pairs {
		assert.InDelta(t, Ratio(p[0], p[1]), Ratio(p[1], p[0]), 1e-9)
	}
}

func TestFoldedRatio(t *testing.T) {
	assert.InDelta(t, 100, FoldedRatio("  WOOLWORTHS   Sandton", "woolworths sandton"), 1e-9)
	assert.GreaterOrEqual(t, FoldedRatio("WOOLWORTHS SANDTON", "Woolworths Sandton #4021"), 85.0)
}

func TestMeaningfulWords(t *testing.T) {
	words := MeaningfulWords("POS purchase at the Woolworths Sandton for food")
	assert.Equal(t, []string{"purchase", "woolworths", "sandton", "food"}, words)
	assert.Empty(t, MeaningfulWords("a to the"))
}
