package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"both empty", "", "", 100},
		{"both blank", "  ", " ", 100},
		{"one empty", "heat", "", 0},
		{"case and padding", " The Matrix ", "the matrix", 100},
		{"reordered tokens", "The Dark Knight", "Dark Knight The", 100},
		{"one letter off", "star wars", "star war", 89},
		{"sequel subtitle", "the matrix", "the matrix reloaded", 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateSimilarity(tt.a, tt.b))
			assert.Equal(t, tt.want, CalculateSimilarity(tt.b, tt.a), "symmetric")
		})
	}
}

func TestCalculateSimilarity_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"alien", "aliens"},
		{"up", "the lord of the rings"},
		{"léon", "leon"},
		{"x", "y"},
	}
	for _, p := range pairs {
		s := CalculateSimilarity(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0)
		assert.LessOrEqual(t, s, 100)
	}
}

func TestTokenSetRatio(t *testing.T) {
	assert.Equal(t, 100, TokenSetRatio("a b c", "C B A"))
	assert.Equal(t, 50, TokenSetRatio("a b", "a c b d"))
	assert.Equal(t, 0, TokenSetRatio("a", ""))
	assert.Equal(t, 100, TokenSetRatio("", ""))
}

func TestTokenSortRatio(t *testing.T) {
	assert.Equal(t, 100, TokenSortRatio("knight dark the", "The Dark Knight"))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 3, LevenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 0, LevenshteinDistance("", ""))
	assert.Equal(t, 4, LevenshteinDistance("", "heat"))
	assert.Equal(t, 1, LevenshteinDistance("léon", "leon"))

	assert.Equal(t, 57, LevenshteinRatio("kitten", "sitting"))
	assert.Equal(t, 100, LevenshteinRatio("HEAT", "heat"))
	assert.Equal(t, 0, LevenshteinRatio("heat", ""))
}
