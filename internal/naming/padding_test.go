package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPadding(t *testing.T) {
	tests := []struct {
		name        string
		items       int
		season      int
		episode     int
		wantSeason  string
		wantEpisode string
	}{
		{"large season single digit episode", 150, 3, 7, "0", "00"},
		{"large season two digit episode", 150, 3, 42, "0", "0"},
		{"large season three digit episode", 150, 3, 142, "0", ""},
		{"small season single digit episode", 12, 1, 2, "0", "0"},
		{"small season two digit episode", 24, 1, 12, "0", ""},
		{"double digit season", 24, 12, 3, "", "0"},
		{"exactly one hundred items", 100, 10, 9, "", "00"},
		{"ninety nine items", 99, 2, 9, "0", "0"},
		{"season zero", 3, 0, 1, "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seasonPad, episodePad := Padding(tt.items, tt.season, tt.episode)
			assert.Equal(t, tt.wantSeason, seasonPad)
			assert.Equal(t, tt.wantEpisode, episodePad)
		})
	}
}

func TestPaddingStrings(t *testing.T) {
	seasonPad, episodePad, err := PaddingStrings("150", "03", "08")
	require.NoError(t, err)
	assert.Equal(t, "0", seasonPad)
	assert.Equal(t, "00", episodePad, "08 must be read as decimal eight")

	_, _, err = PaddingStrings("12", "one", "2")
	assert.Error(t, err)
}

func TestPartPadding(t *testing.T) {
	assert.Equal(t, "0", PartPadding(1))
	assert.Equal(t, "0", PartPadding(9))
	assert.Equal(t, "", PartPadding(10))
}

func TestCode(t *testing.T) {
	assert.Equal(t, "S01E02", Code(12, 1, 2))
	assert.Equal(t, "S03E007", Code(150, 3, 7))
	assert.Equal(t, "S12E10", Code(20, 12, 10))
	assert.Equal(t, "S03E01 Part 02", PartCode(3, 3, 1, 2))
}
