package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	tests := []struct {
		style       Style
		input       string
		wantText    string
		wantSeason  int
		wantEpisode int
	}{
		{Standard, "Show S02E13 Title.mkv", "S02E13", 2, 13},
		{StandardNoZero, "Show S2E3.mkv", "S2E3", 2, 3},
		{StandardMinuscule, "show.s10e101.mkv", "s10e101", 10, 101},
		{XSeparated, "Show 3x07 - Title.mkv", "3x07", 3, 7},
		{Flat, "Show 213.mkv", "213", 2, 13},
		{Flat, "Show 12.mkv", "12", 1, 12},
		{Flat, "Show 1012.mkv", "1012", 10, 12},
		{Absolute, "Show - 0042.mkv", "0042", 0, 42},
	}

	for _, tt := range tests {
		t.Run(tt.style.String()+"/"+tt.input, func(t *testing.T) {
			m, ok := Find(tt.style, tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.wantText, m.Text)
			assert.Equal(t, tt.wantText, tt.input[m.Start:m.End])
			assert.Equal(t, tt.wantSeason, m.Season)
			assert.Equal(t, tt.wantEpisode, m.Episode)
		})
	}
}

func TestFindRejects(t *testing.T) {
	assert.False(t, Matches(Standard, "Show S1E2.mkv"))
	assert.False(t, Matches(Flat, "Show 012.mkv"))
	assert.False(t, Matches(Flat, "Show 12345.mkv"))
	assert.False(t, Matches(XSeparated, "Show 1920x1080.mkv"))
	assert.False(t, Matches(Absolute, "Show.mkv"))
}

func TestFirstNumber(t *testing.T) {
	token, value, ok := FirstNumber("Show 05b.mkv")
	require.True(t, ok)
	assert.Equal(t, "05", token)
	assert.Equal(t, 5, value)

	_, _, ok = FirstNumber("Show.mkv")
	assert.False(t, ok)
}

func TestSeasonFolder(t *testing.T) {
	tests := []struct {
		input string
		want  bool
		num   int
	}{
		{"Season 01", true, 1},
		{"season_3", true, 3},
		{"S2", true, 2},
		{"s.04", true, 4},
		{"Specials", false, 0},
		{"Extras", false, 0},
		{"Show 2004", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSeasonFolder(tt.input))
			n, ok := SeasonFolderNumber(tt.input)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.num, n)
		})
	}
}

func TestShowFromPath(t *testing.T) {
	name, year, ok := ShowFromPath("/media/tv/The Wire (2002)/")
	require.True(t, ok)
	assert.Equal(t, "The Wire", name)
	assert.Equal(t, "2002", year)

	name, year, ok = ShowFromPath("/media/tv/Cowboy Bebop (1998)/unsorted")
	require.True(t, ok)
	assert.Equal(t, "Cowboy Bebop", name)
	assert.Equal(t, "1998", year)

	_, _, ok = ShowFromPath("/media/tv/unsorted")
	assert.False(t, ok)
}

func TestStyleText(t *testing.T) {
	text, err := XSeparated.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "x_separated", string(text))

	var s Style
	require.NoError(t, s.UnmarshalText([]byte("flat")))
	assert.Equal(t, Flat, s)
}
