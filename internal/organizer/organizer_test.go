package organizer

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/Nomadcxx/tvtools/internal/config"
	"github.com/Nomadcxx/tvtools/internal/renamer"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, fs afero.Fs, dir string, names ...string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(dir, 0755))
	for _, name := range names {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, name), []byte(name), 0644))
	}
}

func TestSeasonNames(t *testing.T) {
	tests := []struct {
		season     int
		wantMarker string
		wantFolder string
	}{
		{0, "S00", "Specials"},
		{1, "S01", "Season 01"},
		{12, "S12", "Season 12"},
		{100, "S100", "Season 100"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wantMarker, SeasonMarker(tt.season))
		assert.Equal(t, tt.wantFolder, SeasonFolder(tt.season))
	}
}

func TestOrganize(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/tv/Show (2004)"
	writeFiles(t, fs, dir, "S00E01.mkv", "S01E01.mkv", "S01E02.mkv", "S03E01.mkv", "cover.jpg")

	moves, err := New(fs, config.DefaultOptions(), log.New(io.Discard)).Organize(dir)
	require.NoError(t, err)
	require.Len(t, moves, 3)

	for _, path := range []string{
		"/tv/Show (2004)/Specials/S00E01.mkv",
		"/tv/Show (2004)/Season 01/S01E01.mkv",
		"/tv/Show (2004)/Season 01/S01E02.mkv",
		"/tv/Show (2004)/S03E01.mkv",
		"/tv/Show (2004)/cover.jpg",
	} {
		exists, err := afero.Exists(fs, path)
		require.NoError(t, err)
		assert.True(t, exists, path)
	}

	exists, err := afero.DirExists(fs, "/tv/Show (2004)/Season 02")
	require.NoError(t, err)
	assert.False(t, exists, "scan halts at the first season without files")
}

func TestPlanWithoutSpecials(t *testing.T) {
	o := New(afero.NewMemMapFs(), config.DefaultOptions(), log.New(io.Discard))

	moves := o.Plan("/tv/Show", []string{"Show S01E01.mkv", "Show S02E01.mkv"})
	require.Len(t, moves, 2)
	assert.Equal(t, "/tv/Show/Season 01/Show S01E01.mkv", moves[0].Destination)
	assert.Equal(t, 2, moves[1].Season)

	assert.Empty(t, o.Plan("/tv/Show", nil))
}

func TestPlanAssignsOnce(t *testing.T) {
	o := New(afero.NewMemMapFs(), config.DefaultOptions(), log.New(io.Discard))

	// "S01E01 - S02E05" carries two season markers and belongs to the first
	moves := o.Plan("/tv/Show", []string{"S01E01 - S02E05.mkv", "S02E06.mkv"})
	require.Len(t, moves, 2)
	assert.Equal(t, 1, moves[0].Season)
	assert.Equal(t, 2, moves[1].Season)
}

func TestOrganizeNoExec(t *testing.T) {
	base := afero.NewMemMapFs()
	dir := "/tv/Show"
	writeFiles(t, base, dir, "S01E01.mkv")

	moves, err := New(afero.NewReadOnlyFs(base), config.DefaultOptions().Simulated(), log.New(io.Discard)).Organize(dir)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.True(t, moves[0].Simulated)

	exists, err := afero.DirExists(base, "/tv/Show/Season 01")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestOrganizeCollision(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/tv/Show"
	writeFiles(t, fs, dir, "S01E01.mkv", "S01E02.mkv")
	writeFiles(t, fs, dir+"/Season 01", "S01E02.mkv")

	_, err := New(fs, config.DefaultOptions(), log.New(io.Discard)).Organize(dir)
	var collision *renamer.CollisionError
	require.ErrorAs(t, err, &collision)

	exists, err := afero.Exists(fs, "/tv/Show/S01E01.mkv")
	require.NoError(t, err)
	assert.True(t, exists, "nothing moves when a destination exists")
}
