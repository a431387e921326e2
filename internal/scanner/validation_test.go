package scanner

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePaths(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/media/tv/Show (2004)", 0755))
	require.NoError(t, afero.WriteFile(fs, "/media/tv/Show (2004)/01.mkv", []byte("x"), 0644))
	require.NoError(t, fs.MkdirAll("/media/tv/Empty", 0755))

	tests := []struct {
		name           string
		paths          []string
		wantAccessible int
		wantWarnings   int
		wantErr        bool
	}{
		{"valid path", []string{"/media/tv/Show (2004)/"}, 1, 0, false},
		{"empty directory warns", []string{"/media/tv/Empty"}, 1, 1, false},
		{"mixed valid and invalid", []string{"/media/tv/Show (2004)", "/media/tv/missing"}, 1, 0, false},
		{"all invalid", []string{"/media/tv/missing"}, 0, 0, true},
		{"protected path", []string{"/media"}, 0, 0, true},
		{"no paths", nil, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := ValidatePaths(fs, tt.paths, true)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, report.AccessiblePaths, tt.wantAccessible)
			assert.Len(t, report.Warnings, tt.wantWarnings)
		})
	}

	exists, err := afero.Exists(fs, "/media/tv/Show (2004)/"+writeProbe)
	require.NoError(t, err)
	assert.False(t, exists, "write probe must be removed")
}

func TestValidatePathsReadOnly(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("/media/tv/Show", 0755))
	fs := afero.NewReadOnlyFs(base)

	_, err := ValidatePaths(fs, []string{"/media/tv/Show"}, true)
	assert.Error(t, err)

	report, err := ValidatePaths(fs, []string{"/media/tv/Show"}, false)
	require.NoError(t, err)
	assert.True(t, report.CanProceed())
}

func TestValidatePathDepth(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"", true},
		{"/", true},
		{"/home", true},
		{"/srv", true},
		{"/srv/tv", false},
		{"/media/tv/Show (2004)", false},
		{"relative/show", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidatePathDepth(tt.path, "rename")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
