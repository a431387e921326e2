package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomadcxx/tvtools/internal/config"
	"github.com/Nomadcxx/tvtools/internal/pipeline"
	"github.com/Nomadcxx/tvtools/internal/renamer"
)

type fakeRunner struct {
	mu     sync.Mutex
	calls  []string
	result *pipeline.Result
	err    error
}

func (f *fakeRunner) Run(_ context.Context, path string) (*pipeline.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, path)
	if f.result != nil {
		r := *f.result
		r.Path = path
		return &r, f.err
	}
	return &pipeline.Result{Path: path}, f.err
}

func (f *fakeRunner) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.ErrorLevel})
}

func TestTargetDir(t *testing.T) {
	d := New(afero.NewMemMapFs(), &fakeRunner{}, quietLogger(), Settings{Roots: []string{"/tv"}})

	tests := []struct {
		path string
		want string
	}{
		{"/tv/Show/01.mkv", "/tv/Show"},
		{"/tv/loose.mkv", "/tv"},
		{"/tv/Show/Season 01/S01E01.mkv", ""},
		{"/tv/Season 01/S01E01.mkv", ""},
		{"/tv/Specials/S00E01.mkv", ""},
		{"/other/Show/01.mkv", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, d.targetDir(tt.path))
		})
	}
}

func TestScheduleDebounces(t *testing.T) {
	runner := &fakeRunner{}
	d := New(afero.NewMemMapFs(), runner, quietLogger(), Settings{Debounce: 30 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.work(ctx)

	for i := 0; i < 5; i++ {
		d.Schedule("/tv/Show")
	}
	d.Schedule("/tv/Other")

	require.Eventually(t, func() bool {
		return len(runner.paths()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	assert.ElementsMatch(t, []string{"/tv/Show", "/tv/Other"}, runner.paths())
}

func TestProcessWritesReport(t *testing.T) {
	reportDir := t.TempDir()
	runner := &fakeRunner{result: &pipeline.Result{
		Renames: []renamer.Operation{{Dir: "/tv/Show", OldName: "01.mkv", NewName: "S01E01.mkv"}},
	}}
	d := New(afero.NewMemMapFs(), runner, quietLogger(), Settings{
		Options:   config.DefaultOptions(),
		ReportDir: reportDir,
	})

	d.process(context.Background(), "/tv/Show")

	files, err := filepath.Glob(filepath.Join(reportDir, "*_tvtoolsd.json"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestProcessReportsFailure(t *testing.T) {
	reportDir := t.TempDir()
	runner := &fakeRunner{err: errors.New("boom")}
	d := New(afero.NewMemMapFs(), runner, quietLogger(), Settings{ReportDir: reportDir})

	d.process(context.Background(), "/tv/Show")

	files, err := filepath.Glob(filepath.Join(reportDir, "*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestProcessSkipsEmptyReport(t *testing.T) {
	reportDir := t.TempDir()
	d := New(afero.NewMemMapFs(), &fakeRunner{}, quietLogger(), Settings{ReportDir: reportDir})

	d.process(context.Background(), "/tv/Show")

	entries, err := os.ReadDir(reportDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunWatchesShowDirectories(t *testing.T) {
	root := t.TempDir()
	show := filepath.Join(root, "Show")
	require.NoError(t, os.Mkdir(show, 0755))
	require.NoError(t, os.Mkdir(filepath.Join(show, "Season 01"), 0755))

	runner := &fakeRunner{}
	d := New(afero.NewOsFs(), runner, quietLogger(), Settings{
		Roots:    []string{root},
		Debounce: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	i := 0
	require.Eventually(t, func() bool {
		i++
		_ = os.WriteFile(filepath.Join(show, fmt.Sprintf("%02d.mkv", i)), nil, 0644)
		return len(runner.paths()) > 0
	}, 3*time.Second, 50*time.Millisecond)

	assert.Equal(t, show, runner.paths()[0])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Watch.Paths = []string{"/tv/"}
	cfg.Watch.Debounce = "3s"
	cfg.Watch.Options = []string{"doubleep"}

	settings := FromConfig(cfg)
	assert.Equal(t, []string{"/tv"}, settings.Roots)
	assert.Equal(t, 3*time.Second, settings.Debounce)
	assert.True(t, settings.Options.DoubleEp)
	assert.NotEmpty(t, settings.ReportDir)
}
