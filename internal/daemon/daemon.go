package daemon

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/Nomadcxx/tvtools/internal/config"
	"github.com/Nomadcxx/tvtools/internal/naming"
	"github.com/Nomadcxx/tvtools/internal/organizer"
	"github.com/Nomadcxx/tvtools/internal/pipeline"
	"github.com/Nomadcxx/tvtools/internal/reporter"
	"github.com/Nomadcxx/tvtools/internal/scanner"
)

// Runner processes one show directory.
type Runner interface {
	Run(ctx context.Context, path string) (*pipeline.Result, error)
}

// Settings configures a Daemon.
type Settings struct {
	Roots     []string
	Debounce  time.Duration
	Options   config.Options
	ReportDir string // empty disables reports
}

// Daemon watches library roots and runs the auto pipeline on directories
// that stopped changing for the debounce period.
type Daemon struct {
	fs       afero.Fs
	runner   Runner
	logger   *log.Logger
	settings Settings

	mu     sync.Mutex
	timers map[string]*time.Timer
	queue  chan string
}

// New creates a daemon. Nothing is watched until Run.
func New(fs afero.Fs, runner Runner, logger *log.Logger, settings Settings) *Daemon {
	if logger == nil {
		logger = log.Default()
	}
	return &Daemon{
		fs:       fs,
		runner:   runner,
		logger:   logger,
		settings: settings,
		timers:   make(map[string]*time.Timer),
		queue:    make(chan string, 64),
	}
}

// FromConfig builds the daemon settings from persisted settings.
func FromConfig(cfg *config.Config) Settings {
	opts, _ := cfg.WatchOptions()
	roots := make([]string, len(cfg.Watch.Paths))
	for i, p := range cfg.Watch.Paths {
		roots[i] = filepath.Clean(p)
	}
	return Settings{
		Roots:     roots,
		Debounce:  cfg.DebounceDuration(),
		Options:   opts,
		ReportDir: reporter.ReportDir(),
	}
}

// Run watches until ctx is cancelled. Pipeline runs happen one at a time on
// a single worker goroutine.
func (d *Daemon) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range d.settings.Roots {
		if err := d.watchRoot(watcher, root); err != nil {
			return err
		}
	}

	d.prune()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.work(ctx)
	}()

	d.logger.Info("Watching for changes", "roots", len(d.settings.Roots), "debounce", d.settings.Debounce)

	err = d.loop(ctx, watcher)
	d.stopTimers()
	wg.Wait()
	return err
}

func (d *Daemon) loop(ctx context.Context, watcher *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			d.handleEvent(watcher, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			d.logger.Error("Watcher error", "err", err)
		}
	}
}

func (d *Daemon) watchRoot(watcher *fsnotify.Watcher, root string) error {
	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("unable to watch %s: %w", root, err)
	}
	d.logger.Debug("Watching", "path", root)

	dirs, err := scanner.ListDirs(d.fs, root)
	if err != nil {
		return fmt.Errorf("unable to list %s: %w", root, err)
	}
	for _, dir := range dirs {
		if skipFolder(dir) {
			continue
		}
		path := filepath.Join(root, dir)
		if err := watcher.Add(path); err != nil {
			d.logger.Warn("Unable to watch directory", "path", path, "err", err)
			continue
		}
		d.logger.Debug("Watching", "path", path)
	}
	return nil
}

func (d *Daemon) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}

	if event.Has(fsnotify.Create) && d.isRoot(filepath.Dir(event.Name)) {
		if info, err := d.fs.Stat(event.Name); err == nil && info.IsDir() {
			if skipFolder(filepath.Base(event.Name)) {
				return
			}
			if err := watcher.Add(event.Name); err != nil {
				d.logger.Warn("Unable to watch directory", "path", event.Name, "err", err)
			} else {
				d.logger.Info("Now watching new directory", "path", event.Name)
			}
			d.Schedule(event.Name)
			return
		}
	}

	if dir := d.targetDir(event.Name); dir != "" {
		d.Schedule(dir)
	}
}

// targetDir maps a changed path to the show directory that should be
// reprocessed, or "" when the change is outside the watched layout.
func (d *Daemon) targetDir(path string) string {
	dir := filepath.Dir(filepath.Clean(path))
	if d.isRoot(dir) {
		return dir
	}
	if d.isRoot(filepath.Dir(dir)) && !skipFolder(filepath.Base(dir)) {
		return dir
	}
	return ""
}

func (d *Daemon) isRoot(dir string) bool {
	for _, root := range d.settings.Roots {
		if filepath.Clean(root) == dir {
			return true
		}
	}
	return false
}

// skipFolder reports whether a directory is created by the organizer and
// must never be treated as a show.
func skipFolder(name string) bool {
	return name == organizer.SpecialsFolder || naming.IsSeasonFolder(name)
}

// Schedule (re)starts the debounce timer of dir. When it fires dir is
// queued for the worker.
func (d *Daemon) Schedule(dir string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[dir]; ok {
		timer.Reset(d.settings.Debounce)
		return
	}

	d.timers[dir] = time.AfterFunc(d.settings.Debounce, func() {
		d.mu.Lock()
		delete(d.timers, dir)
		d.mu.Unlock()

		select {
		case d.queue <- dir:
		default:
			d.logger.Warn("Work queue full, dropping directory", "path", dir)
		}
	})
}

func (d *Daemon) stopTimers() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for dir, timer := range d.timers {
		timer.Stop()
		delete(d.timers, dir)
	}
}

func (d *Daemon) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case dir := <-d.queue:
			d.process(ctx, dir)
		}
	}
}

func (d *Daemon) process(ctx context.Context, dir string) {
	d.logger.Info("Processing directory", "path", dir)

	report := reporter.New("tvtoolsd", []config.Verb{config.VerbAuto}, d.settings.Options, []string{dir})

	result, err := d.runner.Run(ctx, dir)
	report.AddResult(result)
	if err != nil {
		d.logger.Error("Auto pipeline failed", "path", dir, "err", err)
		report.AddError(dir, err)
	}

	if d.settings.ReportDir == "" || report.Empty() {
		return
	}

	jsonPath, _, err := reporter.Generate(report, d.settings.ReportDir)
	if err != nil {
		d.logger.Error("Failed to write report", "err", err)
		return
	}
	d.logger.Info("Report saved", "path", jsonPath)
	d.prune()
}

func (d *Daemon) prune() {
	if d.settings.ReportDir == "" {
		return
	}
	deleted, err := reporter.Prune(d.settings.ReportDir, reporter.MaxAge)
	if err != nil {
		d.logger.Warn("Failed to prune reports", "err", err)
		return
	}
	if deleted > 0 {
		d.logger.Info("Cleaned up old reports", "count", deleted)
	}
}
