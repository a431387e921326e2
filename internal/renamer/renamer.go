package renamer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Nomadcxx/tvtools/internal/config"
	"github.com/Nomadcxx/tvtools/internal/metadata"
	"github.com/Nomadcxx/tvtools/internal/naming"
	"github.com/Nomadcxx/tvtools/internal/scanner"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// ErrNoShowName is returned when no path component reads "Show Name (Year)".
var ErrNoShowName = errors.New("no \"Show Name (Year)\" component in path")

// Renamer plans and applies episode renames on one filesystem.
type Renamer struct {
	fs     afero.Fs
	opts   config.Options
	logger *log.Logger
	lookup metadata.Lookup
}

// New creates a Renamer. lookup may be nil when no metadata service is configured.
func New(fs afero.Fs, opts config.Options, logger *log.Logger, lookup metadata.Lookup) *Renamer {
	if logger == nil {
		logger = log.Default()
	}
	return &Renamer{fs: fs, opts: opts, logger: logger, lookup: lookup}
}

// Options returns the run options the Renamer was built with.
func (r *Renamer) Options() config.Options {
	return r.opts
}

// PlanSeasons plans renames in every numbered season directory under parent:
// marker substitution with preserve, absolute renumbering otherwise.
func (r *Renamer) PlanSeasons(parent string) ([]Operation, error) {
	dirs, err := scanner.ListDirs(r.fs, parent)
	if err != nil {
		return nil, err
	}

	var ops []Operation
	for _, dirName := range dirs {
		_, season, ok := naming.FirstNumber(dirName)
		if !ok {
			r.logger.Debug("Skipping directory without season number", "dir", dirName)
			continue
		}

		dir := filepath.Join(parent, dirName)
		entries, err := scanner.Snapshot(r.fs, dir)
		if err != nil {
			return nil, err
		}

		if r.opts.Preserve {
			ops = append(ops, PlanMarker(dir, season, entries, r.opts)...)
		} else {
			ops = append(ops, PlanAbsolute(dir, season, entries, r.opts)...)
		}
	}
	return ops, nil
}

// Rename plans and applies renames in the season directories of parent.
func (r *Renamer) Rename(parent string) ([]Operation, error) {
	ops, err := r.PlanSeasons(parent)
	if err != nil {
		return nil, err
	}
	return r.Apply(ops)
}

// PlanStyle plans the conversion of a flat directory from style to canonical names.
func (r *Renamer) PlanStyle(dir string, style naming.Style, names []string) ([]Operation, error) {
	if !style.HasSeason() {
		return nil, fmt.Errorf("cannot convert %s names without metadata", style)
	}
	return PlanConversion(dir, style, names), nil
}

// PlanFromMetadata plans an absolute-numbered flat directory against the
// season counts of the show named by the nearest "Show Name (Year)" component.
func (r *Renamer) PlanFromMetadata(ctx context.Context, dir string, names []string) ([]Operation, error) {
	if r.lookup == nil {
		return nil, metadata.ErrMissingCredential
	}

	name, year, ok := naming.ShowFromPath(dir)
	if !ok {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoShowName)
	}

	show, err := r.lookup.Lookup(ctx, name, year)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s (%s): %w", name, year, err)
	}

	plan := PlanMetadata(dir, names, show)
	if plan.Overflow > 0 {
		r.logger.Warn("Episodes past the last known season", "show", name, "season", show.LastSeason(), "count", plan.Overflow)
	}
	return plan.Operations, nil
}

// Apply validates the batch and renames each file. With noexec the batch is
// returned marked simulated and the filesystem is not touched. A collision
// fails the whole batch before any rename.
func (r *Renamer) Apply(ops []Operation) ([]Operation, error) {
	if err := Validate(r.fs, ops); err != nil {
		return nil, err
	}

	applied := make([]Operation, 0, len(ops))
	for _, op := range ops {
		op.Simulated = r.opts.NoExec
		if r.opts.Print {
			r.logger.Info(op.String())
		}
		if !r.opts.NoExec {
			if err := r.fs.Rename(op.OldPath(), op.NewPath()); err != nil {
				return applied, fmt.Errorf("failed to rename %s: %w", op.OldPath(), err)
			}
		}
		applied = append(applied, op)
	}

	if len(applied) > 0 {
		r.logger.Debug("Renamed files", "count", len(applied), "simulated", r.opts.NoExec)
	}
	return applied, nil
}
