package pipeline

import (
	"context"
	"fmt"

	"github.com/Nomadcxx/tvtools/internal/config"
	"github.com/Nomadcxx/tvtools/internal/metadata"
	"github.com/Nomadcxx/tvtools/internal/naming"
	"github.com/Nomadcxx/tvtools/internal/organizer"
	"github.com/Nomadcxx/tvtools/internal/renamer"
	"github.com/Nomadcxx/tvtools/internal/scanner"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Result describes what the auto pipeline did, or would do, to one directory.
type Result struct {
	Path       string              `json:"path"`
	Structured bool                `json:"structured,omitempty"`
	Detection  naming.Detection    `json:"detection"`
	Renames    []renamer.Operation `json:"renames,omitempty"`
	Moves      []organizer.Move    `json:"moves,omitempty"`
}

// Changed reports whether the run planned any rename or move.
func (r *Result) Changed() bool {
	return len(r.Renames) > 0 || len(r.Moves) > 0
}

// Pipeline detects the naming style of flat show directories, converts them
// to canonical names and organizes them into season folders.
type Pipeline struct {
	fs        afero.Fs
	opts      config.Options
	logger    *log.Logger
	renamer   *renamer.Renamer
	organizer *organizer.Organizer
}

// New creates a Pipeline. lookup may be nil; absolute-numbered directories
// then fail with metadata.ErrMissingCredential.
func New(fs afero.Fs, opts config.Options, logger *log.Logger, lookup metadata.Lookup) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		fs:        fs,
		opts:      opts,
		logger:    logger,
		renamer:   renamer.New(fs, opts, logger, lookup),
		organizer: organizer.New(fs, opts, logger),
	}
}

// Run processes one directory. Directories already holding season folders
// are reported as structured and left alone. With noexec nothing is touched
// and the organizer plans against the names the renames would produce.
func (p *Pipeline) Run(ctx context.Context, path string) (*Result, error) {
	result := &Result{Path: path}

	select {
	case <-ctx.Done():
		return result, ctx.Err()
	default:
	}

	dirs, err := scanner.ListDirs(p.fs, path)
	if err != nil {
		return result, err
	}
	for _, dir := range dirs {
		if naming.IsSeasonFolder(dir) {
			result.Structured = true
			p.logger.Info("Directory already has season folders, skipping", "path", path, "folder", dir)
			return result, nil
		}
	}

	names, err := scanner.ListFiles(p.fs, path)
	if err != nil {
		return result, err
	}

	det, err := naming.Detect(names)
	result.Detection = det
	if err != nil {
		return result, fmt.Errorf("%s: %w", path, err)
	}
	if det.Ambiguous {
		p.logger.Warn("Style decided over very few files", "path", path, "style", det.Style)
	}
	p.logger.Info("Detected naming style", "path", path, "style", det.Style, "reclassified", det.Reclassified)

	ops, err := p.plan(ctx, path, det.Style, names)
	if err != nil {
		return result, err
	}

	result.Renames, err = p.renamer.Apply(ops)
	if err != nil {
		return result, err
	}

	// plan moves against the post-rename names so noexec reports the same moves
	renamed := renamer.Apply(names, path, result.Renames)
	result.Moves, err = p.organizer.Apply(p.organizer.Plan(path, renamed))
	if err != nil {
		return result, err
	}

	return result, nil
}

func (p *Pipeline) plan(ctx context.Context, path string, style naming.Style, names []string) ([]renamer.Operation, error) {
	switch {
	case style == naming.Standard:
		return nil, nil
	case style == naming.Absolute:
		return p.renamer.PlanFromMetadata(ctx, path, names)
	default:
		return p.renamer.PlanStyle(path, style, names)
	}
}

// Apply carries out a result planned earlier, typically with noexec, using
// this pipeline's options.
func (p *Pipeline) Apply(result *Result) (*Result, error) {
	applied := &Result{Path: result.Path, Structured: result.Structured, Detection: result.Detection}

	var err error
	applied.Renames, err = p.renamer.Apply(unsimulated(result.Renames))
	if err != nil {
		return applied, err
	}

	moves := make([]organizer.Move, len(result.Moves))
	for i, m := range result.Moves {
		m.Simulated = false
		moves[i] = m
	}
	applied.Moves, err = p.organizer.Apply(moves)
	return applied, err
}

func unsimulated(ops []renamer.Operation) []renamer.Operation {
	out := make([]renamer.Operation, len(ops))
	for i, op := range ops {
		op.Simulated = false
		out[i] = op
	}
	return out
}
