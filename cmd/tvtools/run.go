package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/Nomadcxx/tvtools/internal/config"
	"github.com/Nomadcxx/tvtools/internal/metadata"
	"github.com/Nomadcxx/tvtools/internal/organizer"
	"github.com/Nomadcxx/tvtools/internal/pipeline"
	"github.com/Nomadcxx/tvtools/internal/renamer"
	"github.com/Nomadcxx/tvtools/internal/reporter"
	"github.com/Nomadcxx/tvtools/internal/scanner"
	"github.com/Nomadcxx/tvtools/internal/ui"
)

// app runs the verbs of one legacy command line.
type app struct {
	fs         afero.Fs
	stdout     io.Writer
	logger     *log.Logger
	configPath string
	reportDir  string // empty disables reports

	// review shows a simulated plan and reports whether it was confirmed
	review func(report *reporter.Report) (bool, error)
}

func newApp(stdout, stderr io.Writer) (*app, error) {
	configPath, err := config.ConfigPath()
	if err != nil {
		return nil, err
	}
	return &app{
		fs:         afero.NewOsFs(),
		stdout:     stdout,
		logger:     ui.NewLogger(stderr, "info"),
		configPath: configPath,
		reportDir:  reporter.ReportDir(),
		review:     reviewInTUI,
	}, nil
}

func reviewInTUI(report *reporter.Report) (bool, error) {
	p := tea.NewProgram(ui.NewReviewModel(report), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("error running TUI: %w", err)
	}
	return final.(ui.Model).Confirmed(), nil
}

// run executes the parsed verbs in order and returns the process exit code.
// It fails only when a settings operation failed or every path failed.
func (a *app) run(ctx context.Context, args *config.Arguments) int {
	if args.LogLevel != "" {
		a.logger.SetLevel(ui.ParseLevel(args.LogLevel))
	}
	for _, arg := range args.Unknown {
		a.logger.Warn("Ignoring unknown argument", "arg", arg)
	}

	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		a.logger.Error("Failed to load settings", "err", err)
		return 1
	}
	if args.LogLevel == "" {
		a.logger.SetLevel(ui.ParseLevel(cfg.Logging.Level))
	}

	if args.Has(config.VerbAddTMDB) {
		if err := a.addTMDB(cfg, args); err != nil {
			a.logger.Error("Failed to save TMDB credentials", "err", err)
			return 1
		}
	}

	if args.Has(config.VerbPrintConfig) {
		if err := cfg.Redacted().WriteTOML(a.stdout); err != nil {
			a.logger.Error("Failed to print settings", "err", err)
			return 1
		}
	}

	if !args.NeedsPaths() {
		return 0
	}
	if len(args.Paths) == 0 {
		a.logger.Error("No paths given, use -paths:/path/one,,/path/two")
		return 1
	}

	report := reporter.New("tvtools", args.Verbs(), args.Options, args.Paths)
	paths := a.validPaths(report, args.Paths, !args.Options.NoExec)
	lookup := a.lookup(cfg)

	for _, verb := range args.Verbs() {
		switch verb {
		case config.VerbOrganize:
			org := organizer.New(a.fs, args.Options, a.logger)
			for _, path := range paths {
				moves, err := org.Organize(path)
				report.AddMoves(moves)
				a.check(report, path, err)
			}

		case config.VerbRename:
			ren := renamer.New(a.fs, args.Options, a.logger, lookup)
			for _, path := range paths {
				ops, err := ren.Rename(path)
				report.AddRenames(ops)
				a.check(report, path, err)
			}

		case config.VerbAuto:
			p := pipeline.New(a.fs, args.Options, a.logger, lookup)
			for _, path := range paths {
				result, err := p.Run(ctx, path)
				report.AddResult(result)
				a.check(report, path, err)
			}

		case config.VerbReview:
			if err := a.reviewPaths(ctx, report, paths, args.Options, lookup); err != nil {
				a.logger.Error("Review failed", "err", err)
				return 1
			}
		}
	}

	a.saveReport(report)

	if failedPaths(report) >= len(args.Paths) {
		return 1
	}
	return 0
}

func (a *app) addTMDB(cfg *config.Config, args *config.Arguments) error {
	if err := cfg.SetTMDBCredentials(args.Key, args.Token); err != nil {
		return err
	}
	if err := config.SaveFile(cfg, a.configPath); err != nil {
		return err
	}
	a.logger.Info("Saved TMDB credentials", "path", a.configPath)
	return nil
}

// lookup returns the TMDB client, or nil so that absolute conversion reports
// missing credentials instead of calling TMDB anonymously.
func (a *app) lookup(cfg *config.Config) metadata.Lookup {
	if !cfg.HasTMDBCredentials() {
		return nil
	}
	client, err := metadata.NewTMDBClient(cfg.TMDB.Key, cfg.TMDB.Token)
	if err != nil {
		return nil
	}
	if cfg.TMDB.Language != "" {
		client.Language = cfg.TMDB.Language
	}
	client.Logger = a.logger
	return client
}

func (a *app) validPaths(report *reporter.Report, paths []string, requireWritable bool) []string {
	validation, _ := scanner.ValidatePaths(a.fs, paths, requireWritable)
	for _, bad := range validation.InaccessiblePaths {
		a.check(report, bad.Path, bad.Error)
	}
	for _, warning := range validation.Warnings {
		a.logger.Warn(warning)
	}
	return validation.AccessiblePaths
}

// reviewPaths plans every path with noexec, shows the plan and applies the
// same plan when the user confirms.
func (a *app) reviewPaths(ctx context.Context, report *reporter.Report, paths []string, opts config.Options, lookup metadata.Lookup) error {
	plan := reporter.New("tvtools", []config.Verb{config.VerbReview}, opts.Simulated(), paths)
	simulated := pipeline.New(a.fs, opts.Simulated(), a.logger, lookup)

	var results []*pipeline.Result
	for _, path := range paths {
		result, err := simulated.Run(ctx, path)
		plan.AddResult(result)
		if err != nil {
			plan.AddError(path, err)
			a.check(report, path, err)
			continue
		}
		results = append(results, result)
	}

	confirmed, err := a.review(plan)
	if err != nil {
		return err
	}
	if !confirmed {
		a.logger.Info("Review closed, nothing applied")
		return nil
	}

	p := pipeline.New(a.fs, opts, a.logger, lookup)
	for _, result := range results {
		applied, err := p.Apply(result)
		report.AddResult(applied)
		a.check(report, result.Path, err)
	}
	return nil
}

func (a *app) check(report *reporter.Report, path string, err error) {
	if err == nil {
		return
	}
	a.logger.Error("Failed", "path", path, "err", err)
	report.AddError(path, err)
}

func (a *app) saveReport(report *reporter.Report) {
	if a.reportDir == "" || report.Empty() {
		return
	}
	jsonPath, _, err := reporter.Generate(report, a.reportDir)
	if err != nil {
		a.logger.Warn("Failed to write report", "err", err)
		return
	}
	a.logger.Info("Report saved", "path", jsonPath)
}

func failedPaths(report *reporter.Report) int {
	failed := make(map[string]bool)
	for _, e := range report.Errors {
		failed[e.Path] = true
	}
	return len(failed)
}
