package organizer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Nomadcxx/tvtools/internal/config"
	"github.com/Nomadcxx/tvtools/internal/renamer"
	"github.com/Nomadcxx/tvtools/internal/scanner"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// SpecialsFolder receives season 0.
const SpecialsFolder = "Specials"

// Move relocates one flat file into its season folder.
type Move struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Season      int    `json:"season"`
	Simulated   bool   `json:"simulated,omitempty"`
}

func (m Move) String() string {
	return fmt.Sprintf("%s -> %s", filepath.Base(m.Source), filepath.Join(filepath.Base(filepath.Dir(m.Destination)), filepath.Base(m.Destination)))
}

// Organizer groups canonical episode files into season folders.
type Organizer struct {
	fs     afero.Fs
	opts   config.Options
	logger *log.Logger
}

func New(fs afero.Fs, opts config.Options, logger *log.Logger) *Organizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Organizer{fs: fs, opts: opts, logger: logger}
}

// SeasonMarker is the substring identifying a season's files: S00, S01, S100.
func SeasonMarker(season int) string {
	return fmt.Sprintf("S%0*d", seasonWidth(season), season)
}

// SeasonFolder is the destination folder name of a season.
func SeasonFolder(season int) string {
	if season == 0 {
		return SpecialsFolder
	}
	return fmt.Sprintf("Season %0*d", seasonWidth(season), season)
}

func seasonWidth(season int) int {
	if season >= 100 {
		return 3
	}
	return 2
}

// Plan assigns names found flat in dir to season folders. Seasons are scanned
// upward from 0 and the scan stops at the first season other than 0 with no
// matching file. Each name is assigned at most once.
func (o *Organizer) Plan(dir string, names []string) []Move {
	assigned := make(map[string]bool, len(names))

	var moves []Move
	for season := 0; ; season++ {
		marker := SeasonMarker(season)
		folder := SeasonFolder(season)

		found := 0
		for _, name := range names {
			if assigned[name] || !strings.Contains(name, marker) {
				continue
			}
			assigned[name] = true
			found++
			moves = append(moves, Move{
				Source:      filepath.Join(dir, name),
				Destination: filepath.Join(dir, folder, name),
				Season:      season,
			})
		}

		if found == 0 && season > 0 {
			break
		}
	}
	return moves
}

// Organize moves the flat files of dir into their season folders.
func (o *Organizer) Organize(dir string) ([]Move, error) {
	names, err := scanner.ListFiles(o.fs, dir)
	if err != nil {
		return nil, err
	}
	return o.Apply(o.Plan(dir, names))
}

// Apply creates the season folders and moves the files. Every destination is
// checked first; one existing destination fails the batch before any move.
func (o *Organizer) Apply(moves []Move) ([]Move, error) {
	for _, m := range moves {
		exists, err := afero.Exists(o.fs, m.Destination)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", m.Destination, err)
		}
		if exists {
			return nil, &renamer.CollisionError{Target: m.Destination, Sources: []string{m.Source}, Existing: true}
		}
	}

	created := make(map[string]bool)
	moved := make(map[int]int)
	applied := make([]Move, 0, len(moves))
	for _, m := range moves {
		m.Simulated = o.opts.NoExec
		destDir := filepath.Dir(m.Destination)

		if !created[destDir] {
			created[destDir] = true
			if err := o.ensureDir(destDir); err != nil {
				return applied, err
			}
		}

		if o.opts.Print {
			o.logger.Info(m.String())
		}
		if !o.opts.NoExec {
			if err := o.fs.Rename(m.Source, m.Destination); err != nil {
				return applied, fmt.Errorf("failed to move %s: %w", m.Source, err)
			}
		}
		moved[m.Season]++
		applied = append(applied, m)
	}

	for season := 0; len(moved) > 0; season++ {
		if n, ok := moved[season]; ok {
			o.logger.Info("Moved episodes", "count", n, "season", season, "simulated", o.opts.NoExec)
			delete(moved, season)
		}
	}

	return applied, nil
}

func (o *Organizer) ensureDir(dir string) error {
	exists, err := afero.DirExists(o.fs, dir)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", dir, err)
	}
	if exists {
		return nil
	}

	if !o.opts.NoExec {
		if err := o.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	o.logger.Info("Created directory", "path", dir, "simulated", o.opts.NoExec)
	return nil
}
