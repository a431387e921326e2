package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Nomadcxx/tvtools/internal/config"
	"github.com/Nomadcxx/tvtools/internal/naming"
	"github.com/Nomadcxx/tvtools/internal/organizer"
	"github.com/Nomadcxx/tvtools/internal/pipeline"
	"github.com/Nomadcxx/tvtools/internal/renamer"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxAge is how long reports are kept before Prune removes them.
const MaxAge = 30 * 24 * time.Hour

// Report records what one run planned and did.
type Report struct {
	Timestamp  time.Time           `json:"timestamp"`
	Source     string              `json:"source"`
	Verbs      []string            `json:"verbs"`
	Options    config.Options      `json:"options"`
	Paths      []string            `json:"paths"`
	Detections []Detection         `json:"detections,omitempty"`
	Renames    []renamer.Operation `json:"renames,omitempty"`
	Moves      []organizer.Move    `json:"moves,omitempty"`
	Skipped    []string            `json:"skipped,omitempty"`
	Errors     []PathError         `json:"errors,omitempty"`
}

// Detection is the naming style found in one directory.
type Detection struct {
	Path string `json:"path"`
	naming.Detection
}

// PathError is a failure that aborted work on one path.
type PathError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// New starts a report for a run.
func New(source string, verbs []config.Verb, opts config.Options, paths []string) *Report {
	names := make([]string, len(verbs))
	for i, v := range verbs {
		names[i] = string(v)
	}
	return &Report{
		Timestamp: time.Now(),
		Source:    source,
		Verbs:     names,
		Options:   opts,
		Paths:     paths,
	}
}

func (r *Report) AddRenames(ops []renamer.Operation) {
	r.Renames = append(r.Renames, ops...)
}

func (r *Report) AddMoves(moves []organizer.Move) {
	r.Moves = append(r.Moves, moves...)
}

// AddResult records an auto pipeline result, including partial results of a failed run.
func (r *Report) AddResult(result *pipeline.Result) {
	if result == nil {
		return
	}
	if result.Structured {
		r.Skipped = append(r.Skipped, result.Path)
		return
	}
	if result.Detection.Style != naming.StyleNone {
		r.Detections = append(r.Detections, Detection{Path: result.Path, Detection: result.Detection})
	}
	r.AddRenames(result.Renames)
	r.AddMoves(result.Moves)
}

func (r *Report) AddError(path string, err error) {
	r.Errors = append(r.Errors, PathError{Path: path, Error: err.Error()})
}

// Empty reports whether the run produced nothing worth keeping.
func (r *Report) Empty() bool {
	return len(r.Renames) == 0 && len(r.Moves) == 0 && len(r.Errors) == 0 && len(r.Detections) == 0
}

// Generate writes the report as JSON and as a text summary into dir and
// returns both paths.
func Generate(report *Report, dir string) (jsonPath, textPath string, err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create report directory: %w", err)
	}

	base := filepath.Join(dir, report.Timestamp.Format("20060102_150405")+"_"+report.Source)
	jsonPath = base + ".json"
	textPath = base + ".txt"

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return "", "", fmt.Errorf("failed to write report: %w", err)
	}

	if err := os.WriteFile(textPath, []byte(BuildContent(report)), 0644); err != nil {
		return jsonPath, "", fmt.Errorf("failed to write report: %w", err)
	}

	return jsonPath, textPath, nil
}

// Load reads a JSON report written by Generate.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// BuildContent renders the text summary of a report.
func BuildContent(report *Report) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 80) + "\n"
	title := cases.Title(language.English)

	sb.WriteString("TVTOOLS RUN REPORT\n")
	sb.WriteString(rule)
	sb.WriteString(fmt.Sprintf("Generated: %s\n", report.Timestamp.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Source: %s\n", report.Source))
	sb.WriteString(fmt.Sprintf("Verbs: %s\n", strings.Join(report.Verbs, ", ")))
	if flags := report.Options.Flags(); len(flags) > 0 {
		sb.WriteString(fmt.Sprintf("Options: %s\n", strings.Join(flags, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Paths: %s\n", strings.Join(report.Paths, ", ")))
	if report.Options.NoExec {
		sb.WriteString("Mode: simulated, nothing was changed\n")
	}
	sb.WriteString("\n")

	sb.WriteString("SUMMARY\n")
	sb.WriteString(rule)
	sb.WriteString(fmt.Sprintf("Renames: %d\n", len(report.Renames)))
	sb.WriteString(fmt.Sprintf("Moves: %d\n", len(report.Moves)))
	sb.WriteString(fmt.Sprintf("Skipped (already structured): %d\n", len(report.Skipped)))
	sb.WriteString(fmt.Sprintf("Errors: %d\n", len(report.Errors)))
	sb.WriteString("\n")

	if len(report.Detections) > 0 {
		sb.WriteString("DETECTED STYLES\n")
		sb.WriteString(rule)
		for _, d := range report.Detections {
			line := fmt.Sprintf("%s: %s", d.Path, title.String(strings.ReplaceAll(d.Style.String(), "_", " ")))
			if d.Reclassified {
				line += " (reclassified from flat)"
			}
			if d.Ambiguous {
				line += " (ambiguous)"
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}

	if len(report.Renames) > 0 {
		sb.WriteString("RENAMES\n")
		sb.WriteString(rule)
		for i, op := range report.Renames {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, op.String()))
		}
		sb.WriteString("\n")
	}

	if len(report.Moves) > 0 {
		sb.WriteString("MOVES\n")
		sb.WriteString(rule)
		for i, m := range report.Moves {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, m.String()))
		}
		sb.WriteString("\n")
	}

	if len(report.Errors) > 0 {
		sb.WriteString("ERRORS\n")
		sb.WriteString(rule)
		for _, e := range report.Errors {
			sb.WriteString(fmt.Sprintf("%s: %s\n", e.Path, e.Error))
		}
	}

	return sb.String()
}

// realUserHome returns SUDO_USER's home when running through sudo.
func realUserHome() (string, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		return filepath.Join("/home", sudoUser), nil
	}
	return os.UserHomeDir()
}

// DataDir is where tvtools keeps reports and the daemon log.
func DataDir() string {
	home, err := realUserHome()
	if err != nil {
		return filepath.Join(os.TempDir(), "tvtools")
	}
	return filepath.Join(home, ".local", "share", "tvtools")
}

// ReportDir returns the directory where reports are stored.
func ReportDir() string {
	return filepath.Join(DataDir(), "reports")
}

// Prune removes report files in dir older than maxAge and returns how many went.
func Prune(dir string, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read report directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".json" && ext != ".txt" {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}
