package scanner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const writeProbe = ".tvtools_write_test"

// minimumDepth is how many components a path needs before tvtools will rename in it.
const minimumDepth = 2

var protectedPaths = []string{"/", "/mnt", "/media", "/home", "/usr", "/etc", "/var", "/tmp", "/opt"}

type PathValidationResult struct {
	Path       string
	Accessible bool
	Writable   bool
	FileCount  int
	Error      error
}

type ValidationReport struct {
	TotalPaths        int
	AccessiblePaths   []string
	InaccessiblePaths []PathValidationResult
	Warnings          []string
}

// CanProceed reports whether at least one path can be worked on.
func (r *ValidationReport) CanProceed() bool {
	return len(r.AccessiblePaths) > 0
}

// ValidatePaths checks every path before a run. requireWritable probes each
// directory with a temporary file, so callers skip it for simulated runs.
func ValidatePaths(fs afero.Fs, paths []string, requireWritable bool) (*ValidationReport, error) {
	report := &ValidationReport{TotalPaths: len(paths)}

	if len(paths) == 0 {
		return report, fmt.Errorf("no paths provided")
	}

	for _, path := range paths {
		result := validateSinglePath(fs, path, requireWritable)
		if !result.Accessible {
			report.InaccessiblePaths = append(report.InaccessiblePaths, result)
			continue
		}
		report.AccessiblePaths = append(report.AccessiblePaths, path)
		if result.FileCount == 0 {
			report.Warnings = append(report.Warnings, fmt.Sprintf("path contains no files: %s", path))
		}
	}

	if !report.CanProceed() {
		return report, fmt.Errorf("no accessible paths found (checked %d paths)", len(paths))
	}
	return report, nil
}

func validateSinglePath(fs afero.Fs, path string, requireWritable bool) PathValidationResult {
	result := PathValidationResult{Path: path}

	if err := ValidatePathDepth(path, "rename"); err != nil {
		result.Error = err
		return result
	}

	info, err := fs.Stat(path)
	if err != nil {
		result.Error = err
		return result
	}
	if !info.IsDir() {
		result.Error = fmt.Errorf("path is not a directory")
		return result
	}

	files, err := ListFiles(fs, path)
	if err != nil {
		result.Error = err
		return result
	}
	dirs, err := ListDirs(fs, path)
	if err != nil {
		result.Error = err
		return result
	}
	result.FileCount = len(files) + len(dirs)

	if requireWritable {
		result.Writable = checkWritable(fs, path)
		if !result.Writable {
			result.Error = fmt.Errorf("path is not writable (required for this operation)")
			return result
		}
	}

	result.Accessible = true
	return result
}

func checkWritable(fs afero.Fs, path string) bool {
	probe := filepath.Join(path, writeProbe)
	file, err := fs.Create(probe)
	if err != nil {
		return false
	}
	file.Close()
	fs.Remove(probe)
	return true
}

// ValidatePathDepth refuses filesystem roots and other shallow system paths.
func ValidatePathDepth(path, operation string) error {
	if path == "" {
		return fmt.Errorf("path is empty")
	}

	cleanPath := filepath.ToSlash(filepath.Clean(path))
	for _, protected := range protectedPaths {
		if cleanPath == protected {
			return fmt.Errorf("refusing to %s on protected path: %s", operation, cleanPath)
		}
	}

	if filepath.IsAbs(path) {
		parts := strings.Split(strings.TrimPrefix(cleanPath, "/"), "/")
		if len(parts) < minimumDepth {
			return fmt.Errorf("path too shallow for safe %s (minimum %d levels deep): %s", operation, minimumDepth, cleanPath)
		}
	}

	return nil
}
