package renamer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Operation renames one file inside Dir.
type Operation struct {
	Dir       string `json:"dir"`
	OldName   string `json:"old_name"`
	NewName   string `json:"new_name"`
	Simulated bool   `json:"simulated,omitempty"`
}

func (o Operation) OldPath() string {
	return filepath.Join(o.Dir, o.OldName)
}

func (o Operation) NewPath() string {
	return filepath.Join(o.Dir, o.NewName)
}

func (o Operation) String() string {
	folder := filepath.Base(filepath.Clean(o.Dir))
	return fmt.Sprintf("%s/%s -> %s/%s", folder, o.OldName, folder, o.NewName)
}

// CollisionError is returned when a batch would overwrite a file.
type CollisionError struct {
	Target  string
	Sources []string
	// Existing is set when Target is already on disk, unset when two
	// operations of the batch share it.
	Existing bool
}

func (e *CollisionError) Error() string {
	if e.Existing {
		return fmt.Sprintf("target path already exists: %s (from %s)", e.Target, strings.Join(e.Sources, ", "))
	}
	return fmt.Sprintf("multiple files would be renamed to %s: %s", e.Target, strings.Join(e.Sources, ", "))
}

// Validate checks a batch before anything is renamed. A target may exist on
// disk only when an earlier operation of the same batch moves it away.
func Validate(fs afero.Fs, ops []Operation) error {
	vacatedAt := make(map[string]int, len(ops))
	for i, op := range ops {
		vacatedAt[op.OldPath()] = i
	}

	claimedBy := make(map[string]string, len(ops))
	for i, op := range ops {
		source, target := op.OldPath(), op.NewPath()

		if previous, ok := claimedBy[target]; ok {
			return &CollisionError{Target: target, Sources: []string{previous, source}}
		}
		claimedBy[target] = source

		// case-only renames on case-insensitive filesystems stat as existing
		if strings.EqualFold(source, target) {
			continue
		}

		exists, err := afero.Exists(fs, target)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", target, err)
		}
		if !exists {
			continue
		}
		if j, ok := vacatedAt[target]; ok && j < i {
			continue
		}
		return &CollisionError{Target: target, Sources: []string{source}, Existing: true}
	}

	return nil
}

// Apply maps file names through a batch of operations planned for dir.
// Names not touched by the batch are returned unchanged.
func Apply(names []string, dir string, ops []Operation) []string {
	renamed := make(map[string]string, len(ops))
	for _, op := range ops {
		if filepath.Clean(op.Dir) == filepath.Clean(dir) {
			renamed[op.OldName] = op.NewName
		}
	}

	out := make([]string, len(names))
	for i, name := range names {
		if newName, ok := renamed[name]; ok {
			out[i] = newName
			continue
		}
		out[i] = name
	}
	return out
}
