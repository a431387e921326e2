package scanner

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Nomadcxx/tvtools/internal/naming"
	"github.com/spf13/afero"
)

// Entry is one file of a directory snapshot.
type Entry struct {
	Name  string
	Ext   string
	Token string // first digit run in Name, empty when the name has no digits
	Value int
}

// Numbered reports whether the file name carries any digit.
func (e Entry) Numbered() bool {
	return e.Token != ""
}

// NewEntry derives an Entry from a file name.
func NewEntry(name string) Entry {
	entry := Entry{Name: name, Ext: filepath.Ext(name)}
	if token, value, ok := naming.FirstNumber(name); ok {
		entry.Token = token
		entry.Value = value
	}
	return entry
}

// ListFiles returns the names of the regular, non-hidden files directly in dir,
// sorted by name.
func ListFiles(fs afero.Fs, dir string) ([]string, error) {
	return list(fs, dir, false)
}

// ListDirs returns the names of the non-hidden subdirectories of dir, sorted by name.
func ListDirs(fs afero.Fs, dir string) ([]string, error) {
	return list(fs, dir, true)
}

func list(fs afero.Fs, dir string, dirs bool) ([]string, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if strings.HasPrefix(info.Name(), ".") {
			continue
		}
		if info.IsDir() != dirs {
			continue
		}
		if !dirs && !info.Mode().IsRegular() {
			continue
		}
		names = append(names, info.Name())
	}
	return names, nil
}

// NumberedEntries keeps the names containing a digit and orders them by their
// first digit run. Names sharing a number keep their relative order.
func NumberedEntries(names []string) []Entry {
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		if entry := NewEntry(name); entry.Numbered() {
			entries = append(entries, entry)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value < entries[j].Value
	})
	return entries
}

// Snapshot lists dir and returns its numbered files in episode order.
func Snapshot(fs afero.Fs, dir string) ([]Entry, error) {
	names, err := ListFiles(fs, dir)
	if err != nil {
		return nil, err
	}
	return NumberedEntries(names), nil
}
