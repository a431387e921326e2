package config

import (
	"sort"
	"strings"
)

const (
	DefaultMarker    = "***"
	DefaultSeparator = " - "
)

// Options are the run options of one invocation. Built once, passed by value.
type Options struct {
	Print          bool   `json:"print"`
	NoExec         bool   `json:"noexec"`
	DoubleEp       bool   `json:"doubleep"`
	KeepEp         bool   `json:"keepep"`
	Preserve       bool   `json:"preserve"`
	Marker         string `json:"marker"`
	FieldSeparator string `json:"fseparator"`
	ExtraSeparator string `json:"eseparator"`
}

// DefaultOptions returns the options used when nothing is given
func DefaultOptions() Options {
	return Options{
		Marker:         DefaultMarker,
		FieldSeparator: DefaultSeparator,
		ExtraSeparator: DefaultSeparator,
	}
}

// EpisodesPerFile is 2 with doubleep, 1 otherwise
func (o Options) EpisodesPerFile() int {
	if o.DoubleEp {
		return 2
	}
	return 1
}

// WithFlags returns a copy with the named flags switched on, plus the names it
// did not recognize.
func (o Options) WithFlags(flags []string) (Options, []string) {
	var unknown []string
	for _, flag := range flags {
		switch strings.ToLower(strings.TrimSpace(flag)) {
		case "":
		case "print":
			o.Print = true
		case "noexec", "noact":
			o.NoExec = true
		case "doubleep":
			o.DoubleEp = true
		case "keepep":
			o.KeepEp = true
		case "preserve":
			o.Preserve = true
		default:
			unknown = append(unknown, flag)
		}
	}
	return o, unknown
}

// Simulated returns a copy with noexec set
func (o Options) Simulated() Options {
	o.NoExec = true
	return o
}

// Flags lists the enabled flags in a stable order
func (o Options) Flags() []string {
	var flags []string
	for name, on := range map[string]bool{
		"print":    o.Print,
		"noexec":   o.NoExec,
		"doubleep": o.DoubleEp,
		"keepep":   o.KeepEp,
		"preserve": o.Preserve,
	} {
		if on {
			flags = append(flags, name)
		}
	}
	sort.Strings(flags)
	return flags
}
