package config

import (
	"strings"
)

// Verb is one action requested on the command line.
type Verb string

const (
	VerbAddTMDB     Verb = "add_tmdb"
	VerbPrintConfig Verb = "print_config"
	VerbOrganize    Verb = "organize"
	VerbRename      Verb = "rename"
	VerbAuto        Verb = "auto"
	VerbReview      Verb = "review"
)

// verbOrder is the execution order of combined verbs.
var verbOrder = []Verb{VerbAddTMDB, VerbPrintConfig, VerbOrganize, VerbRename, VerbAuto, VerbReview}

// Arguments is the parsed legacy command line.
type Arguments struct {
	Options  Options
	Paths    []string
	Key      string
	Token    string
	LogLevel string
	Unknown  []string

	verbs map[Verb]bool
}

// Has reports whether a verb was given.
func (a *Arguments) Has(v Verb) bool {
	return a.verbs[v]
}

// Verbs returns the requested verbs in execution order.
func (a *Arguments) Verbs() []Verb {
	var out []Verb
	for _, v := range verbOrder {
		if a.verbs[v] {
			out = append(out, v)
		}
	}
	return out
}

// NeedsPaths reports whether any requested verb works on directories.
func (a *Arguments) NeedsPaths() bool {
	return a.Has(VerbOrganize) || a.Has(VerbRename) || a.Has(VerbAuto) || a.Has(VerbReview)
}

// ParseArgs reads the legacy argument syntax:
//
//	tvtools rename auto -options:print,noexec -paths:/tv/A,,/tv/B -marker:###
//
// Verbs are exact tokens. Paths are separated by a double comma so single
// commas may appear in directory names.
func ParseArgs(args []string) *Arguments {
	parsed := &Arguments{
		Options: DefaultOptions(),
		verbs:   map[Verb]bool{},
	}

	var flags []string
	for _, arg := range args {
		switch {
		case isVerb(arg):
			parsed.verbs[Verb(arg)] = true
		case strings.HasPrefix(arg, "-options:"):
			flags = append(flags, strings.Split(strings.TrimPrefix(arg, "-options:"), ",")...)
		case strings.HasPrefix(arg, "-paths:"):
			parsed.Paths = append(parsed.Paths, splitPaths(strings.TrimPrefix(arg, "-paths:"))...)
		case strings.HasPrefix(arg, "-marker:"):
			parsed.Options.Marker = strings.TrimPrefix(arg, "-marker:")
		case strings.HasPrefix(arg, "-fseparator:"):
			parsed.Options.FieldSeparator = strings.TrimPrefix(arg, "-fseparator:")
		case strings.HasPrefix(arg, "-eseparator:"):
			parsed.Options.ExtraSeparator = strings.TrimPrefix(arg, "-eseparator:")
		case strings.HasPrefix(arg, "-key:"):
			parsed.Key = strings.TrimPrefix(arg, "-key:")
		case strings.HasPrefix(arg, "-token:"):
			parsed.Token = strings.TrimPrefix(arg, "-token:")
		case strings.HasPrefix(arg, "-loglevel:"):
			parsed.LogLevel = strings.TrimPrefix(arg, "-loglevel:")
		default:
			parsed.Unknown = append(parsed.Unknown, arg)
		}
	}

	var unknown []string
	parsed.Options, unknown = parsed.Options.WithFlags(flags)
	for _, flag := range unknown {
		parsed.Unknown = append(parsed.Unknown, "-options:"+flag)
	}

	if parsed.Options.Marker == "" {
		parsed.Options.Marker = DefaultMarker
	}

	return parsed
}

func isVerb(arg string) bool {
	for _, v := range verbOrder {
		if arg == string(v) {
			return true
		}
	}
	return false
}

func splitPaths(value string) []string {
	var paths []string
	for _, path := range strings.Split(value, ",,") {
		if path == "" {
			continue
		}
		if !strings.HasSuffix(path, "/") {
			path += "/"
		}
		paths = append(paths, path)
	}
	return paths
}
