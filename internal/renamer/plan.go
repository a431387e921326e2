package renamer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Nomadcxx/tvtools/internal/config"
	"github.com/Nomadcxx/tvtools/internal/metadata"
	"github.com/Nomadcxx/tvtools/internal/naming"
	"github.com/Nomadcxx/tvtools/internal/scanner"
)

// placeTag substitutes name[start:end] with tag. The tag is preceded by the
// field separator unless it starts the stem and followed by the extra
// separator unless it ends the stem.
func placeTag(name string, start, end int, tag string, opts config.Options) string {
	stemLen := len(naming.Stem(name))

	var b strings.Builder
	b.WriteString(name[:start])
	if start > 0 {
		b.WriteString(opts.FieldSeparator)
	}
	b.WriteString(tag)
	if end < stemLen {
		b.WriteString(opts.ExtraSeparator)
	}
	b.WriteString(name[end:])
	return b.String()
}

// replaceFirst substitutes the first literal occurrence of token in name.
func replaceFirst(name, token, replacement string) (string, bool) {
	i := strings.Index(name, token)
	if i < 0 {
		return name, false
	}
	return name[:i] + replacement + name[i+len(token):], true
}

func appendOp(ops []Operation, dir, oldName, newName string) []Operation {
	if oldName == newName {
		return ops
	}
	return append(ops, Operation{Dir: dir, OldName: oldName, NewName: newName})
}

// PlanMarker replaces the marker in each file of one season directory with
// the episode tag. Files sharing a leading number are parts of one episode.
func PlanMarker(dir string, season int, entries []scanner.Entry, opts config.Options) []Operation {
	items := len(entries)

	shared := make(map[string]int, len(entries))
	for _, e := range entries {
		shared[e.Token]++
	}

	var ops []Operation
	episode, part := 0, 0
	last := ""
	for i, e := range entries {
		if i == 0 || e.Token != last {
			episode++
			part = 0
		}
		last = e.Token

		tag := naming.Code(items, season, episode)
		if shared[e.Token] > 1 {
			part++
			tag = naming.PartCode(items, season, episode, part)
		}

		start := strings.Index(e.Name, opts.Marker)
		if start < 0 {
			continue
		}
		newName := placeTag(e.Name, start, start+len(opts.Marker), tag, opts)
		ops = appendOp(ops, dir, e.Name, newName)
	}
	return ops
}

// PlanAbsolute renumbers the files of one season directory in order, each
// file consuming EpisodesPerFile consecutive episodes.
func PlanAbsolute(dir string, season int, entries []scanner.Entry, opts config.Options) []Operation {
	items := len(entries)
	perFile := opts.EpisodesPerFile()

	var ops []Operation
	episode := 0
	for _, e := range entries {
		segments := make([]string, 0, perFile)
		for i := 0; i < perFile; i++ {
			episode++
			if opts.KeepEp {
				segments = append(segments, keptCode(season, e, i))
				continue
			}
			segments = append(segments, naming.Code(items, season, episode))
		}

		start := strings.Index(e.Name, e.Token)
		tag := strings.Join(segments, opts.ExtraSeparator)
		newName := placeTag(e.Name, start, start+len(e.Token), tag, opts)
		ops = appendOp(ops, dir, e.Name, newName)
	}
	return ops
}

// keptCode tags an episode with the file's own number; the n-th extra
// episode of a multi-episode file is number+n at the same width.
func keptCode(season int, e scanner.Entry, n int) string {
	seasonPad, _ := naming.Padding(0, season, 0)
	number := e.Token
	if n > 0 {
		number = fmt.Sprintf("%0*d", len(e.Token), e.Value+n)
	}
	return "S" + seasonPad + strconv.Itoa(season) + "E" + number
}

// PlanConversion rewrites every file matching style into the canonical
// S{season}E{episode} form. Padding depends on how many files each season has.
func PlanConversion(dir string, style naming.Style, names []string) []Operation {
	type matched struct {
		name  string
		match naming.Match
	}

	var files []matched
	perSeason := make(map[int]int)
	for _, name := range names {
		m, ok := naming.Find(style, name)
		if !ok {
			continue
		}
		files = append(files, matched{name, m})
		perSeason[m.Season]++
	}

	var ops []Operation
	for _, f := range files {
		code := naming.Code(perSeason[f.match.Season], f.match.Season, f.match.Episode)
		newName, _ := replaceFirst(f.name, f.match.Text, code)
		ops = appendOp(ops, dir, f.name, newName)
	}
	return ops
}

// MetadataPlan is the outcome of mapping absolute numbers onto seasons.
type MetadataPlan struct {
	Operations []Operation
	// Overflow counts files numbered past the last known season.
	Overflow int
}

// PlanMetadata walks files in ascending absolute order and assigns them to
// seasons using the episode counts of show. Season 0 takes the files numbered
// below 1; files past the last season stay in it.
func PlanMetadata(dir string, names []string, show *metadata.ShowSeasons) MetadataPlan {
	entries := scanner.NumberedEntries(names)

	specials := 0
	for _, e := range entries {
		if e.Value < 1 {
			specials++
		}
	}

	quota := func(season int) int {
		if season == 0 {
			return specials
		}
		n, _ := show.Count(season)
		return n
	}
	last := show.LastSeason()

	var plan MetadataPlan
	season, used := 0, 0
	for _, e := range entries {
		for used >= quota(season) && season < last {
			season++
			used = 0
		}
		used++

		items := quota(season)
		if used > items {
			plan.Overflow++
			items = used
		}

		newName, _ := replaceFirst(e.Name, e.Token, naming.Code(items, season, used))
		plan.Operations = appendOp(plan.Operations, dir, e.Name, newName)
	}
	return plan
}
