package naming

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Style identifies one episode naming convention.
type Style int

const (
	StyleNone Style = iota
	Standard
	StandardNoZero
	StandardMinuscule
	XSeparated
	Flat
	Absolute
)

var styleNames = map[Style]string{
	StyleNone:         "none",
	Standard:          "standard",
	StandardNoZero:    "standard_nozero",
	StandardMinuscule: "standard_minuscule",
	XSeparated:        "x_separated",
	Flat:              "flat",
	Absolute:          "absolute",
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText lets styles appear by name in JSON reports.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Style) UnmarshalText(text []byte) error {
	for style, name := range styleNames {
		if name == string(text) {
			*s = style
			return nil
		}
	}
	*s = StyleNone
	return nil
}

// HasSeason reports whether the style carries an explicit season number.
func (s Style) HasSeason() bool {
	return s >= Standard && s <= Flat
}

// Match is one occurrence of a style pattern inside a file name.
type Match struct {
	Style   Style
	Start   int
	End     int
	Text    string
	Season  int
	Episode int
}

type pattern struct {
	style Style
	re    *regexp.Regexp
	// extract converts the submatches (group 1 onward) into season and episode
	extract func(groups []string) (season, episode int, ok bool)
}

var (
	// Declaration order is detection order.
	catalog = []pattern{
		{Standard, regexp.MustCompile(`S(\d{2,3})E(\d{2,3})`), seasonEpisode},
		{StandardNoZero, regexp.MustCompile(`S(\d{1,3})E(\d{1,3})`), seasonEpisode},
		{StandardMinuscule, regexp.MustCompile(`s(\d{1,3})e(\d{1,3})`), seasonEpisode},
		{XSeparated, regexp.MustCompile(`(?:^|\D)((\d{1,3})x(\d{1,3}))(?:\D|$)`), func(g []string) (int, int, bool) {
			return seasonEpisode(g[1:])
		}},
		{Flat, regexp.MustCompile(`(?:^|\D)([1-9]\d{1,3})(?:\D|$)`), flatNumber},
		{Absolute, regexp.MustCompile(`\d+`), nil},
	}

	seasonFolderPattern = regexp.MustCompile(`(?i)^(?:season|s)[\s._-]*(\d+)\b`)
	showYearPattern     = regexp.MustCompile(`^(.+?)\s*\((\d{4})\)$`)
	digitRun            = regexp.MustCompile(`\d+`)
)

func seasonEpisode(groups []string) (int, int, bool) {
	season, err := strconv.Atoi(groups[0])
	if err != nil {
		return 0, 0, false
	}
	episode, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, 0, false
	}
	return season, episode, true
}

func flatNumber(groups []string) (int, int, bool) {
	token := groups[0]
	episode, err := strconv.Atoi(token[len(token)-2:])
	if err != nil {
		return 0, 0, false
	}
	season := 1
	if head := token[:len(token)-2]; head != "" {
		if season, err = strconv.Atoi(head); err != nil {
			return 0, 0, false
		}
	}
	return season, episode, true
}

// Styles returns the styles in declaration order.
func Styles() []Style {
	styles := make([]Style, len(catalog))
	for i, p := range catalog {
		styles[i] = p.style
	}
	return styles
}

func lookup(style Style) (pattern, bool) {
	for _, p := range catalog {
		if p.style == style {
			return p, true
		}
	}
	return pattern{}, false
}

// Find returns the first occurrence of the style's pattern in name.
// For Absolute the match carries the raw digit run and Episode holds its value.
func Find(style Style, name string) (Match, bool) {
	p, ok := lookup(style)
	if !ok {
		return Match{}, false
	}

	loc := p.re.FindStringSubmatchIndex(name)
	if loc == nil {
		return Match{}, false
	}

	if p.extract == nil {
		text := name[loc[0]:loc[1]]
		value, err := strconv.Atoi(text)
		if err != nil {
			return Match{}, false
		}
		return Match{Style: style, Start: loc[0], End: loc[1], Text: text, Episode: value}, true
	}

	groups := make([]string, 0, len(loc)/2-1)
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] < 0 {
			groups = append(groups, "")
			continue
		}
		groups = append(groups, name[loc[i]:loc[i+1]])
	}

	season, episode, ok := p.extract(groups)
	if !ok {
		return Match{}, false
	}

	// bounded patterns report the inner group, not the delimiters around it
	start, end := loc[0], loc[1]
	if style == XSeparated || style == Flat {
		start, end = loc[2], loc[3]
	}

	return Match{
		Style:   style,
		Start:   start,
		End:     end,
		Text:    name[start:end],
		Season:  season,
		Episode: episode,
	}, true
}

// Matches reports whether the style's pattern occurs anywhere in name.
func Matches(style Style, name string) bool {
	_, ok := Find(style, name)
	return ok
}

// FirstNumber returns the first digit run in name.
func FirstNumber(name string) (string, int, bool) {
	token := digitRun.FindString(name)
	if token == "" {
		return "", 0, false
	}
	value, err := strconv.Atoi(token)
	if err != nil {
		return "", 0, false
	}
	return token, value, true
}

// Stem strips the final extension from a file name.
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// IsSeasonFolder reports whether a directory name looks like "Season 01", "S2" or "season_3".
func IsSeasonFolder(name string) bool {
	return seasonFolderPattern.MatchString(name)
}

// SeasonFolderNumber extracts the season number from a season folder name.
func SeasonFolderNumber(name string) (int, bool) {
	m := seasonFolderPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseShowYear splits "Show Name (2004)" into its name and year.
func ParseShowYear(component string) (name, year string, ok bool) {
	m := showYearPattern.FindStringSubmatch(norm.NFC.String(strings.TrimSpace(component)))
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), m[2], true
}

// ShowFromPath walks dir and its parents, nearest first, and returns the
// first component shaped like "Show Name (2004)".
func ShowFromPath(dir string) (name, year string, ok bool) {
	current := filepath.Clean(dir)
	for {
		if name, year, ok := ParseShowYear(filepath.Base(current)); ok {
			return name, year, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", "", false
		}
		current = parent
	}
}
