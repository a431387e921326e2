package naming

import (
	"fmt"
	"strconv"
	"strings"
)

// Padding returns the zero prefixes for a season and an episode number.
// items is the number of episodes in the season and decides whether episode
// numbers are two or three digits wide.
func Padding(items, season, episode int) (seasonPad, episodePad string) {
	if season < 10 {
		seasonPad = "0"
	}

	switch {
	case items >= 100 && episode < 10:
		episodePad = "00"
	case items >= 100 && episode < 100:
		episodePad = "0"
	case items < 100 && episode < 10:
		episodePad = "0"
	}

	return seasonPad, episodePad
}

// PaddingStrings is Padding over decimal strings. "08" parses as eight.
func PaddingStrings(items, season, episode string) (string, string, error) {
	values := make([]int, 3)
	for i, s := range []string{items, season, episode} {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 0)
		if err != nil {
			return "", "", fmt.Errorf("invalid number %q: %w", s, err)
		}
		values[i] = int(n)
	}
	seasonPad, episodePad := Padding(values[0], values[1], values[2])
	return seasonPad, episodePad, nil
}

// PartPadding returns the zero prefix for a multi-part index.
func PartPadding(part int) string {
	if part < 10 {
		return "0"
	}
	return ""
}

// Code formats the canonical S{season}E{episode} tag for an episode.
func Code(items, season, episode int) string {
	seasonPad, episodePad := Padding(items, season, episode)
	return "S" + seasonPad + strconv.Itoa(season) + "E" + episodePad + strconv.Itoa(episode)
}

// PartCode formats the tag for one part of a multi-part episode.
func PartCode(items, season, episode, part int) string {
	return Code(items, season, episode) + " Part " + PartPadding(part) + strconv.Itoa(part)
}
