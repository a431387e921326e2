package metadata

import (
	"context"
	"errors"
	"sort"
)

var (
	ErrNoShowMatch       = errors.New("no show matches the query")
	ErrNoSeasonData      = errors.New("no season data for show")
	ErrMissingCredential = errors.New("no TMDB key or token configured")
)

// ShowSeasons maps season numbers to their episode counts.
type ShowSeasons struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Year     string      `json:"year"`
	Episodes map[int]int `json:"episodes"`
}

// Count returns the number of episodes in a season.
func (s *ShowSeasons) Count(season int) (int, bool) {
	n, ok := s.Episodes[season]
	return n, ok
}

// Seasons returns the known season numbers in ascending order.
func (s *ShowSeasons) Seasons() []int {
	seasons := make([]int, 0, len(s.Episodes))
	for n := range s.Episodes {
		seasons = append(seasons, n)
	}
	sort.Ints(seasons)
	return seasons
}

// LastSeason returns the highest known season number, or 0 when none is known.
func (s *ShowSeasons) LastSeason() int {
	seasons := s.Seasons()
	if len(seasons) == 0 {
		return 0
	}
	return seasons[len(seasons)-1]
}

// Lookup resolves a show to its per-season episode counts.
type Lookup interface {
	Lookup(ctx context.Context, name, year string) (*ShowSeasons, error)
}

// Static serves fixed season data, keyed by "name (year)".
type Static map[string]*ShowSeasons

func (s Static) Lookup(_ context.Context, name, year string) (*ShowSeasons, error) {
	show, ok := s[cacheKey(name, year)]
	if !ok {
		return nil, ErrNoShowMatch
	}
	if len(show.Episodes) == 0 {
		return nil, ErrNoSeasonData
	}
	return show, nil
}

func cacheKey(name, year string) string {
	return name + " (" + year + ")"
}
