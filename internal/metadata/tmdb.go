package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org"
	// maxSeasons bounds the season walk for shows that never return 404
	maxSeasons = 200
)

// TMDBClient handles TMDB v3 API requests
type TMDBClient struct {
	APIKey     string
	Token      string
	Language   string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *log.Logger

	mu    sync.Mutex
	cache map[string]*ShowSeasons
}

type tmdbSearchResult struct {
	Results []struct {
		ID           int    `json:"id"`
		Name         string `json:"name"`
		FirstAirDate string `json:"first_air_date"`
	} `json:"results"`
}

type tmdbSeason struct {
	SeasonNumber int `json:"season_number"`
	Episodes     []struct {
		EpisodeNumber int `json:"episode_number"`
	} `json:"episodes"`
}

// NewTMDBClient creates a TMDB client. A bearer token wins over an API key.
func NewTMDBClient(apiKey, token string) (*TMDBClient, error) {
	if apiKey == "" && token == "" {
		return nil, ErrMissingCredential
	}
	return &TMDBClient{
		APIKey:   apiKey,
		Token:    token,
		Language: "en-US",
		BaseURL:  DefaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Logger: log.Default(),
		cache:  make(map[string]*ShowSeasons),
	}, nil
}

// Lookup finds the show by name and first-air year and counts the episodes of
// each season from 1 until TMDB stops answering.
func (c *TMDBClient) Lookup(ctx context.Context, name, year string) (*ShowSeasons, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	key := cacheKey(strings.ToLower(name), year)

	c.mu.Lock()
	if show, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return show, nil
	}
	c.mu.Unlock()

	c.Logger.Debug("Querying TMDB", "show", cases.Title(language.Und).String(name), "year", year)

	id, title, err := c.searchShow(ctx, name, year)
	if err != nil {
		return nil, err
	}

	show := &ShowSeasons{ID: id, Name: title, Year: year, Episodes: make(map[int]int)}
	for n := 1; n <= maxSeasons; n++ {
		season, found, err := c.season(ctx, id, n)
		if err != nil {
			return nil, err
		}
		if !found {
			break
		}
		show.Episodes[n] = len(season.Episodes)
	}

	if len(show.Episodes) == 0 {
		return nil, fmt.Errorf("%s (%s): %w", name, year, ErrNoSeasonData)
	}

	c.Logger.Debug("TMDB seasons", "show", title, "seasons", len(show.Episodes))

	c.mu.Lock()
	c.cache[key] = show
	c.mu.Unlock()

	return show, nil
}

func (c *TMDBClient) searchShow(ctx context.Context, name, year string) (int, string, error) {
	params := url.Values{}
	params.Set("query", name)
	if year != "" {
		params.Set("first_air_date_year", year)
	}

	var result tmdbSearchResult
	status, err := c.get(ctx, "/3/search/tv", params, &result)
	if err != nil {
		return 0, "", err
	}
	if status != http.StatusOK {
		return 0, "", fmt.Errorf("search returned status %d", status)
	}
	if len(result.Results) == 0 {
		return 0, "", fmt.Errorf("%s (%s): %w", name, year, ErrNoShowMatch)
	}

	first := result.Results[0]
	return first.ID, first.Name, nil
}

// season fetches one season; found is false on any non-200 answer.
func (c *TMDBClient) season(ctx context.Context, id, number int) (*tmdbSeason, bool, error) {
	var season tmdbSeason
	status, err := c.get(ctx, fmt.Sprintf("/3/tv/%d/season/%d", id, number), url.Values{}, &season)
	if err != nil {
		return nil, false, err
	}
	if status != http.StatusOK {
		return nil, false, nil
	}
	return &season, true, nil
}

// get performs a GET and decodes a 200 body into out. Other statuses are
// returned without an error so callers can treat them as "not found".
func (c *TMDBClient) get(ctx context.Context, path string, params url.Values, out interface{}) (int, error) {
	if c.Token == "" {
		params.Set("api_key", c.APIKey)
	}
	if c.Language != "" {
		params.Set("language", c.Language)
	}

	apiURL := strings.TrimRight(c.BaseURL, "/") + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
	}
	return resp.StatusCode, nil
}
