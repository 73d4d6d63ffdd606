package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Fetcher returns the body of a successful call to endpoint. *Client
// implements it directly; the terminal client implements it over the
// forwarding handler.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error)
}

// API decodes catalog endpoints on top of a Fetcher.
type API struct {
	f Fetcher
}

func NewAPI(f Fetcher) *API {
	return &API{f: f}
}

// Trending fetches trending/all/week.
func (a *API) Trending(ctx context.Context) (*Page, error) {
	return a.page(ctx, "trending/all/week", nil)
}

// List fetches a list endpoint such as movie/popular or tv/top_rated.
func (a *API) List(ctx context.Context, mediaType, filter string, page int) (*Page, error) {
	var params url.Values
	if page > 0 {
		params = url.Values{"page": {strconv.Itoa(page)}}
	}
	return a.page(ctx, mediaType+"/"+filter, params)
}

// SearchMulti searches movies, shows and people at once.
func (a *API) SearchMulti(ctx context.Context, query string) (*Page, error) {
	return a.page(ctx, "search/multi", url.Values{"query": {query}})
}

// GetMovie fetches movie details by TMDB ID
func (a *API) GetMovie(ctx context.Context, id int) (*Movie, error) {
	movie := &Movie{}
	if err := a.get(ctx, fmt.Sprintf("movie/%d", id), nil, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// GetShow fetches TV show details including seasons
func (a *API) GetShow(ctx context.Context, id int) (*Show, error) {
	show := &Show{}
	if err := a.get(ctx, fmt.Sprintf("tv/%d", id), nil, show); err != nil {
		return nil, err
	}
	return show, nil
}

// GetSeason fetches season details including episodes
func (a *API) GetSeason(ctx context.Context, showID, seasonNumber int) (*Season, error) {
	season := &Season{}
	if err := a.get(ctx, fmt.Sprintf("tv/%d/season/%d", showID, seasonNumber), nil, season); err != nil {
		return nil, err
	}
	return season, nil
}

func (a *API) page(ctx context.Context, endpoint string, params url.Values) (*Page, error) {
	p := &Page{}
	if err := a.get(ctx, endpoint, params, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (a *API) get(ctx context.Context, endpoint string, params url.Values, v any) error {
	body, err := a.f.Fetch(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
