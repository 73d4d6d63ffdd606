// Package catalog turns metadata API results into the view models the
// pages render: poster cards, home rails, browse pages, search results and
// the details/player view.
//
// Every upstream failure is logged and rendered as "no data"; nothing here
// retries.
package catalog

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/shapedtime/marquee/internal/metrics"
	"github.com/shapedtime/marquee/internal/tmdb"
)

const railSize = 10

// Empty-state messages shown in place of a gallery.
const (
	MsgNoItems     = "No items found"
	MsgNoMovies    = "No movies found"
	MsgNoShows     = "No TV shows found"
	MsgNoResults   = "No results found"
	MsgLoadFailed  = "Failed to load results"
	MsgEnterSearch = "Please enter a search term"
	MsgNoDetails   = "Details unavailable"
	MsgNoSelection = "No media selected"
	MsgNoEpisodes  = "No episodes found"
)

// Options configures a Service. Zero values fall back to the public TMDB
// image CDN and the default player.
type Options struct {
	ImageBaseURL  string
	PlayerBaseURL string
	Metrics       *metrics.Metrics
}

// Service builds catalog view models.
type Service struct {
	api     *tmdb.API
	images  string
	player  Player
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewService creates a catalog service over f.
func NewService(f tmdb.Fetcher, opts Options) *Service {
	images := opts.ImageBaseURL
	if images == "" {
		images = DefaultImageBaseURL
	}
	return &Service{
		api:     tmdb.NewAPI(f),
		images:  strings.TrimRight(images, "/"),
		player:  NewPlayer(opts.PlayerBaseURL),
		metrics: opts.Metrics,
		log:     slog.With("component", "catalog"),
	}
}

// Player returns the embed URL builder.
func (s *Service) Player() Player {
	return s.player
}

func (s *Service) failed(view string, err error, attrs ...any) {
	s.metrics.CatalogFailed(view)
	s.log.Warn("Catalog fetch failed", append([]any{"view", view, "error", err}, attrs...)...)
}

// Rail is one horizontal gallery on the home page.
type Rail struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Items   []Card `json:"items"`
	Message string `json:"message,omitempty"`
}

// Home is the home page view.
type Home struct {
	Rails []Rail `json:"rails"`
}

type railSpec struct {
	key, title string
	mediaType  string // empty for mixed trending results
	load       func(ctx context.Context, api *tmdb.API) (*tmdb.Page, error)
}

var homeRails = []railSpec{
	{"trending", "Trending This Week", "", func(ctx context.Context, api *tmdb.API) (*tmdb.Page, error) {
		return api.Trending(ctx)
	}},
	{"movies", "Popular Movies", tmdb.MediaMovie, func(ctx context.Context, api *tmdb.API) (*tmdb.Page, error) {
		return api.List(ctx, tmdb.MediaMovie, "popular", 0)
	}},
	{"tv", "Popular TV Shows", tmdb.MediaTV, func(ctx context.Context, api *tmdb.API) (*tmdb.Page, error) {
		return api.List(ctx, tmdb.MediaTV, "popular", 0)
	}},
	{"top_rated", "Top Rated Movies", tmdb.MediaMovie, func(ctx context.Context, api *tmdb.API) (*tmdb.Page, error) {
		return api.List(ctx, tmdb.MediaMovie, "top_rated", 0)
	}},
}

// Home loads the four home rails concurrently. A failed rail renders empty
// and does not affect the others.
func (s *Service) Home(ctx context.Context) *Home {
	home := &Home{Rails: make([]Rail, len(homeRails))}

	var g errgroup.Group
	for i, spec := range homeRails {
		g.Go(func() error {
			rail := Rail{Key: spec.key, Title: spec.title, Items: []Card{}}
			page, err := spec.load(ctx, s.api)
			if err != nil {
				s.failed("home", err, "rail", spec.key)
			} else {
				results := page.Results
				if len(results) > railSize {
					results = results[:railSize]
				}
				rail.Items = BuildCards(results, spec.mediaType, s.images)
			}
			if len(rail.Items) == 0 {
				rail.Message = MsgNoItems
			}
			home.Rails[i] = rail
			return nil
		})
	}
	_ = g.Wait()

	return home
}
