package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/shapedtime/marquee/internal/tmdb"
)

// Browse filters per media type. The first entry is the default.
var (
	MovieFilters = []string{"popular", "top_rated", "now_playing", "upcoming"}
	TVFilters    = []string{"popular", "top_rated", "on_the_air", "airing_today"}
)

// Filters returns the browse filters for mediaType.
func Filters(mediaType string) ([]string, error) {
	switch mediaType {
	case tmdb.MediaMovie:
		return MovieFilters, nil
	case tmdb.MediaTV:
		return TVFilters, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMediaType, mediaType)
	}
}

// BrowsePage is one page of a browse gallery.
type BrowsePage struct {
	MediaType  string `json:"media_type"`
	Filter     string `json:"filter"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	HasMore    bool   `json:"has_more"`
	Items      []Card `json:"items"`
	Message    string `json:"message,omitempty"`
}

// Browse fetches one page of <mediaType>/<filter>. An empty filter means the
// default. A failed fetch yields an empty page with HasMore unset.
func (s *Service) Browse(ctx context.Context, mediaType, filter string, page int) (*BrowsePage, error) {
	filters, err := Filters(mediaType)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		filter = filters[0]
	}
	if !slices.Contains(filters, filter) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, filter)
	}
	if page < 1 {
		page = 1
	}

	bp := &BrowsePage{
		MediaType: mediaType,
		Filter:    filter,
		Page:      page,
		Items:     []Card{},
	}

	result, err := s.api.List(ctx, mediaType, filter, page)
	if err != nil {
		s.failed("browse", err, "media_type", mediaType, "filter", filter, "page", page)
	} else {
		bp.Items = BuildCards(result.Results, mediaType, s.images)
		bp.TotalPages = result.TotalPages
		bp.HasMore = page < result.TotalPages
	}

	if len(bp.Items) == 0 && page == 1 {
		bp.Message = emptyBrowseMessage(mediaType)
	}
	return bp, nil
}

func emptyBrowseMessage(mediaType string) string {
	if mediaType == tmdb.MediaTV {
		return MsgNoShows
	}
	return MsgNoMovies
}

// BrowseSession is the state of one open browse page: current filter,
// current page and a loading guard. A load attempted while another is in
// flight fails with ErrBusy and leaves the state untouched.
type BrowseSession struct {
	svc       *Service
	mediaType string

	loading atomic.Bool

	mu      sync.Mutex
	filter  string
	page    int
	hasMore bool
}

// NewBrowseSession opens a session on the default filter. Nothing is loaded
// until Load is called.
func (s *Service) NewBrowseSession(mediaType string) (*BrowseSession, error) {
	filters, err := Filters(mediaType)
	if err != nil {
		return nil, err
	}
	return &BrowseSession{svc: s, mediaType: mediaType, filter: filters[0]}, nil
}

// Load fetches page one of the current filter.
func (b *BrowseSession) Load(ctx context.Context) (*BrowsePage, error) {
	return b.run(ctx, func() (string, int, error) {
		return b.filter, 1, nil
	})
}

// SetFilter switches filter and reloads from page one.
func (b *BrowseSession) SetFilter(ctx context.Context, filter string) (*BrowsePage, error) {
	return b.run(ctx, func() (string, int, error) {
		return filter, 1, nil
	})
}

// LoadMore fetches the next page of the current filter.
func (b *BrowseSession) LoadMore(ctx context.Context) (*BrowsePage, error) {
	return b.run(ctx, func() (string, int, error) {
		if b.page == 0 {
			return b.filter, 1, nil
		}
		if !b.hasMore {
			return "", 0, ErrNoMorePages
		}
		return b.filter, b.page + 1, nil
	})
}

// State returns the current filter, the last page loaded (zero before the
// first load) and whether another page is available.
func (b *BrowseSession) State() (filter string, page int, hasMore bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter, b.page, b.hasMore
}

// Loading reports whether a load is in flight.
func (b *BrowseSession) Loading() bool {
	return b.loading.Load()
}

// run executes one load under the guard. next picks the filter and page
// from the current state and is called with mu held.
func (b *BrowseSession) run(ctx context.Context, next func() (string, int, error)) (*BrowsePage, error) {
	if !b.loading.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer b.loading.Store(false)

	b.mu.Lock()
	filter, page, err := next()
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}

	bp, err := b.svc.Browse(ctx, b.mediaType, filter, page)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.filter = bp.Filter
	b.page = bp.Page
	b.hasMore = bp.HasMore
	b.mu.Unlock()
	return bp, nil
}
