package catalog

import (
	"context"
	"net/url"
	"strings"

	"github.com/shapedtime/marquee/internal/tmdb"
)

// SearchResult is the search page view.
type SearchResult struct {
	Query   string `json:"query"`
	Items   []Card `json:"items"`
	Message string `json:"message,omitempty"`
}

// Search runs a multi search and keeps movies and shows that have posters.
// A blank query is not sent upstream.
func (s *Service) Search(ctx context.Context, query string) *SearchResult {
	query = strings.TrimSpace(query)
	res := &SearchResult{Query: query, Items: []Card{}}

	if query == "" {
		res.Message = MsgEnterSearch
		return res
	}

	page, err := s.api.SearchMulti(ctx, query)
	if err != nil {
		s.failed("search", err, "query", query)
		res.Message = MsgLoadFailed
		return res
	}

	playable := make([]tmdb.MediaItem, 0, len(page.Results))
	for _, item := range page.Results {
		if item.MediaType == tmdb.MediaMovie || item.MediaType == tmdb.MediaTV {
			playable = append(playable, item)
		}
	}

	res.Items = BuildCards(playable, "", s.images)
	if len(res.Items) == 0 {
		res.Message = MsgNoResults
	}
	return res
}

// SearchURL is where a search form submit navigates. It returns "" for a
// blank query, which means the submit does nothing.
func SearchURL(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	return "search.html?q=" + url.QueryEscape(query)
}
