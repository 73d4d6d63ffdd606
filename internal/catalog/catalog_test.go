package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shapedtime/marquee/internal/selection"
	"github.com/shapedtime/marquee/internal/tmdb"
)

// fakeFetcher serves canned bodies by endpoint and records every call.
type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	calls  []string
	block  chan struct{} // when set, Fetch waits on it
}

func (f *fakeFetcher) Fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	f.mu.Lock()
	call := endpoint
	if len(params) > 0 {
		call += "?" + params.Encode()
	}
	f.calls = append(f.calls, call)
	body, ok := f.bodies[call]
	if !ok {
		body, ok = f.bodies[endpoint]
	}
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if !ok {
		return nil, &tmdb.UpstreamError{Status: 404, Body: []byte(`{}`)}
	}
	return []byte(body), nil
}

func (f *fakeFetcher) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newTestService(bodies map[string]string) (*Service, *fakeFetcher) {
	f := &fakeFetcher{bodies: bodies}
	return NewService(f, Options{ImageBaseURL: "https://img.example/w500", PlayerBaseURL: "https://player.example/embed"}), f
}

func TestBuildCardsSkipsItemsWithoutPoster(t *testing.T) {
	require := require.New(t)

	items := []tmdb.MediaItem{
		{ID: 1, Title: "Alien", PosterPath: "/alien.jpg", ReleaseDate: "1979-05-25", VoteAverage: 8.16},
		{ID: 2, Title: "No Poster", ReleaseDate: "2001-01-01"},
		{ID: 3, Name: "Dark", PosterPath: "/dark.jpg", FirstAirDate: "2017-12-01", MediaType: "tv"},
	}

	cards := BuildCards(items, "", "https://img.example/w500")
	require.Len(cards, 2)
	require.Equal(Card{ID: 1, Title: "Alien", PosterURL: "https://img.example/w500/alien.jpg", Year: "1979", Rating: "8.2"}, cards[0])
	require.Equal(Card{ID: 3, MediaType: "tv", Title: "Dark", PosterURL: "https://img.example/w500/dark.jpg", Year: "2017"}, cards[1])

	fixed := BuildCards(items, tmdb.MediaMovie, "x")
	for _, c := range fixed {
		require.Equal(tmdb.MediaMovie, c.MediaType)
	}
}

func TestFormatRating(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, ""},
		{7, "7.0"},
		{7.24, "7.2"},
		{7.25, "7.3"},
		{7.26, "7.3"},
		{10, "10.0"},
	}
	for _, tt := range tests {
		if got := FormatRating(tt.in); got != tt.want {
			t.Errorf("FormatRating(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlayerURLs(t *testing.T) {
	p := NewPlayer("")
	if got := p.MovieURL(550); got != "https://vidsrc.me/embed/movie?tmdb=550" {
		t.Errorf("MovieURL = %q", got)
	}
	if got := p.EpisodeURL(1399, 2, 5); got != "https://vidsrc.me/embed/tv?tmdb=1399&season=2&episode=5" {
		t.Errorf("EpisodeURL = %q", got)
	}
	if got := NewPlayer("https://p.example/embed/").MovieURL(1); got != "https://p.example/embed/movie?tmdb=1" {
		t.Errorf("MovieURL with trailing slash = %q", got)
	}
}

func TestSearchURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"dune", "search.html?q=dune"},
		{" the office ", "search.html?q=the+office"},
		{"tom & jerry", "search.html?q=tom+%26+jerry"},
	}
	for _, tt := range tests {
		if got := SearchURL(tt.in); got != tt.want {
			t.Errorf("SearchURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func manyResults(n int, mediaType string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"id":%d,"title":"T%d","poster_path":"/p%d.jpg","media_type":%q}`, i+1, i+1, i+1, mediaType)
	}
	return `{"page":1,"total_pages":5,"results":[` + strings.Join(parts, ",") + `]}`
}

func TestHomeRailFailureIsIsolated(t *testing.T) {
	require := require.New(t)

	svc, _ := newTestService(map[string]string{
		"trending/all/week": manyResults(20, "movie"),
		"movie/popular":     manyResults(3, ""),
		// tv/popular missing: fetch fails
		"movie/top_rated": `{"results":[{"id":9,"title":"No Poster"}]}`,
	})

	home := svc.Home(context.Background())
	require.Len(home.Rails, 4)

	require.Equal("trending", home.Rails[0].Key)
	require.Len(home.Rails[0].Items, railSize)
	require.Empty(home.Rails[0].Message)

	require.Len(home.Rails[1].Items, 3)
	require.Equal(tmdb.MediaMovie, home.Rails[1].Items[0].MediaType)

	require.Equal("tv", home.Rails[2].Key)
	require.Empty(home.Rails[2].Items)
	require.Equal(MsgNoItems, home.Rails[2].Message)

	require.Empty(home.Rails[3].Items)
	require.Equal(MsgNoItems, home.Rails[3].Message)
}

func TestBrowse(t *testing.T) {
	require := require.New(t)

	svc, f := newTestService(map[string]string{
		"movie/top_rated?page=2": `{"page":2,"total_pages":3,"results":[{"id":1,"title":"A","poster_path":"/a.jpg"}]}`,
		"tv/popular?page=1":      `{"page":1,"total_pages":1,"results":[]}`,
	})
	ctx := context.Background()

	bp, err := svc.Browse(ctx, tmdb.MediaMovie, "top_rated", 2)
	require.NoError(err)
	require.True(bp.HasMore)
	require.Equal(3, bp.TotalPages)
	require.Len(bp.Items, 1)
	require.Equal("movie/top_rated?page=2", f.called()[0])

	bp, err = svc.Browse(ctx, tmdb.MediaTV, "", 0)
	require.NoError(err)
	require.Equal("popular", bp.Filter)
	require.Equal(1, bp.Page)
	require.False(bp.HasMore)
	require.Equal(MsgNoShows, bp.Message)

	// failed fetch renders as no data
	bp, err = svc.Browse(ctx, tmdb.MediaMovie, "upcoming", 1)
	require.NoError(err)
	require.Empty(bp.Items)
	require.False(bp.HasMore)
	require.Equal(MsgNoMovies, bp.Message)

	_, err = svc.Browse(ctx, tmdb.MediaMovie, "on_the_air", 1)
	require.ErrorIs(err, ErrUnknownFilter)

	_, err = svc.Browse(ctx, "person", "popular", 1)
	require.ErrorIs(err, ErrUnknownMediaType)
}

func TestBrowseSessionPaging(t *testing.T) {
	require := require.New(t)

	svc, f := newTestService(map[string]string{
		"movie/popular?page=1":   `{"page":1,"total_pages":2,"results":[{"id":1,"title":"A","poster_path":"/a.jpg"}]}`,
		"movie/popular?page=2":   `{"page":2,"total_pages":2,"results":[{"id":2,"title":"B","poster_path":"/b.jpg"}]}`,
		"movie/top_rated?page=1": `{"page":1,"total_pages":4,"results":[]}`,
	})
	ctx := context.Background()

	sess, err := svc.NewBrowseSession(tmdb.MediaMovie)
	require.NoError(err)

	filter, page, _ := sess.State()
	require.Equal("popular", filter)
	require.Equal(0, page)

	bp, err := sess.Load(ctx)
	require.NoError(err)
	require.True(bp.HasMore)

	bp, err = sess.LoadMore(ctx)
	require.NoError(err)
	require.Equal(2, bp.Page)
	require.False(bp.HasMore)

	_, err = sess.LoadMore(ctx)
	require.ErrorIs(err, ErrNoMorePages)

	bp, err = sess.SetFilter(ctx, "top_rated")
	require.NoError(err)
	require.Equal(1, bp.Page)
	filter, page, hasMore := sess.State()
	require.Equal("top_rated", filter)
	require.Equal(1, page)
	require.True(hasMore)

	// a rejected filter leaves the state alone
	_, err = sess.SetFilter(ctx, "bogus")
	require.ErrorIs(err, ErrUnknownFilter)
	filter, _, _ = sess.State()
	require.Equal("top_rated", filter)

	require.Equal([]string{
		"movie/popular?page=1",
		"movie/popular?page=2",
		"movie/top_rated?page=1",
	}, f.called())
}

func TestBrowseSessionLoadingGuard(t *testing.T) {
	require := require.New(t)

	svc, f := newTestService(map[string]string{
		"tv/popular?page=1": `{"page":1,"total_pages":1,"results":[]}`,
	})
	f.block = make(chan struct{})

	sess, err := svc.NewBrowseSession(tmdb.MediaTV)
	require.NoError(err)

	done := make(chan error, 1)
	go func() {
		_, err := sess.Load(context.Background())
		done <- err
	}()

	require.Eventually(sess.Loading, time.Second, time.Millisecond)

	_, err = sess.LoadMore(context.Background())
	require.ErrorIs(err, ErrBusy)

	close(f.block)
	require.NoError(<-done)
	require.False(sess.Loading())
	require.Len(f.called(), 1)
}

func TestSearch(t *testing.T) {
	require := require.New(t)

	svc, f := newTestService(map[string]string{
		"search/multi?query=dune": `{"results":[
			{"id":1,"title":"Dune","poster_path":"/d.jpg","media_type":"movie","release_date":"2021-09-15"},
			{"id":2,"name":"Dune: Prophecy","poster_path":"/p.jpg","media_type":"tv"},
			{"id":3,"name":"Frank Herbert","poster_path":"/f.jpg","media_type":"person"},
			{"id":4,"title":"Dune Drift","media_type":"movie"}
		]}`,
		"search/multi?query=zzz": `{"results":[]}`,
	})
	ctx := context.Background()

	res := svc.Search(ctx, "  dune ")
	require.Equal("dune", res.Query)
	require.Len(res.Items, 2)
	require.Equal(tmdb.MediaMovie, res.Items[0].MediaType)
	require.Equal(tmdb.MediaTV, res.Items[1].MediaType)
	require.Empty(res.Message)

	res = svc.Search(ctx, "zzz")
	require.Empty(res.Items)
	require.Equal(MsgNoResults, res.Message)

	res = svc.Search(ctx, "broken")
	require.Equal(MsgLoadFailed, res.Message)

	calls := len(f.called())
	res = svc.Search(ctx, "   ")
	require.Equal(MsgEnterSearch, res.Message)
	require.Len(f.called(), calls, "blank query must not be fetched")
}

func TestDetailsMovie(t *testing.T) {
	require := require.New(t)

	svc, f := newTestService(map[string]string{
		"movie/550": `{"id":550,"title":"Fight Club","release_date":"1999-10-15","runtime":139,"vote_average":8.433,"genres":[{"id":18,"name":"Drama"}],"overview":"..."}`,
	})

	d, err := svc.Details(context.Background(), selection.Selection{ID: 550, Type: "movie"})
	require.NoError(err)
	require.Equal("Fight Club", d.Title)
	require.Equal("1999", d.Year)
	require.Equal(139, d.Runtime)
	require.Equal("8.4", d.Rating)
	require.Equal([]string{"Drama"}, d.Genres)
	require.Equal("https://player.example/embed/movie?tmdb=550", d.PlayerURL)
	require.Empty(d.Seasons)
	require.Nil(d.Season)
	require.Equal([]string{"movie/550"}, f.called())
}

func TestDetailsMovieFailureStillPlays(t *testing.T) {
	svc, _ := newTestService(map[string]string{})

	d, err := svc.Details(context.Background(), selection.Selection{ID: 7, Type: "movie"})
	require.NoError(t, err)
	require.Equal(t, MsgNoDetails, d.Message)
	require.Equal(t, "https://player.example/embed/movie?tmdb=7", d.PlayerURL)
}

func TestDetailsShow(t *testing.T) {
	require := require.New(t)

	svc, f := newTestService(map[string]string{
		"tv/1399": `{"id":1399,"name":"Game of Thrones","first_air_date":"2011-04-17","episode_run_time":[60],
			"seasons":[{"season_number":0,"name":"Specials"},{"season_number":1,"name":"Season 1"},{"season_number":2,"name":"Season 2"}]}`,
		"tv/1399/season/1": `{"season_number":1,"episodes":[{"episode_number":1,"name":"Winter Is Coming"},{"episode_number":2,"name":"The Kingsroad"}]}`,
	})

	d, err := svc.Details(context.Background(), selection.Selection{ID: 1399, Type: "tv"})
	require.NoError(err)
	require.Equal(60, d.Runtime)
	require.Equal([]SeasonOption{{1, "Season 1"}, {2, "Season 2"}}, d.Seasons)
	require.NotNil(d.Season)
	require.Equal(1, d.Season.Number)
	require.Len(d.Season.Episodes, 2)
	require.Equal("E2", d.Season.Episodes[1].Label)
	require.Equal("https://player.example/embed/tv?tmdb=1399&season=1&episode=1", d.PlayerURL)
	require.Equal([]string{"tv/1399", "tv/1399/season/1"}, f.called())

	// season change re-fetches episodes
	se := svc.Episodes(context.Background(), 1399, 2)
	require.Empty(se.Episodes)
	require.Equal(MsgNoEpisodes, se.Message)
	require.Equal("tv/1399/season/2", f.called()[2])
}

func TestDetailsRejectsEmptySelection(t *testing.T) {
	svc, f := newTestService(nil)

	_, err := svc.Details(context.Background(), selection.Selection{})
	require.ErrorIs(t, err, selection.ErrEmpty)
	require.Empty(t, f.called())
}

func TestClickedCardDrivesDetailsFetch(t *testing.T) {
	require := require.New(t)

	svc, f := newTestService(map[string]string{
		"trending/all/week": `{"results":[{"id":1399,"name":"Game of Thrones","poster_path":"/g.jpg","media_type":"tv"}]}`,
		"tv/1399":           `{"id":1399,"name":"Game of Thrones","seasons":[]}`,
	})
	ctx := context.Background()

	home := svc.Home(ctx)
	card := home.Rails[0].Items[0]

	store := selection.FileStore{Path: t.TempDir() + "/selection.yaml"}
	require.NoError(store.Save(card.Selection()))

	sel, err := store.Load()
	require.NoError(err)

	_, err = svc.Details(ctx, sel)
	require.NoError(err)
	require.Contains(f.called(), "tv/1399")
}
