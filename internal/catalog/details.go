package catalog

import (
	"context"
	"strconv"

	"github.com/shapedtime/marquee/internal/selection"
	"github.com/shapedtime/marquee/internal/tmdb"
)

// Details is the details/player page view. TV-only fields are empty for
// movies, which is how the page knows to hide the season controls.
type Details struct {
	Selection selection.Selection `json:"selection"`
	Title     string              `json:"title,omitempty"`
	Year      string              `json:"year,omitempty"`
	Runtime   int                 `json:"runtime,omitempty"`
	Rating    string              `json:"rating,omitempty"`
	Genres    []string            `json:"genres,omitempty"`
	Overview  string              `json:"overview,omitempty"`
	PosterURL string              `json:"poster_url,omitempty"`
	PlayerURL string              `json:"player_url,omitempty"`
	Message   string              `json:"message,omitempty"`

	Seasons []SeasonOption  `json:"seasons,omitempty"`
	Season  *SeasonEpisodes `json:"season,omitempty"`
}

// SeasonOption is one entry of the season selector.
type SeasonOption struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// SeasonEpisodes is the episode list of one season.
type SeasonEpisodes struct {
	ShowID   int          `json:"show_id"`
	Number   int          `json:"number"`
	Episodes []EpisodeRow `json:"episodes"`
	Message  string       `json:"message,omitempty"`
}

// EpisodeRow is one clickable episode.
type EpisodeRow struct {
	Number    int    `json:"number"`
	Label     string `json:"label"`
	Name      string `json:"name"`
	PlayerURL string `json:"player_url"`
}

// Details loads the view for sel. Movies always get a player URL even when
// the detail fetch fails. Shows get their season list, the episodes of the
// first listed season and a player URL for its first episode.
func (s *Service) Details(ctx context.Context, sel selection.Selection) (*Details, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	if sel.IsTV() {
		return s.showDetails(ctx, sel), nil
	}
	return s.movieDetails(ctx, sel), nil
}

func (s *Service) movieDetails(ctx context.Context, sel selection.Selection) *Details {
	d := &Details{
		Selection: sel,
		PlayerURL: s.player.MovieURL(sel.ID),
	}

	movie, err := s.api.GetMovie(ctx, sel.ID)
	if err != nil {
		s.failed("details", err, "selection", sel.String())
		d.Message = MsgNoDetails
		return d
	}

	d.Title = movie.Title
	d.Year = tmdb.YearOf(movie.ReleaseDate)
	d.Runtime = movie.Runtime
	d.Rating = FormatRating(movie.VoteAverage)
	d.Genres = genreNames(movie.Genres)
	d.Overview = movie.Overview
	d.PosterURL = s.poster(movie.PosterPath)
	return d
}

func (s *Service) showDetails(ctx context.Context, sel selection.Selection) *Details {
	d := &Details{Selection: sel}

	show, err := s.api.GetShow(ctx, sel.ID)
	if err != nil {
		s.failed("details", err, "selection", sel.String())
		d.Message = MsgNoDetails
		return d
	}

	d.Title = show.Name
	d.Year = tmdb.YearOf(show.FirstAirDate)
	if len(show.EpisodeRunTime) > 0 {
		d.Runtime = show.EpisodeRunTime[0]
	}
	d.Rating = FormatRating(show.VoteAverage)
	d.Genres = genreNames(show.Genres)
	d.Overview = show.Overview
	d.PosterURL = s.poster(show.PosterPath)

	// Season 0 holds specials and is not offered.
	for _, season := range show.Seasons {
		if season.SeasonNumber > 0 {
			d.Seasons = append(d.Seasons, SeasonOption{Number: season.SeasonNumber, Name: season.Name})
		}
	}
	if len(d.Seasons) == 0 {
		return d
	}

	d.Season = s.Episodes(ctx, sel.ID, d.Seasons[0].Number)
	if len(d.Season.Episodes) > 0 {
		d.PlayerURL = d.Season.Episodes[0].PlayerURL
	}
	return d
}

// Episodes loads the episode list of one season; a failed fetch yields an
// empty list.
func (s *Service) Episodes(ctx context.Context, showID, season int) *SeasonEpisodes {
	se := &SeasonEpisodes{ShowID: showID, Number: season, Episodes: []EpisodeRow{}}

	data, err := s.api.GetSeason(ctx, showID, season)
	if err != nil {
		s.failed("episodes", err, "show_id", showID, "season", season)
		se.Message = MsgNoEpisodes
		return se
	}

	for _, ep := range data.Episodes {
		se.Episodes = append(se.Episodes, EpisodeRow{
			Number:    ep.EpisodeNumber,
			Label:     "E" + strconv.Itoa(ep.EpisodeNumber),
			Name:      ep.Name,
			PlayerURL: s.player.EpisodeURL(showID, season, ep.EpisodeNumber),
		})
	}
	if len(se.Episodes) == 0 {
		se.Message = MsgNoEpisodes
	}
	return se
}

func (s *Service) poster(path string) string {
	if path == "" {
		return ""
	}
	return s.images + path
}

func genreNames(genres []tmdb.Genre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}
