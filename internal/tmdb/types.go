package tmdb

import "strings"

// Media types as TMDB tags them.
const (
	MediaMovie  = "movie"
	MediaTV     = "tv"
	MediaPerson = "person"
)

// MediaItem is one entry of a list or search result. Movies carry Title and
// ReleaseDate, shows carry Name and FirstAirDate.
type MediaItem struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	MediaType    string  `json:"media_type"`
	Overview     string  `json:"overview"`
}

// DisplayTitle returns the title for movies and the name for shows.
func (m *MediaItem) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.Name
}

// Year extracts the year from the release or first air date
func (m *MediaItem) Year() string {
	if m.ReleaseDate != "" {
		return YearOf(m.ReleaseDate)
	}
	return YearOf(m.FirstAirDate)
}

// Page is a paginated result list.
type Page struct {
	Page         int         `json:"page"`
	Results      []MediaItem `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie represents movie details from TMDB
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Runtime     int     `json:"runtime"`
	VoteAverage float64 `json:"vote_average"`
	Genres      []Genre `json:"genres"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
}

// Show represents TV show details including its season list
type Show struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	FirstAirDate   string          `json:"first_air_date"`
	EpisodeRunTime []int           `json:"episode_run_time"`
	VoteAverage    float64         `json:"vote_average"`
	Genres         []Genre         `json:"genres"`
	Overview       string          `json:"overview"`
	PosterPath     string          `json:"poster_path"`
	Seasons        []SeasonSummary `json:"seasons"`
}

type SeasonSummary struct {
	ID           int    `json:"id"`
	SeasonNumber int    `json:"season_number"`
	Name         string `json:"name"`
	EpisodeCount int    `json:"episode_count"`
}

// Season represents a TV season with its episodes
type Season struct {
	ID           int       `json:"id"`
	SeasonNumber int       `json:"season_number"`
	Name         string    `json:"name"`
	Episodes     []Episode `json:"episodes"`
}

// Episode represents a TV episode from TMDB
type Episode struct {
	ID            int    `json:"id"`
	EpisodeNumber int    `json:"episode_number"`
	Name          string `json:"name"`
	Overview      string `json:"overview"`
	AirDate       string `json:"air_date"`
}

// YearOf returns the part of a YYYY-MM-DD date before the first dash.
func YearOf(date string) string {
	year, _, _ := strings.Cut(date, "-")
	return year
}
