package catalog

import (
	"fmt"
	"strings"
)

const DefaultPlayerBaseURL = "https://vidsrc.me/embed"

// Player builds embed URLs for the third-party iframe player.
type Player struct {
	base string
}

func NewPlayer(base string) Player {
	if base == "" {
		base = DefaultPlayerBaseURL
	}
	return Player{base: strings.TrimRight(base, "/")}
}

func (p Player) MovieURL(id int) string {
	return fmt.Sprintf("%s/movie?tmdb=%d", p.base, id)
}

func (p Player) EpisodeURL(showID, season, episode int) string {
	return fmt.Sprintf("%s/tv?tmdb=%d&season=%d&episode=%d", p.base, showID, season, episode)
}
