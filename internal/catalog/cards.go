package catalog

import (
	"math"
	"strconv"

	"github.com/shapedtime/marquee/internal/selection"
	"github.com/shapedtime/marquee/internal/tmdb"
)

const DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"

// Card is one poster tile in a gallery.
type Card struct {
	ID        int    `json:"id"`
	MediaType string `json:"media_type"`
	Title     string `json:"title"`
	PosterURL string `json:"poster_url"`
	Year      string `json:"year,omitempty"`
	Rating    string `json:"rating,omitempty"`
}

// Selection is the pair a click on this card hands to the details page.
func (c Card) Selection() selection.Selection {
	return selection.Selection{ID: c.ID, Type: c.MediaType}
}

// BuildCards maps results to cards, skipping items without a poster. When
// mediaType is empty each item's own media_type is used.
func BuildCards(items []tmdb.MediaItem, mediaType, imageBase string) []Card {
	cards := make([]Card, 0, len(items))
	for i := range items {
		item := &items[i]
		if item.PosterPath == "" {
			continue
		}

		typ := mediaType
		if typ == "" {
			typ = item.MediaType
		}

		cards = append(cards, Card{
			ID:        item.ID,
			MediaType: typ,
			Title:     item.DisplayTitle(),
			PosterURL: imageBase + item.PosterPath,
			Year:      item.Year(),
			Rating:    FormatRating(item.VoteAverage),
		})
	}
	return cards
}

// FormatRating renders a vote average with one decimal, halves rounding up.
// Zero means unrated.
func FormatRating(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}
