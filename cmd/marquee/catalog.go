package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/shapedtime/marquee/internal/catalog"
	"github.com/shapedtime/marquee/internal/proxyclient"
	"github.com/shapedtime/marquee/internal/selection"
)

// catalogService builds a catalog over the forwarding handler of --server.
func catalogService(c *cli.Context) *catalog.Service {
	cfg := configFrom(c)
	fetcher := proxyclient.New(c.String("server"), time.Duration(cfg.TMDB.Timeout+5)*time.Second)
	return catalog.NewService(fetcher, catalog.Options{
		ImageBaseURL:  cfg.TMDB.ImageBaseURL,
		PlayerBaseURL: cfg.Player.BaseURL,
	})
}

func selectionStore(c *cli.Context) (selection.FileStore, error) {
	if p := c.String("selection-file"); p != "" {
		return selection.FileStore{Path: p}, nil
	}
	p, err := selection.DefaultPath()
	if err != nil {
		return selection.FileStore{}, fmt.Errorf("locate selection file: %w", err)
	}
	return selection.FileStore{Path: p}, nil
}

func homeCommand() *cli.Command {
	return &cli.Command{
		Name:  "home",
		Usage: "show the home page rails",
		Action: func(c *cli.Context) error {
			home := catalogService(c).Home(c.Context)
			for _, rail := range home.Rails {
				fmt.Fprintf(c.App.Writer, "== %s ==\n", rail.Title)
				printCards(c.App.Writer, rail.Items, rail.Message)
				fmt.Fprintln(c.App.Writer)
			}
			return nil
		},
	}
}

func browseCommand() *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Usage:     "list movies or TV shows by filter",
		ArgsUsage: "<movie|tv>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "filter", Aliases: []string{"f"}, Usage: "popular, top_rated, now_playing, upcoming, on_the_air, airing_today"},
			&cli.IntFlag{Name: "pages", Value: 1, Usage: "number of pages to load"},
		},
		Action: func(c *cli.Context) error {
			mediaType := c.Args().First()
			session, err := catalogService(c).NewBrowseSession(mediaType)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			var page *catalog.BrowsePage
			if f := c.String("filter"); f != "" {
				page, err = session.SetFilter(c.Context, f)
			} else {
				page, err = session.Load(c.Context)
			}
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			printCards(c.App.Writer, page.Items, page.Message)

			for i := 1; i < c.Int("pages"); i++ {
				page, err = session.LoadMore(c.Context)
				if errors.Is(err, catalog.ErrNoMorePages) {
					break
				}
				if err != nil {
					return err
				}
				printCards(c.App.Writer, page.Items, "")
			}

			filter, n, more := session.State()
			fmt.Fprintf(c.App.Writer, "\n%s/%s page %d (more: %t)\n", mediaType, filter, n, more)
			return nil
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "search movies and TV shows",
		ArgsUsage: "<query>",
		Action: func(c *cli.Context) error {
			res := catalogService(c).Search(c.Context, strings.Join(c.Args().Slice(), " "))
			printCards(c.App.Writer, res.Items, res.Message)
			return nil
		},
	}
}

func selectCommand() *cli.Command {
	return &cli.Command{
		Name:      "select",
		Usage:     "remember a movie or show for the details command",
		ArgsUsage: "<movie|tv> <id>",
		Action: func(c *cli.Context) error {
			sel, err := selection.Parse(c.Args().Get(1), c.Args().Get(0))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			store, err := selectionStore(c)
			if err != nil {
				return err
			}
			if err := store.Save(sel); err != nil {
				return fmt.Errorf("save selection: %w", err)
			}
			fmt.Fprintf(c.App.Writer, "selected %s\n", sel)
			return nil
		},
	}
}

func detailsCommand() *cli.Command {
	return &cli.Command{
		Name:  "details",
		Usage: "show details and player links for the current selection",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "season", Usage: "list episodes of this season instead of the first"},
		},
		Action: func(c *cli.Context) error {
			store, err := selectionStore(c)
			if err != nil {
				return err
			}
			sel, err := store.Load()
			if errors.Is(err, selection.ErrEmpty) {
				return cli.Exit("No media selected. Pick one with: marquee select <movie|tv> <id>", 1)
			}
			if err != nil {
				return err
			}

			svc := catalogService(c)
			d, err := svc.Details(c.Context, sel)
			if err != nil {
				return err
			}
			printDetails(c.App.Writer, d)

			if season := c.Int("season"); season > 0 && sel.IsTV() {
				printEpisodes(c.App.Writer, svc.Episodes(c.Context, sel.ID, season))
			} else if d.Season != nil {
				printEpisodes(c.App.Writer, d.Season)
			}
			return nil
		},
	}
}

func printCards(w io.Writer, cards []catalog.Card, message string) {
	if len(cards) == 0 {
		if message != "" {
			fmt.Fprintln(w, message)
		}
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, card := range cards {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", card.MediaType, card.ID, card.Title, card.Year, card.Rating)
	}
	tw.Flush()
}

func printDetails(w io.Writer, d *catalog.Details) {
	fmt.Fprintf(w, "%s\n", d.Selection)
	if d.Message != "" {
		fmt.Fprintln(w, d.Message)
	} else {
		fmt.Fprintf(w, "%s (%s)\n", d.Title, d.Year)
		var meta []string
		if d.Runtime > 0 {
			meta = append(meta, strconv.Itoa(d.Runtime)+" min")
		}
		if d.Rating != "" {
			meta = append(meta, d.Rating+"/10")
		}
		if len(d.Genres) > 0 {
			meta = append(meta, strings.Join(d.Genres, ", "))
		}
		if len(meta) > 0 {
			fmt.Fprintln(w, strings.Join(meta, " | "))
		}
		if d.Overview != "" {
			fmt.Fprintf(w, "\n%s\n", d.Overview)
		}
	}

	if len(d.Seasons) > 0 {
		names := make([]string, 0, len(d.Seasons))
		for _, s := range d.Seasons {
			names = append(names, fmt.Sprintf("%d:%s", s.Number, s.Name))
		}
		fmt.Fprintf(w, "\nSeasons: %s\n", strings.Join(names, ", "))
	}
	if d.PlayerURL != "" {
		fmt.Fprintf(w, "\nPlayer: %s\n", d.PlayerURL)
	}
}

func printEpisodes(w io.Writer, se *catalog.SeasonEpisodes) {
	fmt.Fprintf(w, "\nSeason %d\n", se.Number)
	if len(se.Episodes) == 0 {
		fmt.Fprintln(w, se.Message)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, ep := range se.Episodes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ep.Label, ep.Name, ep.PlayerURL)
	}
	tw.Flush()
}
