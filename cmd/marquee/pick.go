package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/urfave/cli/v2"

	"github.com/shapedtime/marquee/internal/catalog"
)

var cardTemplates = &promptui.SelectTemplates{
	Label:    "{{ . }}",
	Active:   "> {{ .Title | cyan }} {{ .Year | faint }}",
	Inactive: "  {{ .Title }} {{ .Year | faint }}",
	Selected: "{{ .Title | green }} ({{ .MediaType }} {{ .ID }})",
	Details: `
--------- {{ .MediaType }} ----------
{{ "Title:" | faint }}	{{ .Title }}
{{ "Year:" | faint }}	{{ .Year }}
{{ "Rating:" | faint }}	{{ .Rating }}`,
}

func pickCommand() *cli.Command {
	return &cli.Command{
		Name:      "pick",
		Usage:     "search and choose a result interactively, then remember it",
		ArgsUsage: "<query>",
		Action: func(c *cli.Context) error {
			res := catalogService(c).Search(c.Context, strings.Join(c.Args().Slice(), " "))
			if len(res.Items) == 0 {
				fmt.Fprintln(c.App.Writer, res.Message)
				return nil
			}

			prompt := promptui.Select{
				Label:     fmt.Sprintf("Results for %q", res.Query),
				Items:     res.Items,
				Size:      15,
				Templates: cardTemplates,
				Searcher:  cardSearcher(res.Items),
			}

			index, _, err := prompt.Run()
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("prompt: %w", err)
			}

			store, err := selectionStore(c)
			if err != nil {
				return err
			}
			sel := res.Items[index].Selection()
			if err := store.Save(sel); err != nil {
				return fmt.Errorf("save selection: %w", err)
			}
			fmt.Fprintf(c.App.Writer, "selected %s\n", sel)
			return nil
		},
	}
}

// cardSearcher filters prompt entries by case-insensitive title match.
func cardSearcher(cards []catalog.Card) func(string, int) bool {
	return func(input string, index int) bool {
		return strings.Contains(strings.ToLower(cards[index].Title), strings.ToLower(strings.TrimSpace(input)))
	}
}
