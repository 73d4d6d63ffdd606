package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/shapedtime/marquee/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		slog.Error("marquee failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "marquee",
		Usage: "movie and TV catalog backed by TMDB",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to configuration file",
				EnvVars: []string{"MARQUEE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "server",
				Value:   "http://localhost:4444",
				Usage:   "marquee server used by the catalog commands",
				EnvVars: []string{"MARQUEE_SERVER"},
			},
			&cli.StringFlag{
				Name:    "selection-file",
				Usage:   "where the current selection is kept (default: user config dir)",
				EnvVars: []string{"MARQUEE_SELECTION_FILE"},
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			c.App.Metadata = map[string]any{"config": cfg}
			return nil
		},
		Commands: []*cli.Command{
			serveCommand(),
			homeCommand(),
			browseCommand(),
			searchCommand(),
			selectCommand(),
			pickCommand(),
			detailsCommand(),
		},
	}
}

func configFrom(c *cli.Context) *config.Config {
	cfg, _ := c.App.Metadata["config"].(*config.Config)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return cfg
}
