// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cristalhq/acmd"

	"codeberg.org/readeck/fontgrab/pkg/archiver"
	"codeberg.org/readeck/fontgrab/pkg/fontface"
)

func init() {
	commands = append(commands,
		acmd.Command{
			Name:        "fetch",
			Description: "Download the fonts of a stylesheet and rewrite it",
			ExecFunc:    runFetch,
		},
		acmd.Command{
			Name:        "list",
			Description: "List the fonts of a stylesheet without downloading them",
			ExecFunc:    runList,
		},
	)
}

func commandFlags(name string, args []string) (*appFlags, error) {
	var flags appFlags
	fs := flags.Flags()
	// nolint: errcheck
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [arguments...] [URL]\n", name)
		fmt.Fprintln(fs.Output(), "  URL")
		fmt.Fprintln(fs.Output(), "    \tstylesheet URL (same as -url)")
		fs.PrintDefaults()
	}

	if err := flags.parse(args); err != nil {
		return nil, err
	}

	return &flags, nil
}

// loadManifest fetches the stylesheet and builds its font manifest.
// Blocks that can't be parsed are reported as warnings.
func loadManifest(ctx context.Context, client *http.Client, uri string) (string, *fontface.Manifest, error) {
	log().Debug("fetching stylesheet", slog.Any("url", archiver.URLLogValue(uri)))

	css, err := archiver.FetchStylesheet(ctx, client, uri)
	if err != nil {
		return "", nil, err
	}

	m, errs := fontface.BuildManifest(css)
	for _, e := range errs {
		log().Warn("could not parse font block",
			slog.String("block", e.Block),
			slog.Any("err", e.Err),
		)
	}

	return css, m, nil
}

func runFetch(ctx context.Context, args []string) error {
	flags, err := commandFlags("fetch", args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := appPreRun(flags)
	if err != nil {
		return err
	}
	client := appClient(cfg)

	css, m, err := loadManifest(ctx, client, flags.URL)
	if err != nil {
		return err
	}

	collector := archiver.NewFileCollector(cfg.OutputDir, client)
	arc := archiver.New(
		archiver.WithCollector(collector),
		archiver.WithLogger(log()),
	)

	res, err := arc.Materialize(ctx, m, css)
	if err != nil {
		return err
	}

	log().Info(summary(res.Count, collector.Root()))
	return nil
}

// summary returns the final status line of a fetch.
func summary(count int, dir string) string {
	unit := "fonts"
	if count == 1 {
		unit = "font"
	}
	return fmt.Sprintf("%d %s downloaded to %s", count, unit, dir)
}

func runList(ctx context.Context, args []string) error {
	flags, err := commandFlags("list", args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := appPreRun(flags)
	if err != nil {
		return err
	}

	_, m, err := loadManifest(ctx, appClient(cfg), flags.URL)
	if err != nil {
		return err
	}

	for uri, name := range m.All() {
		fmt.Fprintf(stdout, "%s\t%s\n", uri, name) //nolint:errcheck
	}

	return nil
}
