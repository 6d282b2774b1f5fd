// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/tagwatch/internal/fetch"
	"github.com/tfctl/tagwatch/internal/filters"
	"github.com/tfctl/tagwatch/internal/meta"
	"github.com/tfctl/tagwatch/internal/store"
	"github.com/tfctl/tagwatch/internal/tracker"
)

// runCommandAction fetches the configured document and runs one tracking
// cycle against the selected store.
func runCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	purgeCache()

	fs, err := filters.BuildFilters(cmd.String("filter"))
	if err != nil {
		return err
	}

	st, err := store.New(ctx, cmd)
	if err != nil {
		return err
	}

	out, err := tracker.Run(ctx, tracker.Options{
		Fetcher:  fetch.New(fetch.WithCache(cmd.Bool("cache")), fetch.WithCacheTTL(cmd.Duration("cache-ttl"))),
		Store:    st,
		URL:      cmd.String("url"),
		Fields:   fieldsFromFlags(cmd),
		Filters:  fs,
		Services: cmd.Bool("services"),
		Stdout:   writer(cmd),
	})
	if err != nil {
		return err
	}

	if !m.Started.IsZero() {
		log.Debugf("run took %s", time.Since(m.Started).Round(time.Millisecond))
	}

	emitSummary(cmd, out.Result)
	return nil
}

// runCommandBuilder constructs the cli.Command for "run".
func runCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "run",
		Usage:     "fetch the service tags and log changes since the last run",
		UsageText: "tagwatch run [options]",
		Flags:     NewRunFlags("run", meta.Config.Source),
		Action:    runCommandAction,
		Meta:      meta,
	}).Build()
}
