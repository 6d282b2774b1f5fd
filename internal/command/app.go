// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/tagwatch/internal/config"
	"github.com/tfctl/tagwatch/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the tagwatch
	// subcommand and also the namespace used when retrieving config values.
	// arg[1] could be -h/--help, so ignore it if it appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// A missing config file is normal; flags then come from env and defaults.
	if _, err := config.Load(); err != nil {
		log.Debugf("no config loaded: %v", err)
	}
	cfg := config.SetNamespace(ns)

	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
		Started:     time.Now(),
	}

	app := &cli.Command{
		Name:  "tagwatch",
		Usage: "track changes to published cloud service tag IP ranges",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "tagwatch version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		runCommandBuilder(meta),
		compareCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
