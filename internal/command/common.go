// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"io"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/tagwatch/internal/cacheutil"
	"github.com/tfctl/tagwatch/internal/config"
	"github.com/tfctl/tagwatch/internal/differ"
	"github.com/tfctl/tagwatch/internal/meta"
	"github.com/tfctl/tagwatch/internal/report"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// writer returns the root command's writer, falling back to stdout.
func writer(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// purgeCache drops cache entries older than cache.clean hours when configured.
func purgeCache() {
	if err := cacheutil.Purge(config.CacheClean()); err != nil {
		log.WithError(err).Warn("cache purge failed")
	}
}

// emitSummary prints the summary table when --summary is set.
func emitSummary(cmd *cli.Command, r differ.Result) {
	if !cmd.Bool("summary") {
		return
	}
	w := writer(cmd)
	f, _ := w.(*os.File)
	report.Summary(w, r, report.SummaryOptions{
		Color:    report.ColorEnabled(f, cmd.Bool("color")),
		Services: cmd.Bool("services"),
	})
}
