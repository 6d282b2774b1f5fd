// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/tagwatch/internal/dataset"
	"github.com/tfctl/tagwatch/internal/differ"
	"github.com/tfctl/tagwatch/internal/fetch"
	"github.com/tfctl/tagwatch/internal/filters"
	"github.com/tfctl/tagwatch/internal/meta"
	"github.com/tfctl/tagwatch/internal/report"
)

// compareCommandAction compares two documents without touching any store.
func compareCommandAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) != 2 {
		return fmt.Errorf("compare needs exactly two documents, got %d", len(args))
	}
	log.Debugf("compare: old=%s new=%s", args[0], args[1])

	fs, err := filters.BuildFilters(cmd.String("filter"))
	if err != nil {
		return err
	}

	client := fetch.New()
	fields := fieldsFromFlags(cmd)

	var (
		docs [2][]byte
		sets [2]*dataset.Dataset
	)
	for i, src := range args {
		doc, err := client.Fetch(ctx, src)
		if err != nil {
			return err
		}
		ds, err := dataset.Normalize(doc, fields)
		if err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}
		docs[i], sets[i] = doc, filters.Apply(ds, fs)
	}

	w := writer(cmd)

	if cmd.Bool("delta") {
		delta, err := differ.Documents(docs[0], docs[1])
		if err != nil {
			return err
		}
		return differ.RenderDelta(w, docs[0], delta, cmd.Bool("color"))
	}

	r := differ.Compare(sets[0], sets[1])
	if cmd.Bool("summary") {
		emitSummary(cmd, r)
		return nil
	}

	return report.Encode(w, r, cmd.String("output"), report.Options{Services: cmd.Bool("services")})
}

// compareCommandBuilder constructs the cli.Command for "compare".
func compareCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "compare",
		Usage:     "compare two service tag documents",
		UsageText: "tagwatch compare OLD NEW [options]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output format (text, json, yaml)",
				Value:   "text",
				Sources: NameSpacedValueChainFromConfigFile("compare", meta.Config.Source, "output", "TAGWATCH_OUTPUT"),
				Validator: func(value string) error {
					return FlagValidators(value, OutputValidator)
				},
			},
			&cli.BoolFlag{
				Name:  "delta",
				Usage: "show a structural diff of the raw documents",
			},
		},
		Action: compareCommandAction,
		Meta:   meta,
	}).Build()
}
