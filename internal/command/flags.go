// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/tagwatch/internal/config"
	"github.com/tfctl/tagwatch/internal/dataset"
	"github.com/tfctl/tagwatch/internal/fetch"
	"github.com/tfctl/tagwatch/internal/store/local"
)

// NewGlobalFlags returns the flags shared by every comparing subcommand.
// params[0] is the command namespace and params[1] the config file.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	ns, path := nsAndPath(params)

	flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "color", "TAGWATCH_COLOR"),
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated filters on id, prefix or net (e.g. id^AzureCloud)",
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "filter", "TAGWATCH_FILTER"),
		},
		&cli.BoolFlag{
			Name:    "services",
			Usage:   "also report service tags that appeared or disappeared",
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "services", "TAGWATCH_SERVICES"),
		},
		&cli.BoolFlag{
			Name:    "summary",
			Usage:   "print a per-service summary table",
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "summary", "TAGWATCH_SUMMARY"),
		},
		&cli.StringFlag{
			Name:    "entries-path",
			Usage:   "gjson path of the entry array",
			Value:   dataset.DefaultFields.Entries,
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "entries-path", "TAGWATCH_ENTRIES_PATH"),
		},
		&cli.StringFlag{
			Name:    "id-path",
			Usage:   "gjson path of the identifier within an entry",
			Value:   dataset.DefaultFields.ID,
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "id-path", "TAGWATCH_ID_PATH"),
		},
		&cli.StringFlag{
			Name:    "prefixes-path",
			Usage:   "gjson path of the prefix array within an entry",
			Value:   dataset.DefaultFields.Prefixes,
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "prefixes-path", "TAGWATCH_PREFIXES_PATH"),
		},
	}

	return
}

// NewRunFlags returns the source and store flags of the run command.
func NewRunFlags(params ...string) []cli.Flag {
	ns, path := nsAndPath(params)

	return []cli.Flag{
		&cli.StringFlag{
			Name:    "url",
			Aliases: []string{"u"},
			Usage:   "service tag document to fetch (http(s) URL, file:// URL or path)",
			Value:   fetch.DefaultURL,
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "url", "TAGWATCH_URL"),
		},
		&cli.BoolFlag{
			Name:    "cache",
			Usage:   "reuse a previously downloaded copy of the same URL",
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "cache", "TAGWATCH_FETCH_CACHE"),
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Usage:   "maximum age of a reused download, 0 for no limit",
			Value:   config.CacheTTL(),
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "cache-ttl", "TAGWATCH_CACHE_TTL"),
		},
		&cli.StringFlag{
			Name:    "store",
			Usage:   "snapshot store type (local, s3)",
			Value:   "local",
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "store", "TAGWATCH_STORE"),
			Validator: func(value string) error {
				return FlagValidators(value, StoreValidator)
			},
		},
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "directory of the local store",
			Value:   local.DefaultDir,
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "dir", "TAGWATCH_DIR"),
		},
		&cli.StringFlag{
			Name:    "bucket",
			Usage:   "bucket of the s3 store",
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "bucket", "TAGWATCH_BUCKET"),
		},
		&cli.StringFlag{
			Name:    "prefix",
			Usage:   "key prefix within the s3 bucket",
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "prefix", "TAGWATCH_PREFIX"),
		},
		&cli.StringFlag{
			Name:    "region",
			Usage:   "AWS region of the s3 store",
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "region", "TAGWATCH_REGION", "AWS_REGION"),
		},
		&cli.StringFlag{
			Name:    "profile",
			Usage:   "AWS shared config profile",
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "profile", "TAGWATCH_PROFILE", "AWS_PROFILE"),
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "endpoint of an S3-compatible service",
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "endpoint", "TAGWATCH_ENDPOINT"),
		},
		&cli.IntFlag{
			Name:    "max-attempts",
			Usage:   "attempts per s3 request, 0 for the SDK default",
			Sources: NameSpacedValueChainFromConfigFile(ns, path, "max-attempts", "TAGWATCH_MAX_ATTEMPTS"),
		},
	}
}

// NameSpacedValueChainFromConfigFile returns a source chain that consults the
// env vars first, then the namespaced and global keys of the config file.
func NameSpacedValueChainFromConfigFile(ns string, path string, key string, envs ...string) cli.ValueSourceChain {
	chain := cli.EnvVars(envs...)
	if path == "" {
		return chain
	}

	if ns != "" {
		chain.Chain = append(chain.Chain, yaml.YAML(ns+"."+key, altsrc.StringSourcer(path)))
	}
	chain.Chain = append(chain.Chain, yaml.YAML(key, altsrc.StringSourcer(path)))

	return chain
}

// fieldsFromFlags builds the document field paths from the path flags.
func fieldsFromFlags(cmd *cli.Command) dataset.Fields {
	f := dataset.Fields{
		Entries:  strings.TrimSpace(cmd.String("entries-path")),
		ID:       strings.TrimSpace(cmd.String("id-path")),
		Prefixes: strings.TrimSpace(cmd.String("prefixes-path")),
	}
	if f.Entries == "" {
		f.Entries = dataset.DefaultFields.Entries
	}
	if f.ID == "" {
		f.ID = dataset.DefaultFields.ID
	}
	if f.Prefixes == "" {
		f.Prefixes = dataset.DefaultFields.Prefixes
	}
	return f
}

func nsAndPath(params []string) (ns, path string) {
	if len(params) > 0 {
		ns = params[0]
	}
	if len(params) > 1 {
		path = params[1]
	}
	return
}
