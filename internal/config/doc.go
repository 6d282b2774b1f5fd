// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for tagwatch's user
// configuration. The configuration is a YAML document located in the user's
// configuration directory, typically:
//   - Linux/macOS: $XDG_CONFIG_HOME/tagwatch.yaml or $HOME/.config/tagwatch.yaml
//   - Windows: %APPDATA%/tagwatch.yaml
//
// TAGWATCH_CFG_FILE overrides the location. Flag values are read from the
// file by the command layer, namespaced by command (run.url, compare.output).
// This package serves the keys no flag covers:
//   - cache.clean: purge cached downloads older than this many hours
//   - cache.ttl: default for run --cache-ttl, a duration or hours
//   - colors.title, colors.added, colors.removed: summary table colours
//   - <command>.<name>: argument sets expanded from @name
package config
