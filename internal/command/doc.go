// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command defines the CLI command set for tagwatch. It wires flags,
// config file and environment sources, validators and actions for the run,
// compare and completion subcommands.
package command
