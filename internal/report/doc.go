// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package report renders comparison results: the plain-text change log
// persisted every run, JSON and YAML encodings, and a console summary table.
package report
