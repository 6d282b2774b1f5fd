// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package tracker runs one fetch, compare and persist cycle against a Store.
// The steps run strictly in order and the first failure ends the run.
package tracker
