// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ computes the prefix changes between two service-tag datasets
// and, for diagnostics, the structural delta between the raw documents.
package differ
