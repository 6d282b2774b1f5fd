// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package fetch retrieves the current service-tag document from a URL or a
// local file.
package fetch
