// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package dataset normalizes a service-tag document into a map of service
// identifier to IP-prefix set. Field locations are gjson paths supplied by the
// caller so the upstream document contract lives in configuration.
package dataset
