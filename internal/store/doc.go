// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package store persists the snapshot slots and change logs of a run. The
// local and s3 subpackages implement the Store interface; New picks one from
// the command's flags.
package store
