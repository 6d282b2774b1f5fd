// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"fmt"

	"github.com/tfctl/tagwatch/internal/dataset"
	"github.com/tfctl/tagwatch/internal/differ"
)

// NoChanges is the whole change log of a run that found nothing.
const NoChanges = "No changes detected."

// Options tunes the change log.
type Options struct {
	// Services adds sections for identifiers that appeared or disappeared.
	Services bool
}

// Render returns the change log body for r. Records are sorted so reruns over
// the same snapshots produce identical logs.
func Render(r differ.Result, opts Options) []byte {
	var buf bytes.Buffer

	section(&buf, "Added IPs:", r.Added)
	section(&buf, "Removed IPs:", r.Removed)

	quiet := r.Empty()
	if opts.Services {
		section(&buf, "Added services:", r.AddedServices)
		section(&buf, "Removed services:", r.RemovedServices)
		quiet = quiet && !r.ServicesChanged()
	}

	if quiet {
		fmt.Fprintln(&buf, NoChanges)
	}

	return buf.Bytes()
}

func section(buf *bytes.Buffer, title string, records dataset.Set) {
	if records.Len() == 0 {
		return
	}
	fmt.Fprintln(buf, title)
	for _, rec := range records.Sorted() {
		fmt.Fprintln(buf, rec)
	}
}
