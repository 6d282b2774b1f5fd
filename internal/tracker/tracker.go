// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/tfctl/tagwatch/internal/dataset"
	"github.com/tfctl/tagwatch/internal/differ"
	"github.com/tfctl/tagwatch/internal/filters"
	"github.com/tfctl/tagwatch/internal/report"
	"github.com/tfctl/tagwatch/internal/store"
)

// Slot names within the Store.
const (
	PreviousSlot = "old_ips.json"
	CurrentSlot  = "new_ips.json"
)

// BootstrapMessage is printed when the Store holds no previous snapshot.
const BootstrapMessage = "No previous data found. Starting new data tracking."

// Fetcher retrieves the raw document at source.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// Options configure a Run. Fetcher and Store are required.
type Options struct {
	Fetcher  Fetcher
	Store    store.Store
	URL      string
	Fields   dataset.Fields
	Filters  []filters.Filter
	Services bool

	// Now stamps the change log name. Defaults to time.Now.
	Now func() time.Time

	// Stdout receives the bootstrap notice. Defaults to os.Stdout.
	Stdout io.Writer
}

// Outcome describes a completed Run.
type Outcome struct {
	Result       differ.Result
	ChangeLog    string
	Bootstrap    bool
	PreviousSize int
	CurrentSize  int
}

// ChangeLogName returns the change log name for a run at t. The date is UTC.
func ChangeLogName(t time.Time) string {
	return "change_log_" + t.UTC().Format("20060102") + ".txt"
}

// Run fetches the current document, compares it with the previous snapshot,
// writes the change log and rotates the current document into the previous
// slot.
func Run(ctx context.Context, opts Options) (*Outcome, error) {
	if opts.Fetcher == nil || opts.Store == nil {
		return nil, errors.New("tracker needs a fetcher and a store")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Fields == (dataset.Fields{}) {
		opts.Fields = dataset.DefaultFields
	}

	log.Debugf("Run: url=%s store=%s", opts.URL, opts.Store)

	current, err := opts.Fetcher.Fetch(ctx, opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", opts.URL, err)
	}
	log.Debugf("fetched %s", humanize.Bytes(uint64(len(current))))

	if err := opts.Store.Put(ctx, CurrentSlot, current); err != nil {
		return nil, fmt.Errorf("failed to save current snapshot: %w", err)
	}

	out := &Outcome{CurrentSize: len(current)}

	previous, err := opts.Store.Get(ctx, PreviousSlot)
	switch {
	case store.IsNotFound(err):
		log.Info(BootstrapMessage)
		fmt.Fprintln(opts.Stdout, BootstrapMessage)
		out.Bootstrap = true
		previous = []byte("{}")
	case err != nil:
		return nil, fmt.Errorf("failed to load previous snapshot: %w", err)
	default:
		out.PreviousSize = len(previous)
	}

	oldDS, err := dataset.Normalize(previous, opts.Fields)
	if err != nil {
		return nil, fmt.Errorf("previous snapshot %s: %w", PreviousSlot, err)
	}
	curDS, err := dataset.Normalize(current, opts.Fields)
	if err != nil {
		return nil, fmt.Errorf("current snapshot %s: %w", CurrentSlot, err)
	}
	log.Debugf("normalized: previous=%d current=%d services", oldDS.Len(), curDS.Len())

	oldDS, curDS = filters.Apply(oldDS, opts.Filters), filters.Apply(curDS, opts.Filters)

	out.Result = differ.Compare(oldDS, curDS)
	log.Debugf("compared: added=%d removed=%d", out.Result.Added.Len(), out.Result.Removed.Len())

	out.ChangeLog = ChangeLogName(opts.Now())
	body := report.Render(out.Result, report.Options{Services: opts.Services})
	if err := opts.Store.Put(ctx, out.ChangeLog, body); err != nil {
		return nil, fmt.Errorf("failed to write change log: %w", err)
	}

	if err := opts.Store.Put(ctx, PreviousSlot, current); err != nil {
		return nil, fmt.Errorf("failed to save previous snapshot: %w", err)
	}

	log.Infof("wrote %s to %s", out.ChangeLog, opts.Store)
	return out, nil
}
