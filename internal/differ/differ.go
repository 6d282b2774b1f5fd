// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/tfctl/tagwatch/internal/dataset"
)

// Result holds the change records produced by Compare. Added and Removed hold
// "identifier: prefix" records for identifiers present in both datasets.
// AddedServices and RemovedServices hold identifiers present on one side only.
type Result struct {
	Added           dataset.Set
	Removed         dataset.Set
	AddedServices   dataset.Set
	RemovedServices dataset.Set
}

// Empty reports whether no prefix was added or removed.
func (r Result) Empty() bool {
	return r.Added.Len() == 0 && r.Removed.Len() == 0
}

// ServicesChanged reports whether an identifier appeared or disappeared.
func (r Result) ServicesChanged() bool {
	return r.AddedServices.Len() > 0 || r.RemovedServices.Len() > 0
}

// Record formats a single change record.
func Record(id, prefix string) string {
	return id + ": " + prefix
}

// SplitRecord reverses Record. Prefixes never contain ": ", so the last
// separator is the one Record wrote.
func SplitRecord(record string) (id, prefix string) {
	i := strings.LastIndex(record, ": ")
	if i < 0 {
		return record, ""
	}
	return record[:i], record[i+2:]
}

// Compare computes the prefixes added and removed between old and cur for
// every identifier present in both. An identifier found on only one side adds
// no prefix records. When old is empty nothing is reported at all, which makes
// the first run against a fresh store quiet.
func Compare(old, cur *dataset.Dataset) Result {
	r := Result{
		Added:           dataset.Set{},
		Removed:         dataset.Set{},
		AddedServices:   dataset.Set{},
		RemovedServices: dataset.Set{},
	}

	for _, id := range cur.IDs() {
		newIPs, _ := cur.Prefixes(id)
		oldIPs, shared := old.Prefixes(id)
		if !shared {
			if old.Len() > 0 {
				r.AddedServices.Add(id)
			}
			continue
		}

		for ip := range newIPs {
			if !oldIPs.Has(ip) {
				r.Added.Add(Record(id, ip))
			}
		}
		for ip := range oldIPs {
			if !newIPs.Has(ip) {
				r.Removed.Add(Record(id, ip))
			}
		}
	}

	for _, id := range old.IDs() {
		if !cur.Has(id) {
			r.RemovedServices.Add(id)
		}
	}

	log.Debugf("compare: added=%d removed=%d added_services=%d removed_services=%d",
		r.Added.Len(), r.Removed.Len(), r.AddedServices.Len(), r.RemovedServices.Len())

	return r
}

// Documents computes the structural JSON delta between two raw documents.
func Documents(old, cur []byte) (gojsondiff.Diff, error) {
	delta, err := gojsondiff.New().Compare(old, cur)
	if err != nil {
		return nil, fmt.Errorf("failed to compare documents: %w", err)
	}
	log.Debugf("documents modified: %t", delta.Modified())
	return delta, nil
}

// RenderDelta writes an ASCII rendering of delta, relative to the old
// document, to w. An unmodified delta renders as a single line.
func RenderDelta(w io.Writer, old []byte, delta gojsondiff.Diff, coloring bool) error {
	if !delta.Modified() {
		fmt.Fprintln(w, "The documents are identical.")
		return nil
	}

	var jdoc map[string]interface{}
	if err := json.Unmarshal(old, &jdoc); err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       coloring,
	}

	diffString, err := formatter.NewAsciiFormatter(jdoc, config).Format(delta)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, diffString)
	return nil
}
