// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
)

// ErrMalformedInput is wrapped by every error caused by a document that cannot
// be read as a structured JSON object.
var ErrMalformedInput = errors.New("malformed input document")

// Fields locates the parts of a document Normalize reads. Each field is a gjson
// path. Entries is relative to the document root, ID and Prefixes are relative
// to a single entry.
type Fields struct {
	Entries  string
	ID       string
	Prefixes string
}

// DefaultFields matches the Azure ServiceTags_Public document.
var DefaultFields = Fields{
	Entries:  "values",
	ID:       "id",
	Prefixes: "properties.addressPrefixes",
}

// Dataset is one point-in-time snapshot of service identifiers and their
// IP-prefix sets. It is not modified after Normalize or New returns it.
type Dataset struct {
	ids     []string
	entries map[string]Set
}

// New builds a Dataset from already decoded entries. Identifiers are ordered
// lexically.
func New(entries map[string][]string) *Dataset {
	ds := empty()

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		ds.put(id, NewSet(entries[id]...))
	}
	return ds
}

// Normalize parses doc and collects, for every entry of the Entries array, the
// identifier and its prefix set.
//
// A missing or null Entries field yields an empty Dataset. Entries that are
// not objects or lack an identifier are skipped, and an entry without a prefix
// array gets an empty set. When an identifier repeats, the later entry's
// prefixes replace the earlier ones.
func Normalize(doc []byte, f Fields) (*Dataset, error) {
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrMalformedInput)
	}

	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformedInput)
	}

	ds := empty()

	values := root.Get(f.Entries)
	if !values.Exists() || values.Type == gjson.Null {
		log.Debugf("no %q field, empty dataset", f.Entries)
		return ds, nil
	}
	if !values.IsArray() {
		return nil, fmt.Errorf("%w: %q is not an array", ErrMalformedInput, f.Entries)
	}

	skipped := 0
	values.ForEach(func(_, entry gjson.Result) bool {
		if !entry.IsObject() {
			skipped++
			return true
		}

		id := entry.Get(f.ID)
		if !id.Exists() || id.Type == gjson.Null {
			skipped++
			return true
		}

		prefixes := Set{}
		if list := entry.Get(f.Prefixes); list.IsArray() {
			for _, p := range list.Array() {
				prefixes.Add(p.String())
			}
		}

		ds.put(id.String(), prefixes)
		return true
	})

	log.Debugf("normalized %d entries, skipped %d", ds.Len(), skipped)

	return ds, nil
}

// IDs returns the identifiers in the order they first appeared.
func (ds *Dataset) IDs() []string {
	if ds == nil {
		return nil
	}
	out := make([]string, len(ds.ids))
	copy(out, ds.ids)
	return out
}

// Len returns the number of identifiers.
func (ds *Dataset) Len() int {
	if ds == nil {
		return 0
	}
	return len(ds.ids)
}

// Has reports whether id is present.
func (ds *Dataset) Has(id string) bool {
	if ds == nil {
		return false
	}
	_, ok := ds.entries[id]
	return ok
}

// Prefixes returns a copy of the prefix set for id.
func (ds *Dataset) Prefixes(id string) (Set, bool) {
	if ds == nil {
		return nil, false
	}
	s, ok := ds.entries[id]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

func empty() *Dataset {
	return &Dataset{entries: map[string]Set{}}
}

// put records id, keeping the position of its first appearance.
func (ds *Dataset) put(id string, prefixes Set) {
	if _, ok := ds.entries[id]; !ok {
		ds.ids = append(ds.ids, id)
	}
	ds.entries[id] = prefixes
}

// Select returns a new Dataset holding the identifiers keepID accepts, each
// with the prefixes keepPrefix accepts. Identifier order is preserved. A nil
// predicate accepts everything.
func (ds *Dataset) Select(keepID func(id string) bool, keepPrefix func(id, prefix string) bool) *Dataset {
	out := empty()
	for _, id := range ds.IDs() {
		if keepID != nil && !keepID(id) {
			continue
		}
		prefixes := Set{}
		for p := range ds.entries[id] {
			if keepPrefix == nil || keepPrefix(id, p) {
				prefixes.Add(p)
			}
		}
		out.put(id, prefixes)
	}
	return out
}
