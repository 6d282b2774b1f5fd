// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantIDs []string
		want    map[string][]string
	}{
		{
			name:    "missing entries field",
			doc:     `{}`,
			wantIDs: []string{},
			want:    map[string][]string{},
		},
		{
			name:    "null entries field",
			doc:     `{"values": null}`,
			wantIDs: []string{},
			want:    map[string][]string{},
		},
		{
			name:    "empty entries",
			doc:     `{"changeNumber": 1, "values": []}`,
			wantIDs: []string{},
			want:    map[string][]string{},
		},
		{
			name: "typical entries",
			doc: `{"values": [
				{"id": "AzureCloud", "properties": {"addressPrefixes": ["10.0.0.0/8", "2603:1000::/40"]}},
				{"id": "Storage", "properties": {"addressPrefixes": ["20.0.0.0/16"]}}
			]}`,
			wantIDs: []string{"AzureCloud", "Storage"},
			want: map[string][]string{
				"AzureCloud": {"10.0.0.0/8", "2603:1000::/40"},
				"Storage":    {"20.0.0.0/16"},
			},
		},
		{
			name: "entry without id is skipped",
			doc: `{"values": [
				{"properties": {"addressPrefixes": ["1.1.1.1/32"]}},
				{"id": null, "properties": {"addressPrefixes": ["2.2.2.2/32"]}},
				{"id": "S1", "properties": {"addressPrefixes": ["3.3.3.3/32"]}}
			]}`,
			wantIDs: []string{"S1"},
			want:    map[string][]string{"S1": {"3.3.3.3/32"}},
		},
		{
			name: "entry without prefixes has empty set",
			doc: `{"values": [
				{"id": "S1"},
				{"id": "S2", "properties": {}},
				{"id": "S3", "properties": {"addressPrefixes": "nope"}}
			]}`,
			wantIDs: []string{"S1", "S2", "S3"},
			want:    map[string][]string{"S1": {}, "S2": {}, "S3": {}},
		},
		{
			name:    "non-object entries are skipped",
			doc:     `{"values": ["S1", 7, null, {"id": "S2"}]}`,
			wantIDs: []string{"S2"},
			want:    map[string][]string{"S2": {}},
		},
		{
			name: "duplicate prefixes collapse",
			doc: `{"values": [
				{"id": "S1", "properties": {"addressPrefixes": ["1.1.1.1", "1.1.1.1", "1.1.1.2"]}}
			]}`,
			wantIDs: []string{"S1"},
			want:    map[string][]string{"S1": {"1.1.1.1", "1.1.1.2"}},
		},
		{
			name: "later duplicate id overwrites earlier",
			doc: `{"values": [
				{"id": "S1", "properties": {"addressPrefixes": ["1.1.1.1"]}},
				{"id": "S2", "properties": {"addressPrefixes": ["2.2.2.2"]}},
				{"id": "S1", "properties": {"addressPrefixes": ["9.9.9.9"]}}
			]}`,
			wantIDs: []string{"S1", "S2"},
			want: map[string][]string{
				"S1": {"9.9.9.9"},
				"S2": {"2.2.2.2"},
			},
		},
		{
			name: "prefixes are opaque strings",
			doc: `{"values": [
				{"id": "S1", "properties": {"addressPrefixes": ["10.0.0.0/8", "010.0.0.0/8", "2603:1000::/40", "2603:1000:0::/40"]}}
			]}`,
			wantIDs: []string{"S1"},
			want:    map[string][]string{"S1": {"10.0.0.0/8", "010.0.0.0/8", "2603:1000::/40", "2603:1000:0::/40"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ds, err := Normalize([]byte(tt.doc), DefaultFields)
			require.NoError(t, err)

			assert.Equal(t, tt.wantIDs, ds.IDs())
			assert.Equal(t, len(tt.want), ds.Len())
			for id, prefixes := range tt.want {
				got, ok := ds.Prefixes(id)
				require.True(t, ok, "missing id %s", id)
				assert.ElementsMatch(t, prefixes, got.Sorted())
			}
		})
	}
}

func TestNormalize_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"not json", "<html>maintenance</html>"},
		{"truncated", `{"values": [{"id": "S1"`},
		{"top level array", `[{"id": "S1"}]`},
		{"top level scalar", `42`},
		{"entries not an array", `{"values": {"id": "S1"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ds, err := Normalize([]byte(tt.doc), DefaultFields)
			assert.Nil(t, ds)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput))
		})
	}
}

func TestNormalize_CustomFields(t *testing.T) {
	t.Parallel()

	doc := `{"services": [
		{"name": "svc-a", "ranges": {"v4": ["192.0.2.0/24"]}},
		{"id": "ignored", "ranges": {"v4": ["198.51.100.0/24"]}}
	]}`

	ds, err := Normalize([]byte(doc), Fields{Entries: "services", ID: "name", Prefixes: "ranges.v4"})
	require.NoError(t, err)

	assert.Equal(t, []string{"svc-a"}, ds.IDs())
	p, ok := ds.Prefixes("svc-a")
	require.True(t, ok)
	assert.Equal(t, []string{"192.0.2.0/24"}, p.Sorted())
}

func TestNew(t *testing.T) {
	t.Parallel()

	ds := New(map[string][]string{
		"b": {"2.2.2.2", "2.2.2.2"},
		"a": nil,
	})

	assert.Equal(t, []string{"a", "b"}, ds.IDs())
	assert.True(t, ds.Has("a"))
	assert.False(t, ds.Has("c"))

	p, ok := ds.Prefixes("b")
	require.True(t, ok)
	assert.Equal(t, 1, p.Len())
}

func TestPrefixes_Copy(t *testing.T) {
	t.Parallel()

	ds := New(map[string][]string{"a": {"1.1.1.1"}})

	p, ok := ds.Prefixes("a")
	require.True(t, ok)
	p.Add("z")

	again, ok := ds.Prefixes("a")
	require.True(t, ok)
	assert.Equal(t, []string{"1.1.1.1"}, again.Sorted())
}

func TestNilDataset(t *testing.T) {
	t.Parallel()

	var ds *Dataset
	assert.Equal(t, 0, ds.Len())
	assert.Nil(t, ds.IDs())
	assert.False(t, ds.Has("x"))
	_, ok := ds.Prefixes("x")
	assert.False(t, ok)
}

func TestSet(t *testing.T) {
	t.Parallel()

	s := NewSet("b", "a", "b")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))
	assert.Equal(t, []string{"a", "b"}, s.Sorted())

	c := s.Clone()
	c.Add("c")
	assert.False(t, s.Has("c"))
	assert.Equal(t, 3, c.Len())

	var nilSet Set
	assert.False(t, nilSet.Has("a"))
	assert.Empty(t, nilSet.Sorted())
	assert.Equal(t, 0, nilSet.Clone().Len())
}

func TestSelect(t *testing.T) {
	t.Parallel()

	ds, err := Normalize([]byte(`{"values": [
		{"id": "Storage", "properties": {"addressPrefixes": ["10.0.0.0/8", "20.0.0.0/8"]}},
		{"id": "AzureCloud", "properties": {"addressPrefixes": ["30.0.0.0/8"]}},
		{"id": "Sql", "properties": {"addressPrefixes": []}}
	]}`), DefaultFields)
	require.NoError(t, err)

	all := ds.Select(nil, nil)
	assert.Equal(t, ds.IDs(), all.IDs())

	got := ds.Select(
		func(id string) bool { return id != "Sql" },
		func(_, p string) bool { return p != "20.0.0.0/8" },
	)
	assert.Equal(t, []string{"Storage", "AzureCloud"}, got.IDs())
	p, ok := got.Prefixes("Storage")
	require.True(t, ok)
	assert.Equal(t, []string{"10.0.0.0/8"}, p.Sorted())

	var none *Dataset
	assert.Equal(t, 0, none.Select(nil, nil).Len())
}
