// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tracker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/tagwatch/internal/dataset"
	"github.com/tfctl/tagwatch/internal/filters"
)

type memStore struct {
	docs    map[string][]byte
	puts    []string
	failPut string
	failGet error
}

func newMemStore() *memStore {
	return &memStore{docs: map[string][]byte{}}
}

func (m *memStore) Get(_ context.Context, name string) ([]byte, error) {
	if m.failGet != nil {
		return nil, m.failGet
	}
	d, ok := m.docs[name]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", name, fs.ErrNotExist)
	}
	return d, nil
}

func (m *memStore) Put(_ context.Context, name string, data []byte) error {
	if name == m.failPut {
		return errors.New("disk full")
	}
	m.puts = append(m.puts, name)
	m.docs[name] = data
	return nil
}

func (m *memStore) String() string { return "mem" }

type staticFetcher struct {
	doc []byte
	err error
}

func (f staticFetcher) Fetch(context.Context, string) ([]byte, error) {
	return f.doc, f.err
}

var runAt = time.Date(2024, 8, 26, 23, 30, 0, 0, time.FixedZone("X", -3*3600))

func options(st *memStore, doc string) (Options, *bytes.Buffer) {
	var stdout bytes.Buffer
	return Options{
		Fetcher: staticFetcher{doc: []byte(doc)},
		Store:   st,
		URL:     "https://example.com/tags.json",
		Now:     func() time.Time { return runAt },
		Stdout:  &stdout,
	}, &stdout
}

const (
	v1 = `{"values": [{"id": "S1", "properties": {"addressPrefixes": ["10.0.0.0/8", "10.2.0.0/16"]}}]}`
	v2 = `{"values": [{"id": "S1", "properties": {"addressPrefixes": ["10.0.0.0/8", "10.1.0.0/16"]}}, {"id": "S2", "properties": {"addressPrefixes": ["2.2.2.2"]}}]}`
)

func TestChangeLogName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "change_log_20240827.txt", ChangeLogName(runAt))
}

func TestRun_Bootstrap(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	opts, stdout := options(st, v1)

	out, err := Run(context.Background(), opts)

	require.NoError(t, err)
	assert.True(t, out.Bootstrap)
	assert.True(t, out.Result.Empty())
	assert.Equal(t, BootstrapMessage+"\n", stdout.String())
	assert.Equal(t, "No changes detected.\n", string(st.docs["change_log_20240827.txt"]))
	assert.Equal(t, v1, string(st.docs[PreviousSlot]))
	assert.Equal(t, v1, string(st.docs[CurrentSlot]))
	assert.Equal(t, []string{CurrentSlot, "change_log_20240827.txt", PreviousSlot}, st.puts)
}

func TestRun_Changes(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	st.docs[PreviousSlot] = []byte(v1)
	opts, stdout := options(st, v2)
	opts.Services = true

	out, err := Run(context.Background(), opts)

	require.NoError(t, err)
	assert.False(t, out.Bootstrap)
	assert.Empty(t, stdout.String())
	assert.Equal(t, len(v1), out.PreviousSize)
	assert.Equal(t, len(v2), out.CurrentSize)
	assert.Equal(t,
		"Added IPs:\nS1: 10.1.0.0/16\nRemoved IPs:\nS1: 10.2.0.0/16\nAdded services:\nS2\n",
		string(st.docs[out.ChangeLog]))
	assert.Equal(t, v2, string(st.docs[PreviousSlot]))

	// A second run over the same document finds nothing.
	out, err = Run(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, out.Result.Empty())
	assert.Equal(t, "No changes detected.\n", string(st.docs[out.ChangeLog]))
}

func TestRun_CustomFields(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	st.docs[PreviousSlot] = []byte(`{"prefixes": [{"service": "EC2", "ip_prefix": ["3.0.0.0/15"]}]}`)
	opts, _ := options(st, `{"prefixes": [{"service": "EC2", "ip_prefix": ["3.2.0.0/15"]}]}`)
	opts.Fields = dataset.Fields{Entries: "prefixes", ID: "service", Prefixes: "ip_prefix"}

	out, err := Run(context.Background(), opts)

	require.NoError(t, err)
	assert.Equal(t, []string{"EC2: 3.2.0.0/15"}, out.Result.Added.Sorted())
	assert.Equal(t, []string{"EC2: 3.0.0.0/15"}, out.Result.Removed.Sorted())
}

func TestRun_Filters(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	st.docs[PreviousSlot] = []byte(v1)
	opts, _ := options(st, v2)
	opts.Services = true
	flt, err := filters.BuildFilters("id=S1,net!=10.2.0.0/16")
	require.NoError(t, err)
	opts.Filters = flt

	out, err := Run(context.Background(), opts)

	require.NoError(t, err)
	assert.Equal(t, []string{"S1: 10.1.0.0/16"}, out.Result.Added.Sorted())
	assert.Empty(t, out.Result.Removed.Sorted())
	assert.Equal(t, 0, out.Result.AddedServices.Len())
	assert.Equal(t, v2, string(st.docs[PreviousSlot]))
}

func TestRun_Failures(t *testing.T) {
	t.Parallel()

	t.Run("fetch", func(t *testing.T) {
		t.Parallel()
		st := newMemStore()
		opts, _ := options(st, v1)
		opts.Fetcher = staticFetcher{err: errors.New("connection refused")}

		_, err := Run(context.Background(), opts)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Empty(t, st.puts)
	})

	t.Run("malformed current", func(t *testing.T) {
		t.Parallel()
		st := newMemStore()
		st.docs[PreviousSlot] = []byte(v1)
		opts, _ := options(st, `<html>`)

		_, err := Run(context.Background(), opts)

		require.ErrorIs(t, err, dataset.ErrMalformedInput)
		assert.Contains(t, err.Error(), CurrentSlot)
		assert.Equal(t, v1, string(st.docs[PreviousSlot]))
	})

	t.Run("malformed previous", func(t *testing.T) {
		t.Parallel()
		st := newMemStore()
		st.docs[PreviousSlot] = []byte(`[1, 2]`)
		opts, _ := options(st, v1)

		_, err := Run(context.Background(), opts)

		require.ErrorIs(t, err, dataset.ErrMalformedInput)
		assert.Contains(t, err.Error(), PreviousSlot)
	})

	t.Run("store read", func(t *testing.T) {
		t.Parallel()
		st := newMemStore()
		st.failGet = errors.New("access denied")
		opts, _ := options(st, v1)

		_, err := Run(context.Background(), opts)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "access denied")
	})

	t.Run("change log write", func(t *testing.T) {
		t.Parallel()
		st := newMemStore()
		st.docs[PreviousSlot] = []byte(v1)
		st.failPut = "change_log_20240827.txt"
		opts, _ := options(st, v2)

		_, err := Run(context.Background(), opts)

		require.Error(t, err)
		assert.Equal(t, v1, string(st.docs[PreviousSlot]))
	})

	t.Run("missing collaborators", func(t *testing.T) {
		t.Parallel()
		_, err := Run(context.Background(), Options{})
		assert.Error(t, err)
	})
}
