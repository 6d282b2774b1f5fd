// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreLocal_Default(t *testing.T) {
	st, err := NewStoreLocal(context.Background())
	require.NoError(t, err)

	cwd, _ := os.Getwd()
	assert.Equal(t, filepath.Join(cwd, DefaultDir), st.Dir)
	assert.Equal(t, "local:"+st.Dir, st.String())
}

func TestFromDir(t *testing.T) {
	cwd, _ := os.Getwd()
	abs := t.TempDir()

	tests := []struct {
		name string
		dir  string
		want string
	}{
		{"absolute", abs, abs},
		{"relative", "snapshots", filepath.Join(cwd, "snapshots")},
		{"empty keeps default", "", filepath.Join(cwd, DefaultDir)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := NewStoreLocal(context.Background(), FromDir(tt.dir))
			require.NoError(t, err)
			assert.Equal(t, tt.want, st.Dir)
		})
	}
}

func TestGet_Missing(t *testing.T) {
	st, err := NewStoreLocal(context.Background(), FromDir(t.TempDir()))
	require.NoError(t, err)

	_, err = st.Get(context.Background(), "old_ips.json")

	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestPutGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ips_data")
	st, err := NewStoreLocal(context.Background(), FromDir(dir))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, "new_ips.json", []byte(`{"values": []}`)))
	got, err := st.Get(ctx, "new_ips.json")
	require.NoError(t, err)
	assert.Equal(t, `{"values": []}`, string(got))

	require.NoError(t, st.Put(ctx, "new_ips.json", []byte(`{}`)))
	got, err = st.Get(ctx, "new_ips.json")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))

	info, err := os.Stat(filepath.Join(dir, "new_ips.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestInvalidNames(t *testing.T) {
	st, err := NewStoreLocal(context.Background(), FromDir(t.TempDir()))
	require.NoError(t, err)
	ctx := context.Background()

	for _, name := range []string{"", ".", "..", "../escape.json", "nested/file.json"} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, st.Put(ctx, name, []byte("{}")))
			_, err := st.Get(ctx, name)
			assert.Error(t, err)
		})
	}
}

func TestPut_UnwritableDir(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	st, err := NewStoreLocal(context.Background(), FromDir(filepath.Join(blocker, "sub")))
	require.NoError(t, err)

	assert.Error(t, st.Put(context.Background(), "old_ips.json", []byte("{}")))
}
