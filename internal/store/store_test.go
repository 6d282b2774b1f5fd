// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/tagwatch/internal/store/local"
)

// runWith parses args against a command carrying the store flags and returns
// what New built.
func runWith(t *testing.T, args ...string) (Store, error) {
	t.Helper()

	var (
		st     Store
		newErr error
	)
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "store", Value: "local"},
			&cli.StringFlag{Name: "dir"},
			&cli.StringFlag{Name: "bucket"},
			&cli.StringFlag{Name: "prefix"},
			&cli.StringFlag{Name: "region"},
			&cli.StringFlag{Name: "profile"},
			&cli.StringFlag{Name: "endpoint"},
			&cli.IntFlag{Name: "max-attempts"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			st, newErr = New(ctx, cmd)
			return nil
		},
	}

	require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
	return st, newErr
}

func TestNew_Local(t *testing.T) {
	dir := t.TempDir()

	st, err := runWith(t, "--dir", dir)
	require.NoError(t, err)

	l, ok := st.(*local.StoreLocal)
	require.True(t, ok)
	assert.Equal(t, dir, l.Dir)
}

func TestNew_S3RequiresBucket(t *testing.T) {
	_, err := runWith(t, "--store", "s3")
	assert.Error(t, err)
}

func TestNew_Unknown(t *testing.T) {
	_, err := runWith(t, "--store", "ftp")
	assert.ErrorContains(t, err, "unknown store type ftp")
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fs.ErrNotExist))
	assert.True(t, IsNotFound(fmt.Errorf("s3://b/k: %w", fs.ErrNotExist)))
	assert.False(t, IsNotFound(errors.New("boom")))
	assert.False(t, IsNotFound(nil))

	st, err := runWith(t, "--dir", filepath.Join(t.TempDir(), "empty"))
	require.NoError(t, err)
	_, err = st.Get(context.Background(), "old_ips.json")
	assert.True(t, IsNotFound(err))
}
