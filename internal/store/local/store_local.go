// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
)

// DefaultDir is the directory snapshots and change logs live in unless told
// otherwise.
const DefaultDir = "ips_data"

// StoreLocal keeps every document as a file directly beneath Dir.
type StoreLocal struct {
	Dir string
}

type StoreLocalOption = func(ctx context.Context, st *StoreLocal) error

// NewStoreLocal returns a StoreLocal rooted at DefaultDir, relative to the
// working directory, unless an option says otherwise. The directory is created
// on the first Put.
func NewStoreLocal(ctx context.Context, options ...StoreLocalOption) (*StoreLocal, error) {
	options = append([]StoreLocalOption{WithDefaults()}, options...)

	st := &StoreLocal{}
	for _, opt := range options {
		if err := opt(ctx, st); err != nil {
			return nil, err
		}
	}

	return st, nil
}

func WithDefaults() StoreLocalOption {
	return func(ctx context.Context, st *StoreLocal) error {
		cwd, _ := os.Getwd()
		st.Dir = filepath.Join(cwd, DefaultDir)
		return nil
	}
}

// FromDir roots the store at dir. Relative paths resolve against the working
// directory and an empty dir keeps the default.
func FromDir(dir string) StoreLocalOption {
	return func(ctx context.Context, st *StoreLocal) error {
		if dir == "" {
			return nil
		}
		if filepath.IsAbs(dir) {
			st.Dir = dir
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", dir, err)
			}
			st.Dir = filepath.Join(cwd, dir)
		}
		log.Debugf("NewStoreLocal FromDir(): dir = %s", st.Dir)
		return nil
	}
}

// Get reads the named document. A missing file yields an error wrapping
// fs.ErrNotExist.
func (st *StoreLocal) Get(ctx context.Context, name string) ([]byte, error) {
	p, err := st.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	log.Debugf("read %s (%s)", p, humanize.Bytes(uint64(len(data))))

	return data, nil
}

// Put replaces the named document. The data is written to a temporary file in
// the same directory and renamed over the target, so a reader never sees a
// partial document.
func (st *StoreLocal) Put(ctx context.Context, name string, data []byte) (err error) {
	p, err := st.path(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(st.Dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(st.Dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("failed to chmod %s: %w", name, err)
	}
	if err = os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("failed to replace %s: %w", p, err)
	}

	log.Debugf("wrote %s (%s)", p, humanize.Bytes(uint64(len(data))))
	return nil
}

func (st *StoreLocal) String() string {
	return "local:" + st.Dir
}

// path maps a document name to its file, refusing names that would escape Dir.
func (st *StoreLocal) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid document name %q", name)
	}
	return filepath.Join(st.Dir, name), nil
}
