// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/tagwatch/internal/store/local"
	"github.com/tfctl/tagwatch/internal/store/s3"
)

// Store holds named documents. Get of a missing name returns an error wrapping
// fs.ErrNotExist.
type Store interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte) error
	String() string
}

// IsNotFound reports whether err means the named document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// New returns the Store selected by the --store flag, configured from the
// remaining store flags.
func New(ctx context.Context, cmd *cli.Command) (Store, error) {
	typ := cmd.String("store")
	log.Debugf("NewStore: type=%s", typ)

	switch typ {
	case "", "local":
		return local.NewStoreLocal(ctx,
			local.FromDir(cmd.String("dir")),
		)
	case "s3":
		return s3.NewStoreS3(ctx,
			s3.WithBucket(cmd.String("bucket")),
			s3.WithPrefix(cmd.String("prefix")),
			s3.WithRegion(cmd.String("region")),
			s3.WithProfile(cmd.String("profile")),
			s3.WithEndpoint(cmd.String("endpoint")),
			s3.WithMaxAttempts(cmd.Int("max-attempts")),
		)
	default:
		return nil, fmt.Errorf("unknown store type %s", typ)
	}
}
