// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"context"
	"fmt"
	"strings"
)

type StoreS3Option = func(ctx context.Context, st *StoreS3) error

func WithBucket(bucket string) StoreS3Option {
	return func(ctx context.Context, st *StoreS3) error {
		st.Bucket = bucket
		return nil
	}
}

// WithPrefix sets the key prefix. Leading and trailing slashes are dropped.
func WithPrefix(prefix string) StoreS3Option {
	return func(ctx context.Context, st *StoreS3) error {
		st.Prefix = strings.Trim(prefix, "/")
		return nil
	}
}

func WithRegion(region string) StoreS3Option {
	return func(ctx context.Context, st *StoreS3) error {
		st.Region = region
		return nil
	}
}

func WithProfile(profile string) StoreS3Option {
	return func(ctx context.Context, st *StoreS3) error {
		st.Profile = profile
		return nil
	}
}

// WithEndpoint targets an S3-compatible service instead of AWS.
func WithEndpoint(endpoint string) StoreS3Option {
	return func(ctx context.Context, st *StoreS3) error {
		st.Endpoint = endpoint
		return nil
	}
}

// WithMaxAttempts caps the attempts per S3 request, first try included.
func WithMaxAttempts(n int) StoreS3Option {
	return func(ctx context.Context, st *StoreS3) error {
		if n < 0 {
			return fmt.Errorf("max attempts must not be negative, got %d", n)
		}
		st.MaxAttempts = n
		return nil
	}
}

// WithClient injects the S3 API implementation, skipping AWS config loading.
func WithClient(client API) StoreS3Option {
	return func(ctx context.Context, st *StoreS3) error {
		st.client = client
		return nil
	}
}
