// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dustin/go-humanize"

	awsx "github.com/tfctl/tagwatch/internal/aws"
)

// API is the subset of the S3 client the store uses.
type API interface {
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

// StoreS3 keeps every document as an object under Prefix in Bucket.
// MaxAttempts caps the tries per request, zero keeps the SDK default.
type StoreS3 struct {
	Bucket      string
	Prefix      string
	Region      string
	Profile     string
	Endpoint    string
	MaxAttempts int
	client      API
}

// NewStoreS3 applies options and, unless WithClient supplied one, builds an S3
// client from the shell's AWS configuration.
func NewStoreS3(ctx context.Context, options ...StoreS3Option) (*StoreS3, error) {
	st := &StoreS3{}

	for _, opt := range options {
		if err := opt(ctx, st); err != nil {
			return nil, err
		}
	}

	if st.Bucket == "" {
		return nil, errors.New("s3 store requires a bucket")
	}

	if st.client == nil {
		var cfgOpts []awsx.Option
		if st.Region != "" {
			cfgOpts = append(cfgOpts, awsx.WithRegion(st.Region))
		}
		if st.Profile != "" {
			cfgOpts = append(cfgOpts, awsx.WithProfile(st.Profile))
		}
		cfgOpts = append(cfgOpts, awsx.WithRetryer(st.retryer))
		cfg, err := awsx.LoadAWSConfig(ctx, cfgOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		var s3Opts []func(*s3v2.Options)
		if st.Endpoint != "" {
			s3Opts = append(s3Opts, awsx.WithS3Endpoint(st.Endpoint), awsx.WithChecksumWhenRequired())
		}
		st.client = awsx.NewS3(cfg, s3Opts...)
	}

	log.Debugf("NewStoreS3: %s", st)
	return st, nil
}

// Get downloads the named object. NoSuchKey yields an error wrapping
// fs.ErrNotExist.
func (st *StoreS3) Get(ctx context.Context, name string) ([]byte, error) {
	key := st.key(name)

	result, err := st.client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(st.Bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("s3://%s/%s: %w", st.Bucket, key, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to get S3 object %s: %w", key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}
	log.Debugf("read s3://%s/%s (%s)", st.Bucket, key, humanize.Bytes(uint64(len(data))))

	return data, nil
}

// Put uploads data as the named object, replacing any previous version.
func (st *StoreS3) Put(ctx context.Context, name string, data []byte) error {
	key := st.key(name)

	_, err := st.client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:        awsv2.String(st.Bucket),
		Key:           awsv2.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: awsv2.Int64(int64(len(data))),
		ContentType:   awsv2.String(contentType(name)),
	})
	if err != nil {
		return fmt.Errorf("failed to put S3 object %s: %w", key, err)
	}
	log.Debugf("wrote s3://%s/%s (%s)", st.Bucket, key, humanize.Bytes(uint64(len(data))))

	return nil
}

func (st *StoreS3) String() string {
	return "s3://" + path.Join(st.Bucket, st.Prefix)
}

// retryer returns the SDK standard retryer with MaxAttempts applied.
func (st *StoreS3) retryer() awsv2.Retryer {
	return retry.NewStandard(func(o *retry.StandardOptions) {
		if st.MaxAttempts > 0 {
			o.MaxAttempts = st.MaxAttempts
		}
	})
}

func (st *StoreS3) key(name string) string {
	return path.Join(st.Prefix, name)
}

func contentType(name string) string {
	switch {
	case strings.HasSuffix(name, ".json"):
		return "application/json"
	case strings.HasSuffix(name, ".txt"):
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
