// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/tfctl/tagwatch/internal/cacheutil"
	"github.com/tfctl/tagwatch/internal/version"
)

// DefaultURL is the Azure public-cloud service tag download the tool tracks
// unless configured otherwise.
const DefaultURL = "https://download.microsoft.com/download/7/1/D/71D86715-5596-4529-9B13-DA13A5DE5B63/ServiceTags_Public_20240826.json"

// cacheSubdir groups fetched documents inside the cache directory.
var cacheSubdir = []string{"documents"}

// Client fetches documents. The zero value is not usable, use New.
type Client struct {
	http     *http.Client
	useCache bool
	cacheTTL time.Duration
}

type Option func(*Client)

// New returns a Client backed by a cleanhttp client, which shares no global
// state with http.DefaultClient.
func New(opts ...Option) *Client {
	c := &Client{http: cleanhttp.DefaultClient()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithCache turns on the read-through document cache for http(s) sources.
// Service tag downloads are published under dated URLs, so a URL's content
// does not change.
func WithCache(enabled bool) Option {
	return func(c *Client) { c.useCache = enabled }
}

// WithCacheTTL bounds the age of a cached document. Older entries are
// downloaded again. Zero or less keeps entries forever.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cacheTTL = ttl }
}

// Fetch returns the full document at source. Sources with an http or https
// scheme are downloaded, file:// URLs and bare paths are read from disk.
func (c *Client) Fetch(ctx context.Context, source string) ([]byte, error) {
	if source == "" {
		return nil, fmt.Errorf("no source URL configured")
	}

	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("invalid source %q: %w", source, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return c.download(ctx, source)
	case "file":
		return readFile(u.Path)
	case "":
		return readFile(source)
	default:
		return nil, fmt.Errorf("unsupported source scheme %q", u.Scheme)
	}
}

func (c *Client) download(ctx context.Context, source string) ([]byte, error) {
	if c.useCache {
		if entry, ok := cacheutil.ReadFresh(cacheSubdir, source, c.cacheTTL); ok {
			log.Debugf("fetch: %s served from cache (%s)", source, humanize.Bytes(uint64(len(entry.Data))))
			return entry.Data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tagwatch/"+version.Version)

	log.Debugf("fetch: GET %s", source)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status: %s", source, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", source, err)
	}
	log.Debugf("fetch: received %s", humanize.Bytes(uint64(len(data))))

	if c.useCache {
		if err := cacheutil.Write(cacheSubdir, source, data); err != nil {
			log.WithError(err).Warn("error writing to cache")
		}
	}

	return data, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	log.Debugf("fetch: read %s (%s)", path, humanize.Bytes(uint64(len(data))))
	return data, nil
}
