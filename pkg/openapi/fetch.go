package openapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

const (
	cacheFileName = "openapi.yml"
	etagFileName  = "openapi.etag"
)

type fetcher struct {
	url      string
	cacheDir string
	retries  int
	interval time.Duration
	client   *http.Client
	log      logrus.FieldLogger
}

func newFetcher(source string, opts LoadOptions) *fetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	interval := opts.RetryInterval
	if interval <= 0 {
		interval = time.Second
	}
	cacheDir := opts.CacheDir
	if cacheDir == "" {
		cacheDir = ".cache"
	}
	return &fetcher{
		url:      source,
		cacheDir: cacheDir,
		retries:  opts.Retries,
		interval: interval,
		client:   &http.Client{Timeout: timeout},
		log:      opts.Logger.WithField("url", source),
	}
}

type response struct {
	status int
	body   []byte
	etag   string
}

// fetch performs a conditional GET using the cached ETag. A 304 answered
// while the cached body is missing triggers an unconditional refetch.
func (f *fetcher) fetch(ctx context.Context) ([]byte, error) {
	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return nil, errors.Annotatef(err, "failed to create cache directory %s", f.cacheDir)
	}
	specPath := filepath.Join(f.cacheDir, cacheFileName)
	etagPath := filepath.Join(f.cacheDir, etagFileName)

	etag := ""
	if data, err := os.ReadFile(etagPath); err == nil {
		etag = strings.TrimSpace(string(data))
	}

	resp, err := f.get(ctx, etag)
	if err != nil {
		return nil, err
	}
	if resp.status == http.StatusNotModified {
		cached, err := os.ReadFile(specPath)
		if err == nil {
			f.log.Debug("document not modified, using cache")
			return cached, nil
		}
		f.log.WithField("etag", etag).Warn("cache missing after 304, refetching")
		if resp, err = f.get(ctx, ""); err != nil {
			return nil, err
		}
		if resp.status == http.StatusNotModified {
			return nil, errors.Errorf("unexpected 304 fetching %s without a validator", f.url)
		}
	}

	if err := os.WriteFile(specPath, resp.body, 0o644); err != nil {
		return nil, errors.Annotatef(err, "failed to write cache %s", specPath)
	}
	if resp.etag != "" {
		if err := os.WriteFile(etagPath, []byte(resp.etag), 0o644); err != nil {
			return nil, errors.Annotatef(err, "failed to write cache %s", etagPath)
		}
	}
	return resp.body, nil
}

// get issues one GET, retrying transport failures and 5xx answers with
// exponential back-off.
func (f *fetcher) get(ctx context.Context, etag string) (*response, error) {
	bkoff := backoff.NewExponentialBackOff()
	bkoff.InitialInterval = f.interval
	bkoff.Multiplier = 2
	bkoff.MaxInterval = 30 * time.Second
	// WithMaxRetries treats zero as unlimited
	var base backoff.BackOff = &backoff.StopBackOff{}
	if f.retries > 0 {
		base = backoff.WithMaxRetries(bkoff, uint64(f.retries))
	}
	policy := backoff.WithContext(base, ctx)

	var out *response
	op := func() error {
		resp, err := f.do(ctx, etag)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		if resp.status >= 500 {
			return fmt.Errorf("server answered %d", resp.status)
		}
		if resp.status != http.StatusNotModified && (resp.status < 200 || resp.status > 299) {
			return backoff.Permanent(fmt.Errorf("server answered %d", resp.status))
		}
		out = resp
		return nil
	}
	notify := func(err error, wait time.Duration) {
		f.log.WithError(err).WithField("wait", wait).Warn("fetch failed, retrying")
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, errors.Annotatef(err, "failed to fetch document from %s", f.url)
	}
	return out, nil
}

func (f *fetcher) do(ctx context.Context, etag string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &response{
		status: resp.StatusCode,
		body:   body,
		etag:   resp.Header.Get("ETag"),
	}, nil
}
