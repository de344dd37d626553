// Package fetch implements the conditional remote fetcher described in
// spec.md §4.3: ETag/Last-Modified/Content-Length short-circuits, streamed
// download to a cache file, and sidecar bookkeeping.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/sylv/hubble/internal/httpclient"
	"github.com/sylv/hubble/internal/safeurl"
	"github.com/sylv/hubble/internal/sync/filemeta"
)

// ErrFetch wraps any network or status-code failure from Fetch — the
// FetchTransport/FetchContent error kinds of spec.md §7 collapse to this
// single sentinel since both fail the feed task identically.
var ErrFetch = errors.New("fetch: request failed")

// hostLimiter spaces out the start of a sweep's four concurrent feed
// requests to datasets.imdbws.com: at most one request begins every 200ms.
// It does not limit how many downloads are in progress at once.
var hostLimiter = rate.NewLimiter(rate.Every(200*time.Millisecond), 1)

// Fetch issues a conditional GET against url using the caching headers in
// meta, and streams a 200 response to destPath. It mutates meta in place and
// returns changed=true only when a new body was written to destPath; a 304
// and the byte-identical Content-Length short-circuit both return
// changed=false.
//
// meta.Save is NOT called here; the caller persists the sidecar.
func Fetch(ctx context.Context, client *http.Client, url string, meta *filemeta.Meta, destPath string) (changed bool, err error) {
	if client == nil {
		client = httpclient.Default()
	}
	if !safeurl.IsHTTPOrHTTPS(url) {
		return false, fmt.Errorf("%w: %s: refusing non-http(s) scheme", ErrFetch, url)
	}
	if err := hostLimiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("%w: rate limiter: %w", ErrFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("%w: build request: %w", ErrFetch, err)
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	// datasets.imdbws.com occasionally answers with a transient 429/5xx under
	// load; retry once (DefaultRetryPolicy) before failing the whole feed task.
	resp, err := httpclient.DoWithRetry(ctx, client, req, httpclient.DefaultRetryPolicy)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		return false, nil

	case http.StatusOK:
		return handleOK(resp, meta, destPath)

	default:
		return false, fmt.Errorf("%w: %s: unexpected status %d", ErrFetch, url, resp.StatusCode)
	}
}

func handleOK(resp *http.Response, meta *filemeta.Meta, destPath string) (bool, error) {
	meta.ETag = resp.Header.Get("ETag")
	meta.LastModified = resp.Header.Get("Last-Modified")

	if info, statErr := os.Stat(destPath); statErr == nil {
		if cl := resp.Header.Get("Content-Length"); cl != "" {
			if n, convErr := strconv.ParseInt(cl, 10, 64); convErr == nil && n == info.Size() {
				// Byte-identical short-circuit: the upstream sent 200 but
				// the body we'd receive matches what's already on disk.
				// imported_at is left untouched (spec.md §4.3 step 3b).
				return false, nil
			}
		}
	}

	tmp, err := os.CreateTemp(dirOf(destPath), ".fetch-*.tmp")
	if err != nil {
		return false, fmt.Errorf("%w: create temp: %w", ErrFetch, err)
	}
	tmpName := tmp.Name()
	_, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmpName)
		if copyErr != nil {
			return false, fmt.Errorf("%w: read body: %w", ErrFetch, copyErr)
		}
		return false, fmt.Errorf("%w: close temp: %w", ErrFetch, closeErr)
	}
	if err := os.Rename(tmpName, destPath); err != nil {
		os.Remove(tmpName)
		return false, fmt.Errorf("%w: rename into place: %w", ErrFetch, err)
	}

	meta.ClearImported()
	return true, nil
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
