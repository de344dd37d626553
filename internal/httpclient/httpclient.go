// Package httpclient provides the shared HTTP client and retry policy used
// by the conditional fetcher (C3) against datasets.imdbws.com.
package httpclient

import (
	"net/http"
	"time"
)

// Default returns an HTTP client suited to downloading multi-hundred-MB
// dataset dumps: no overall request timeout (the body may legitimately take
// minutes to stream), but a ResponseHeaderTimeout so a dead upstream is
// detected quickly rather than hanging the whole sweep.
func Default() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			ResponseHeaderTimeout: 15 * time.Second,
			ExpectContinueTimeout: 5 * time.Second,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}
