// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package client holds the HTTP base shared by all protocol clients. It
// applies query parameters and accept headers, issues a single blocking
// attempt per call, and classifies responses by status family.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/lodkit/lodkit/internal/common"

	log "github.com/sirupsen/logrus"
)

// Client wraps one target URI. All verb helpers share the target and the
// registered filters; filter registration is append-only.
type Client struct {
	target     string
	http       *http.Client
	mediaTypes MediaTypes
	filters    []RequestFilter
}

// New builds a client for the given target. The target URI must be
// non-empty and the http client non-nil.
func New(target string, httpClient *http.Client, mediaTypes MediaTypes) (*Client, error) {
	if target == "" {
		return nil, fmt.Errorf("target URI cannot be empty")
	}
	if httpClient == nil {
		return nil, fmt.Errorf("http client cannot be nil")
	}
	return &Client{
		target:     target,
		http:       httpClient,
		mediaTypes: mediaTypes,
	}, nil
}

// Register appends a request filter and returns the client for chaining.
func (c *Client) Register(f RequestFilter) *Client {
	if f != nil {
		c.filters = append(c.filters, f)
	}
	return c
}

func (c *Client) Target() string {
	return c.target
}

func (c *Client) MediaTypes() MediaTypes {
	return c.mediaTypes
}

// unreserved reports whether b needs no percent-encoding under the
// unreserved rule of RFC 3986.
func unreserved(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '-' || b == '.' || b == '_' || b == '~':
		return true
	}
	return false
}

// EncodeUnreserved percent-encodes every byte outside the unreserved set.
// Encoding is idempotent for values already inside that set.
func EncodeUnreserved(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if unreserved(s[i]) {
			b.WriteByte(s[i])
		} else {
			fmt.Fprintf(&b, "%%%02X", s[i])
		}
	}
	return b.String()
}

// applyParams appends the given parameters to the target URI, encoding key
// and value under the unreserved rule.
func (c *Client) applyParams(params url.Values) string {
	if len(params) == 0 {
		return c.target
	}

	var pairs []string
	for key, values := range params {
		for _, value := range values {
			pairs = append(pairs, EncodeUnreserved(key)+"="+EncodeUnreserved(value))
		}
	}

	separator := "?"
	if strings.Contains(c.target, "?") {
		separator = "&"
	}
	return c.target + separator + strings.Join(pairs, "&")
}

// do issues the request and checks the status family. Responses outside the
// successful family surface as a StatusError carrying the full response.
func (c *Client) do(req *http.Request, accepted []string) (*http.Response, error) {
	if len(accepted) > 0 {
		req.Header.Set("Accept", strings.Join(accepted, ", "))
	}
	req.Header.Set("User-Agent", common.UserAgent)

	for _, f := range c.filters {
		if err := f.Filter(req); err != nil {
			return nil, fmt.Errorf("request filter failed on %s %s: %w", req.Method, req.URL, err)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if !IsSuccessful(resp.StatusCode) {
		return nil, &StatusError{Method: req.Method, URL: req.URL.String(), Response: resp}
	}
	return resp, nil
}

// Head issues a HEAD request. Failures are logged before the error is
// returned, so probe misses show up in the log even when the caller
// swallows the error.
func (c *Client) Head(ctx context.Context, accepted []string, params url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.applyParams(params), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req, accepted)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			log.Errorf("HEAD %s unsuccessful. Reason: %s", c.target, se.Response.Status)
		}
		return nil, err
	}
	return resp, nil
}

func (c *Client) Get(ctx context.Context, accepted []string, params url.Values) (*http.Response, error) {
	log.Debugf("GET %s", c.target)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.applyParams(params), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, accepted)
}

func (c *Client) Post(ctx context.Context, body io.Reader, contentType string, accepted []string, params url.Values) (*http.Response, error) {
	log.Debugf("POST %s", c.target)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.applyParams(params), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, accepted)
}

func (c *Client) Put(ctx context.Context, body io.Reader, contentType string, accepted []string, params url.Values) (*http.Response, error) {
	log.Debugf("PUT %s", c.target)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.applyParams(params), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, accepted)
}

func (c *Client) Delete(ctx context.Context, accepted []string, params url.Values) (*http.Response, error) {
	log.Debugf("DELETE %s", c.target)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.applyParams(params), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, accepted)
}
