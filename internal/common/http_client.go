// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

const UserAgent = "lodkit"

// MockResponse is the canned reply the mock transport returns for one URL.
type MockResponse struct {
	Body        string
	StatusCode  int
	ContentType string
	// If true, the request fails as if it had timed out
	Timeout bool
}

// MockTransport serves canned responses keyed by full request URL.
type MockTransport struct {
	// Deny requests that are not mocked
	denyReqNotMocked bool
	transport        http.RoundTripper
	urlToResponse    map[string]MockResponse
}

func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	fullURL := req.URL.String()

	if mock, ok := m.urlToResponse[fullURL]; ok {
		if mock.Timeout {
			return nil, &MaxRetryError{Err: fmt.Errorf("mocked a timeout for %s", fullURL)}
		}
		header := http.Header{}
		if mock.ContentType != "" {
			header.Set("Content-Type", mock.ContentType)
		}
		return &http.Response{
			StatusCode: mock.StatusCode,
			Status:     fmt.Sprintf("%d %s", mock.StatusCode, http.StatusText(mock.StatusCode)),
			Body:       io.NopCloser(strings.NewReader(mock.Body)),
			Header:     header,
			Request:    req,
		}, nil
	}
	if m.denyReqNotMocked {
		return nil, fmt.Errorf("request not mocked: %s", fullURL)
	}
	return m.transport.RoundTrip(req)
}

// NewMockedClient returns an http client with mocked responses.
// If strictMode is true, all requests that are not mocked return an error.
func NewMockedClient(strictMode bool, urlToMock map[string]MockResponse) *http.Client {
	transport := &MockTransport{
		transport:        newLongLivedHTTPTransport(),
		urlToResponse:    urlToMock,
		denyReqNotMocked: strictMode,
	}
	return newClientFromRoundTrip(transport)
}

// RetryTransport implements retries and linear backoff at the transport level
type RetryTransport struct {
	Base    http.RoundTripper
	Retries int
	Backoff time.Duration
}

// An error returned when the maximum number of retries is exceeded.
type MaxRetryError struct {
	Err error
}

func (e *MaxRetryError) Error() string {
	return e.Err.Error()
}

func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastErr error

	for i := 0; i < t.Retries; i++ {
		resp, err := t.Base.RoundTrip(req)

		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				log.Warnf("retrying after timeout on %s (attempt %d)", req.URL.String(), i+1)
				time.Sleep(time.Duration(i+1) * t.Backoff)
				lastErr = err
				continue
			}
			if ue, ok := err.(*url.Error); ok && ue.Timeout() {
				log.Warnf("retrying after client timeout on %s (attempt %d)", req.URL.String(), i+1)
				lastErr = err
				time.Sleep(time.Duration(i+1) * t.Backoff)
				continue
			}
			return nil, err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			// the endpoint is rate limiting us; backing off harder is a
			// config problem, not something to paper over with retries
			log.Warnf("got a 429 from %s, not retrying since the server appears to be rate limiting", req.URL.String())
			return resp, nil
		} else if resp.StatusCode >= 500 {
			log.Warnf("got a %d from %s, retrying (attempt %d)", resp.StatusCode, req.URL.String(), i)
			_ = resp.Body.Close()
			time.Sleep(time.Duration(i+1) * t.Backoff)
			continue
		}

		return resp, nil
	}
	message := fmt.Errorf("failed to get a successful response from %s after %d retries: %v", req.URL.String(), t.Retries, lastErr)
	log.Error(message.Error())
	return nil, &MaxRetryError{Err: message}
}

// An http transport optimized for long-lived connections to the same
// sparql endpoint
func newLongLivedHTTPTransport() http.RoundTripper {
	return &http.Transport{
		IdleConnTimeout:       120 * time.Second,
		TLSHandshakeTimeout:   20 * time.Second,
		ExpectContinueTimeout: 2 * time.Second,
		ForceAttemptHTTP2:     true,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			span := trace.SpanFromContext(ctx)
			if span != nil {
				span.AddEvent("HTTP connection")
			}
			return net.DialTimeout(network, addr, 30*time.Second)
		},
	}
}

func newClientFromRoundTrip(transport http.RoundTripper) *http.Client {
	return &http.Client{
		Timeout:   90 * time.Second,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			span := trace.SpanFromContext(req.Context())
			if span != nil {
				span.AddEvent("HTTP redirect")
			}
			return nil
		},
	}
}

// NewEndpointClient returns the http client used for endpoint and graph
// store calls. Retries live here at the transport level; the client base
// above it makes a single attempt per call.
func NewEndpointClient() *http.Client {
	transport := &RetryTransport{
		Base:    newLongLivedHTTPTransport(),
		Retries: 3,
		Backoff: 2 * time.Second,
	}
	return newClientFromRoundTrip(transport)
}
