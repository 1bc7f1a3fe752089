// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newRetryClient(backoff time.Duration) *http.Client {
	return newClientFromRoundTrip(&RetryTransport{
		Base:    newLongLivedHTTPTransport(),
		Retries: 3,
		Backoff: backoff,
	})
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	var callCount int32 = 0

	// Fail 2 times, then succeed
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&callCount, 1)
		if n <= 2 {
			http.Error(w, "temporary failure", http.StatusInternalServerError)
		} else {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("success"))
		}
	}))
	defer server.Close()

	client := newRetryClient(10 * time.Millisecond)

	resp, err := client.Get(server.URL)
	require.NoError(t, err, "expected successful response after retries")
	require.NotNil(t, resp)
	require.Equal(t, 200, resp.StatusCode)
	require.GreaterOrEqual(t, int(callCount), 3, "should retry at least twice")
	_ = resp.Body.Close()
}

func TestRetryGivesUpWithMaxRetryError(t *testing.T) {
	var callCount int32 = 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&callCount, 1)
		http.Error(w, "still broken", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newRetryClient(time.Millisecond)

	_, err := client.Get(server.URL)
	require.Error(t, err)

	var maxErr *MaxRetryError
	require.True(t, errors.As(err, &maxErr))
	require.Equal(t, int32(3), callCount)
}

func TestNoRetryOn404(t *testing.T) {
	var callCount int32 = 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&callCount, 1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := newRetryClient(time.Millisecond)

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	require.Equal(t, 404, resp.StatusCode)
	require.Equal(t, int32(1), callCount, "404 should not be retried")
	_ = resp.Body.Close()
}

func TestNoRetryOn429(t *testing.T) {
	var callCount int32 = 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&callCount, 1)
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newRetryClient(time.Millisecond)

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	require.Equal(t, 429, resp.StatusCode)
	require.Equal(t, int32(1), callCount, "rate limiting should not be retried")
	_ = resp.Body.Close()
}

func TestMockWithString(t *testing.T) {
	mock := NewMockedClient(true, map[string]MockResponse{
		"http://example.com": {
			StatusCode: 200,
			Body:       "success",
		},
	})

	resp, err := mock.Get("http://example.com")
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Equal(t, 200, resp.StatusCode)
	readBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "success", string(readBody))
}

func TestMockStrictModeDeniesUnmocked(t *testing.T) {
	mock := NewMockedClient(true, map[string]MockResponse{})

	_, err := mock.Get("http://not-mocked.example.com")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not mocked")
}

func TestMockTimeout(t *testing.T) {
	mock := NewMockedClient(true, map[string]MockResponse{
		"http://example.com": {Timeout: true},
	})

	_, err := mock.Get("http://example.com")
	require.Error(t, err)
}
