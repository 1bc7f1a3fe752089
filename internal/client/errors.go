// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"fmt"
	"net/http"
)

// StatusError is returned whenever a response's status code falls outside
// the successful family. It carries the full response so callers can inspect
// headers and body; the caller owns closing the body.
type StatusError struct {
	Method   string
	URL      string
	Response *http.Response
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s unsuccessful: %s", e.Method, e.URL, e.Response.Status)
}

// IsSuccessful reports whether a status code is in the 2xx family. Responses
// are always classified by family, never by individual code.
func IsSuccessful(code int) bool {
	return code >= 200 && code <= 299
}
