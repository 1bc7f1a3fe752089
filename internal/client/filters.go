// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

// RequestFilter mutates an outbound request before it is sent. Filters run
// in registration order.
type RequestFilter interface {
	Filter(req *http.Request) error
}

// BasicAuthFilter attaches HTTP basic credentials to every request.
type BasicAuthFilter struct {
	Username string
	Password string
}

func (f BasicAuthFilter) Filter(req *http.Request) error {
	req.SetBasicAuth(f.Username, f.Password)
	return nil
}

// LoggingFilter logs every outbound request at debug level.
type LoggingFilter struct{}

func (LoggingFilter) Filter(req *http.Request) error {
	log.Debugf("%s %s", req.Method, req.URL.String())
	return nil
}
