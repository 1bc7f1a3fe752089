// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package origin provides the value object identifying a remote endpoint.
package origin

import "fmt"

// Origin is the immutable identity of a remote sparql or graph store
// endpoint. Two origins are comparable; they are equal when their URIs are.
type Origin struct {
	uri string
}

// New validates the URI and wraps it. The URI must be non-empty.
func New(uri string) (Origin, error) {
	if uri == "" {
		return Origin{}, fmt.Errorf("origin URI cannot be empty")
	}
	return Origin{uri: uri}, nil
}

func (o Origin) URI() string {
	return o.uri
}

func (o Origin) String() string {
	return o.uri
}
