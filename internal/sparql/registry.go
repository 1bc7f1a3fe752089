// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package sparql

import "strings"

// ServiceContext is the per-endpoint configuration bag: credentials plus
// any protocol options the endpoint needs.
type ServiceContext struct {
	// Endpoint is the URI prefix this context applies to
	Endpoint string
	Username string
	Password string
	// Options carries opaque per-endpoint settings
	Options map[string]string
}

// HasCredentials reports whether basic auth should be attached for this
// endpoint.
func (c ServiceContext) HasCredentials() bool {
	return c.Username != "" || c.Password != ""
}

// ServiceRegistry maps endpoint URI prefixes to their contexts. The registry
// is an immutable snapshot built at construction; lookup is a pure function
// over it, so concurrent readers need no synchronization.
type ServiceRegistry struct {
	contexts []ServiceContext
}

// NewServiceRegistry builds a registry from the given contexts. Registration
// order is preserved and serves as the tie-break when several prefixes match
// the same URI: the first registered match wins.
func NewServiceRegistry(contexts ...ServiceContext) *ServiceRegistry {
	snapshot := make([]ServiceContext, len(contexts))
	copy(snapshot, contexts)
	return &ServiceRegistry{contexts: snapshot}
}

// Lookup finds the context whose endpoint is a prefix of the given URI.
// A request URI with an encoded query string still matches its endpoint.
func (r *ServiceRegistry) Lookup(uri string) (ServiceContext, bool) {
	if r == nil {
		return ServiceContext{}, false
	}
	for _, ctx := range r.contexts {
		if strings.HasPrefix(uri, ctx.Endpoint) {
			return ctx, true
		}
	}
	return ServiceContext{}, false
}

// Contexts returns a copy of the registered contexts in registration order.
func (r *ServiceRegistry) Contexts() []ServiceContext {
	if r == nil {
		return nil
	}
	out := make([]ServiceContext, len(r.contexts))
	copy(out, r.contexts)
	return out
}
