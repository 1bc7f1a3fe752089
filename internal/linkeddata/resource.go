// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package linkeddata builds content-negotiated HTTP responses for in-memory
// graphs. It is the read-only resource layer: requests come in from the host
// mux, a graph goes out in whatever serialization the client asked for.
package linkeddata

import (
	"fmt"
	"net/http"

	"github.com/lodkit/lodkit/internal/common"

	"github.com/pquerna/cachecontrol/cacheobject"
	log "github.com/sirupsen/logrus"
)

// CacheControlProperty is the config property a resource's Cache-Control
// header is read from. When unset the header is omitted entirely.
const CacheControlProperty = "cache-control"

// Resource wraps one request plus resource configuration and produces the
// response for a supplied graph.
type Resource struct {
	request *http.Request
	config  map[string]string
}

// NewResource validates its collaborators. The config map may be empty but
// not nil-checked away: a nil map simply has no properties set.
func NewResource(req *http.Request, config map[string]string) (*Resource, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	return &Resource{request: req, config: config}, nil
}

// URI returns the absolute path of the request, which is the URI of the
// resource being served.
func (r *Resource) URI() string {
	u := *r.request.URL
	u.RawQuery = ""
	u.Fragment = ""
	if u.Host == "" {
		u.Host = r.request.Host
	}
	if u.Scheme == "" {
		u.Scheme = "http"
		if r.request.TLS != nil {
			u.Scheme = "https"
		}
	}
	return u.String()
}

func (r *Resource) Request() *http.Request {
	return r.request
}

// MediaTypes lists the offered serializations in server preference order.
// The first entry is the default when the client has no preference.
func (r *Resource) MediaTypes() []string {
	serializers := registeredSerializers()
	types := make([]string, 0, len(serializers))
	for _, s := range serializers {
		types = append(types, s.MediaType())
	}
	return types
}

// Languages is an unused extension point; no language negotiation is
// offered.
func (r *Resource) Languages() []string {
	return nil
}

// Encodings is an unused extension point; no encoding negotiation is
// offered.
func (r *Resource) Encodings() []string {
	return nil
}

// CacheControl returns the configured Cache-Control header value, validated
// as a well-formed set of response directives. The second return is false
// when the property is unset.
func (r *Resource) CacheControl() (string, bool, error) {
	raw, ok := r.config[CacheControlProperty]
	if !ok || raw == "" {
		return "", false, nil
	}

	directives, err := cacheobject.ParseResponseCacheControl(raw)
	if err != nil {
		return "", false, fmt.Errorf("ill-formed cache-control property %q: %w", raw, err)
	}
	if directives == nil {
		return "", false, nil
	}
	return raw, true, nil
}

// WriteModel negotiates a serialization for the graph and writes the
// response. Clients that accept none of the offered types get a 406.
func (r *Resource) WriteModel(w http.ResponseWriter, model *common.Graph) error {
	if model == nil {
		return fmt.Errorf("model cannot be nil")
	}

	accept, err := AcceptFromRequest(r.request)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return err
	}

	mediaType, err := accept.Negotiate(r.MediaTypes()...)
	if err != nil {
		log.Debugf("Accept type not acceptable for %s: %v", r.URI(), err)
		http.Error(w, err.Error(), http.StatusNotAcceptable)
		return err
	}

	serializer, err := serializerFor(mediaType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return err
	}

	cacheControl, present, err := r.CacheControl()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", mediaType)
	if present {
		w.Header().Set("Cache-Control", cacheControl)
	}
	w.WriteHeader(http.StatusOK)

	return serializer.Encode(w, model)
}
