// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package sparql is the central place to run sparql operations against
// either a remote endpoint or an in-process graph. Remote calls speak the
// sparql protocol over form-encoded POST; local calls dispatch to an
// injected execution engine.
package sparql

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/lodkit/lodkit/internal/client"
	"github.com/lodkit/lodkit/internal/common"

	log "github.com/sirupsen/logrus"
)

// Reserved form field names of the sparql protocol. Caller parameters with
// these names are never copied through.
const (
	queryField  = "query"
	updateField = "update"
)

// DataManager runs sparql queries and updates. It holds the http client
// shared by all endpoint calls and the immutable service registry used to
// resolve per-endpoint credentials.
type DataManager struct {
	http       *http.Client
	mediaTypes client.MediaTypes
	registry   *ServiceRegistry
}

// NewDataManager validates its collaborators before any I/O can happen.
// A nil registry is treated as empty.
func NewDataManager(httpClient *http.Client, mediaTypes client.MediaTypes, registry *ServiceRegistry) (*DataManager, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client cannot be nil")
	}
	if registry == nil {
		registry = NewServiceRegistry()
	}
	return &DataManager{
		http:       httpClient,
		mediaTypes: mediaTypes,
		registry:   registry,
	}, nil
}

func (m *DataManager) Registry() *ServiceRegistry {
	return m.registry
}

// endpoint builds a client for the given URI, attaching a basic auth filter
// when the matching service context carries credentials.
func (m *DataManager) endpoint(endpointURI string) (*client.Client, error) {
	if endpointURI == "" {
		return nil, fmt.Errorf("endpoint URI cannot be empty")
	}

	c, err := client.New(endpointURI, m.http, m.mediaTypes)
	if err != nil {
		return nil, err
	}

	if ctx, ok := m.registry.Lookup(endpointURI); ok && ctx.HasCredentials() {
		c.Register(client.BasicAuthFilter{Username: ctx.Username, Password: ctx.Password})
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		c.Register(client.LoggingFilter{})
	}
	return c, nil
}

// queryForm builds the form body for a protocol request: the query or update
// text under its reserved field name, plus any caller parameters except the
// one matching that field name.
func queryForm(field, text string, params url.Values) url.Values {
	form := url.Values{}
	form.Set(field, text)
	for key, values := range params {
		if key == field {
			continue
		}
		for _, value := range values {
			log.Tracef("Adding param to SPARQL request with name: %s and value: %s", key, value)
			form.Add(key, value)
		}
	}
	return form
}

// postForm sends a protocol request and returns the raw response. Caller
// parameters travel in the form body, never on the URL. The caller owns
// closing the body.
func (m *DataManager) postForm(ctx context.Context, endpointURI string, form url.Values, accepted []string) (*http.Response, error) {
	c, err := m.endpoint(endpointURI)
	if err != nil {
		return nil, err
	}
	resp, err := c.Post(ctx, strings.NewReader(form.Encode()), client.MediaTypeFormURLEncoded, accepted, nil)
	if err != nil {
		closeErrorBody(err)
		return nil, err
	}
	return resp, nil
}

// LoadModel runs a CONSTRUCT or DESCRIBE query against a remote endpoint and
// returns the resulting graph.
func (m *DataManager) LoadModel(ctx context.Context, endpointURI string, query Query, params url.Values) (*common.Graph, error) {
	log.Debugf("Remote service %s Query: %s", endpointURI, query)

	form := queryForm(queryField, query.String(), params)
	resp, err := m.postForm(ctx, endpointURI, form, m.mediaTypes.Model())
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	return common.DecodeGraph(resp.Body)
}

// LoadResultSet runs a SELECT query against a remote endpoint and returns
// the resulting row set.
func (m *DataManager) LoadResultSet(ctx context.Context, endpointURI string, query Query, params url.Values) (*common.ResultSet, error) {
	log.Debugf("Remote service %s Query: %s", endpointURI, query)

	form := queryForm(queryField, query.String(), params)
	resp, err := m.postForm(ctx, endpointURI, form, m.mediaTypes.ResultSet())
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return common.DecodeResultSetJSON(body)
}

// Ask runs an ASK query against a remote endpoint. The Accept header is
// pinned to the XML result media type because only the XML form of the
// boolean result can be decoded.
func (m *DataManager) Ask(ctx context.Context, endpointURI string, query Query, params url.Values) (bool, error) {
	log.Debugf("Remote service %s Query execution: %s", endpointURI, query)

	form := queryForm(queryField, query.String(), params)
	resp, err := m.postForm(ctx, endpointURI, form, []string{client.MediaTypeResultsXML})
	if err != nil {
		return false, err
	}
	defer closeBody(resp)

	return common.DecodeBooleanXML(resp.Body)
}

// ExecuteUpdate sends a sparql update to a remote endpoint under the
// "update" form field.
func (m *DataManager) ExecuteUpdate(ctx context.Context, endpointURI string, update Update, params url.Values) error {
	log.Debugf("Remote service %s Update: %s", endpointURI, update)

	form := queryForm(updateField, update.String(), params)
	resp, err := m.postForm(ctx, endpointURI, form, nil)
	if err != nil {
		return err
	}
	closeBody(resp)
	return nil
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		log.Errorf("Error closing response body: %v", err)
	}
}

// closeErrorBody releases the response a StatusError carries. Called once an
// error leaves this package, where status and headers have already been
// inspected; without it the carried body would leak the connection.
func closeErrorBody(err error) {
	var se *client.StatusError
	if errors.As(err, &se) {
		closeBody(se.Response)
	}
}
