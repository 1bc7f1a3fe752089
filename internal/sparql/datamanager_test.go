// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package sparql

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/lodkit/lodkit/internal/client"

	"github.com/stretchr/testify/require"
)

const resultsJSON = `{
  "head": { "vars": ["s"] },
  "results": {
    "bindings": [
      { "s": { "type": "uri", "value": "http://example.org/a" } }
    ]
  }
}`

const askXMLTrue = `<?xml version="1.0"?><sparql xmlns="http://www.w3.org/2005/sparql-results#"><head/><boolean>true</boolean></sparql>`

func newTestManager(t *testing.T, httpClient *http.Client, registry *ServiceRegistry) *DataManager {
	t.Helper()
	m, err := NewDataManager(httpClient, client.DefaultMediaTypes(), registry)
	require.NoError(t, err)
	return m
}

func TestLoadResultSetSendsProtocolForm(t *testing.T) {
	var gotContentType string
	var gotForm url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Header().Set("Content-Type", client.MediaTypeResultsJSON)
		_, _ = w.Write([]byte(resultsJSON))
	}))
	defer server.Close()

	m := newTestManager(t, server.Client(), nil)

	query := NewQuery("SELECT ?s WHERE { ?s ?p ?o }")
	rs, err := m.LoadResultSet(context.Background(), server.URL, query, nil)
	require.NoError(t, err)

	require.Equal(t, client.MediaTypeFormURLEncoded, gotContentType)
	require.Equal(t, query.String(), gotForm.Get("query"))
	require.Equal(t, []string{"http://example.org/a"}, rs.Column("s"))
}

func TestCallerParamsCopiedExceptReservedName(t *testing.T) {
	var gotForm url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Header().Set("Content-Type", client.MediaTypeResultsJSON)
		_, _ = w.Write([]byte(resultsJSON))
	}))
	defer server.Close()

	m := newTestManager(t, server.Client(), nil)

	params := url.Values{}
	params.Set("timeout", "5000")
	params.Set("query", "SELECT * WHERE { ?x ?y ?z }") // must not override the real query

	query := NewQuery("SELECT ?s WHERE { ?s ?p ?o }")
	_, err := m.LoadResultSet(context.Background(), server.URL, query, params)
	require.NoError(t, err)

	require.Equal(t, "5000", gotForm.Get("timeout"))
	require.Equal(t, []string{query.String()}, gotForm["query"])
}

func TestAskPinsAcceptToXMLResults(t *testing.T) {
	var gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", client.MediaTypeResultsXML)
		_, _ = w.Write([]byte(askXMLTrue))
	}))
	defer server.Close()

	m := newTestManager(t, server.Client(), nil)

	got, err := m.Ask(context.Background(), server.URL, NewQuery("ASK { ?s ?p ?o }"), nil)
	require.NoError(t, err)
	require.True(t, got)
	require.Equal(t, client.MediaTypeResultsXML, gotAccept)
}

func TestLoadModelDecodesNTriples(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", client.MediaTypeNTriples)
		_, _ = w.Write([]byte("<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n"))
	}))
	defer server.Close()

	m := newTestManager(t, server.Client(), nil)

	g, err := m.LoadModel(context.Background(), server.URL, NewQuery("CONSTRUCT { ?s ?p ?o } WHERE { ?s ?p ?o }"), nil)
	require.NoError(t, err)
	require.Equal(t, 1, g.Len())
}

func TestExecuteUpdateUsesUpdateField(t *testing.T) {
	var gotForm url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	m := newTestManager(t, server.Client(), nil)

	update := NewUpdate("INSERT DATA { <http://example.org/a> <http://example.org/b> <http://example.org/c> }")
	require.NoError(t, m.ExecuteUpdate(context.Background(), server.URL, update, nil))

	require.Equal(t, update.String(), gotForm.Get("update"))
	require.Empty(t, gotForm.Get("query"))
}

func TestBasicAuthAttachedOnlyWithCredentials(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", client.MediaTypeResultsJSON)
		_, _ = w.Write([]byte(resultsJSON))
	}))
	defer server.Close()

	query := NewQuery("SELECT ?s WHERE { ?s ?p ?o }")

	// no registry entry, no auth header
	m := newTestManager(t, server.Client(), nil)
	_, err := m.LoadResultSet(context.Background(), server.URL, query, nil)
	require.NoError(t, err)
	require.Empty(t, gotAuth)

	// registry with credentials for this endpoint
	registry := NewServiceRegistry(ServiceContext{Endpoint: server.URL, Username: "alice", Password: "secret"})
	m = newTestManager(t, server.Client(), registry)
	_, err = m.LoadResultSet(context.Background(), server.URL, query, nil)
	require.NoError(t, err)
	require.NotEmpty(t, gotAuth)

	expected := "Basic " + basicAuthToken("alice", "secret")
	require.Equal(t, expected, gotAuth)
}

func basicAuthToken(username, password string) string {
	req, _ := http.NewRequest("GET", "http://example.org", nil)
	req.SetBasicAuth(username, password)
	return req.Header.Get("Authorization")[len("Basic "):]
}

func TestNewDataManagerValidation(t *testing.T) {
	_, err := NewDataManager(nil, client.DefaultMediaTypes(), nil)
	require.Error(t, err)
}

func TestEndpointErrorSurfacesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such dataset", http.StatusNotFound)
	}))
	defer server.Close()

	m := newTestManager(t, server.Client(), nil)

	_, err := m.LoadResultSet(context.Background(), server.URL, NewQuery("SELECT ?s WHERE { ?s ?p ?o }"), nil)
	require.Error(t, err)

	var se *client.StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusNotFound, se.Response.StatusCode)

	// the carried body was already released before the error surfaced
	_, readErr := se.Response.Body.Read(make([]byte, 1))
	require.Error(t, readErr)
}
