// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package client

// Media types understood by the sparql protocol and graph store clients.
const (
	MediaTypeNTriples       = "application/n-triples"
	MediaTypeNQuads         = "application/n-quads"
	MediaTypeJSONLD         = "application/ld+json"
	MediaTypeResultsJSON    = "application/sparql-results+json"
	MediaTypeResultsXML     = "application/sparql-results+xml"
	MediaTypeFormURLEncoded = "application/x-www-form-urlencoded"
)

// MediaTypes holds the accepted content types for the two payload kinds a
// sparql endpoint can return. Both lists are built once and read-only
// afterwards; order expresses preference.
type MediaTypes struct {
	model     []string
	resultSet []string
}

// DefaultMediaTypes returns the media type lists used when a caller has no
// special preference.
func DefaultMediaTypes() MediaTypes {
	return MediaTypes{
		model:     []string{MediaTypeNTriples, MediaTypeJSONLD, MediaTypeNQuads},
		resultSet: []string{MediaTypeResultsJSON, MediaTypeResultsXML},
	}
}

// Model returns the accepted media types for graph payloads.
func (m MediaTypes) Model() []string {
	out := make([]string, len(m.model))
	copy(out, m.model)
	return out
}

// ResultSet returns the accepted media types for tabular payloads.
func (m MediaTypes) ResultSet() []string {
	out := make([]string, len(m.resultSet))
	copy(out, m.resultSet)
	return out
}
