// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleNTriples = `<http://example.org/s> <http://example.org/p> <http://example.org/o> .
<http://example.org/s> <http://example.org/name> "alice" .
`

func TestDecodeGraph(t *testing.T) {
	g, err := DecodeGraph(strings.NewReader(sampleNTriples))
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())
}

func TestDecodeGraphEmptyInput(t *testing.T) {
	g, err := DecodeGraph(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, 0, g.Len())
}

func TestEncodeNTriplesRoundTrip(t *testing.T) {
	g, err := DecodeGraph(strings.NewReader(sampleNTriples))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, g.EncodeNTriples(&buf))

	again, err := DecodeGraph(&buf)
	require.NoError(t, err)
	require.Equal(t, g.Len(), again.Len())
}

func TestNQuadsCarriesGraphURI(t *testing.T) {
	g, err := ParseGraph(sampleNTriples)
	require.NoError(t, err)

	nq, err := g.NQuads("http://example.org/graph")
	require.NoError(t, err)

	for _, line := range strings.Split(strings.TrimSpace(nq), "\n") {
		require.Contains(t, line, "<http://example.org/graph>")
	}
}

func TestDecodeGraphFromQuads(t *testing.T) {
	nq := `<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/graph> .
`
	named, err := DecodeGraphFromQuads(strings.NewReader(nq))
	require.NoError(t, err)
	require.Equal(t, 1, named.Graph.Len())
	require.Contains(t, named.GraphURI, "http://example.org/graph")
}

func TestDecodeGraphFromQuadsEmpty(t *testing.T) {
	_, err := DecodeGraphFromQuads(strings.NewReader(""))
	require.Error(t, err)
}

func TestJSONLDSerialization(t *testing.T) {
	g, err := ParseGraph(sampleNTriples)
	require.NoError(t, err)

	processor, options := NewJsonldProcessor()
	doc, err := g.JSONLD(processor, options)
	require.NoError(t, err)
	require.Contains(t, doc, "http://example.org/s")
	require.Contains(t, doc, "alice")
}
