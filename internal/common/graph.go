// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/knakk/rdf"
	"github.com/piprate/json-gold/ld"
	log "github.com/sirupsen/logrus"
)

// A graph serialized as N-Triples text
type TriplesAsText = string

// Graph is an in-memory RDF graph. It is the unit of exchange for
// graph store round trips and linked data responses.
type Graph struct {
	triples []rdf.Triple
}

// Representation of a graph paired with the URI it is named by
// in a graph store
type NamedGraph struct {
	GraphURI string
	Graph    *Graph
}

func NewGraph(triples []rdf.Triple) *Graph {
	return &Graph{triples: triples}
}

// DecodeGraph reads an N-Triples document into a graph.
func DecodeGraph(r io.Reader) (*Graph, error) {
	dec := rdf.NewTripleDecoder(r, rdf.NTriples)
	triples, err := dec.DecodeAll()
	if err != nil {
		log.Errorf("Error decoding triples: %v", err)
		return nil, err
	}
	return &Graph{triples: triples}, nil
}

// DecodeGraphFromQuads reads an N-Quads document and returns the triples
// together with the graph name of the first quad. All quads are assumed to
// share one context, which holds for single-graph dumps.
func DecodeGraphFromQuads(r io.Reader) (NamedGraph, error) {
	dec := rdf.NewQuadDecoder(r, rdf.NQuads)
	quads, err := dec.DecodeAll()
	if err != nil {
		log.Errorf("Error decoding quads: %v", err)
		return NamedGraph{}, err
	}
	if len(quads) < 1 {
		return NamedGraph{}, fmt.Errorf("no triples to decode; quads were empty")
	}

	triples := make([]rdf.Triple, 0, len(quads))
	for _, q := range quads {
		triples = append(triples, q.Triple)
	}
	return NamedGraph{
		GraphURI: quads[0].Ctx.String(),
		Graph:    &Graph{triples: triples},
	}, nil
}

func (g *Graph) Triples() []rdf.Triple {
	return g.triples
}

func (g *Graph) Len() int {
	return len(g.triples)
}

// EncodeNTriples writes the graph as N-Triples.
func (g *Graph) EncodeNTriples(w io.Writer) error {
	enc := rdf.NewTripleEncoder(w, rdf.NTriples)
	if err := enc.EncodeAll(g.triples); err != nil {
		return err
	}
	return enc.Close()
}

// NTriples returns the graph serialized as N-Triples text.
func (g *Graph) NTriples() TriplesAsText {
	var buf bytes.Buffer
	for _, t := range g.triples {
		buf.WriteString(t.Serialize(rdf.NTriples))
	}
	return buf.String()
}

// NQuads serializes the graph as N-Quads inside the given named graph.
func (g *Graph) NQuads(graphURI string) (string, error) {
	ctxIRI, err := rdf.NewIRI(graphURI)
	if err != nil {
		return "", err
	}
	ctx := rdf.Context(ctxIRI)

	var buf bytes.Buffer
	for _, t := range g.triples {
		quad := rdf.Quad{Triple: t, Ctx: ctx}
		buf.WriteString(quad.Serialize(rdf.NQuads))
	}
	return buf.String(), nil
}

// JSONLD serializes the graph as an expanded JSON-LD document. The graph is
// round-tripped through N-Quads since that is the RDF input format json-gold
// understands.
func (g *Graph) JSONLD(processor *ld.JsonLdProcessor, options *ld.JsonLdOptions) (string, error) {
	var buf bytes.Buffer
	if err := g.EncodeNTriples(&buf); err != nil {
		return "", err
	}

	doc, err := processor.FromRDF(buf.String(), options)
	if err != nil {
		log.Errorf("Error transforming RDF to JSON-LD: %v", err)
		return "", err
	}

	serialized, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(serialized), nil
}

// NewJsonldProcessor builds the JSON-LD processor and the options object used
// for all JSON-LD serialization.
func NewJsonldProcessor() (*ld.JsonLdProcessor, *ld.JsonLdOptions) {
	processor := ld.NewJsonLdProcessor()
	options := ld.NewJsonLdOptions("")
	options.ProcessingMode = ld.JsonLd_1_1
	options.Format = "application/nquads"
	return processor, options
}

// ParseGraph decodes N-Triples text into a graph.
func ParseGraph(nt TriplesAsText) (*Graph, error) {
	return DecodeGraph(strings.NewReader(nt))
}
