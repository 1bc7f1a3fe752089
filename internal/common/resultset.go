// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

// Term is one RDF term inside a SELECT binding.
type Term struct {
	// "uri", "literal" or "bnode"
	Type     string
	Value    string
	Lang     string
	Datatype string
}

// Binding maps a variable name to the term it is bound to in one solution.
type Binding map[string]Term

// ResultSet holds the tabular output of a SELECT query.
type ResultSet struct {
	Vars     []string
	Bindings []Binding
}

// DecodeResultSetJSON parses an application/sparql-results+json document.
func DecodeResultSetJSON(data []byte) (*ResultSet, error) {
	parsed := gjson.ParseBytes(data)
	if !parsed.Get("head").Exists() || !parsed.Get("results").Exists() {
		return nil, fmt.Errorf("malformed sparql results document; missing head or results")
	}

	rs := &ResultSet{}
	parsed.Get("head.vars").ForEach(func(_, v gjson.Result) bool {
		rs.Vars = append(rs.Vars, v.String())
		return true
	})

	parsed.Get("results.bindings").ForEach(func(_, row gjson.Result) bool {
		binding := Binding{}
		row.ForEach(func(name, term gjson.Result) bool {
			binding[name.String()] = Term{
				Type:     term.Get("type").String(),
				Value:    term.Get("value").String(),
				Lang:     term.Get("xml:lang").String(),
				Datatype: term.Get("datatype").String(),
			}
			return true
		})
		rs.Bindings = append(rs.Bindings, binding)
		return true
	})

	return rs, nil
}

// Column returns every value bound to the named variable, in row order.
func (rs *ResultSet) Column(name string) []string {
	var values []string
	for _, b := range rs.Bindings {
		if term, ok := b[name]; ok {
			values = append(values, term.Value)
		}
	}
	return values
}

// booleanResult holds the body of an application/sparql-results+xml
// document for an ASK query
type booleanResult struct {
	XMLName xml.Name `xml:"sparql"`
	Boolean bool     `xml:"boolean"`
}

// DecodeBooleanXML parses the XML form of an ASK result. Only the XML result
// media type can be read here, which is why ASK requests pin their Accept
// header to it.
func DecodeBooleanXML(r io.Reader) (bool, error) {
	var result booleanResult
	if err := xml.NewDecoder(r).Decode(&result); err != nil {
		return false, fmt.Errorf("could not read boolean from XML results: %w", err)
	}
	return result.Boolean, nil
}
