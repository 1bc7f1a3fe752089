// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package sparql

import (
	"strings"
)

// QueryType is the declared form of a sparql query.
type QueryType int

const (
	QueryUnknown QueryType = iota
	QuerySelect
	QueryAsk
	QueryConstruct
	QueryDescribe
)

func (t QueryType) String() string {
	switch t {
	case QuerySelect:
		return "SELECT"
	case QueryAsk:
		return "ASK"
	case QueryConstruct:
		return "CONSTRUCT"
	case QueryDescribe:
		return "DESCRIBE"
	}
	return "UNKNOWN"
}

// Query pairs sparql query text with its declared type. The type is fixed at
// construction by scanning past the prologue for the query form keyword.
type Query struct {
	text string
	typ  QueryType
}

func NewQuery(text string) Query {
	return Query{text: text, typ: detectQueryType(text)}
}

func (q Query) String() string {
	return q.text
}

func (q Query) Type() QueryType {
	return q.typ
}

// Update holds sparql update text. Updates have no result form, so there is
// nothing to dispatch on.
type Update struct {
	text string
}

func NewUpdate(text string) Update {
	return Update{text: text}
}

func (u Update) String() string {
	return u.text
}

// detectQueryType finds the query form keyword after the prologue.
// PREFIX and BASE declarations and comment lines are skipped.
func detectQueryType(text string) QueryType {
	var cleaned strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		cleaned.WriteString(line)
		cleaned.WriteString(" ")
	}

	tokens := strings.Fields(cleaned.String())
	for i := 0; i < len(tokens); i++ {
		switch strings.ToUpper(tokens[i]) {
		case "PREFIX":
			// the prefix name and IRI may be fused, e.g. PREFIX ex:<http://...>
			if i+1 < len(tokens) && strings.HasSuffix(tokens[i+1], ">") {
				i++
			} else {
				// keyword plus prefix name plus IRI
				i += 2
			}
		case "BASE":
			i++
		case "SELECT":
			return QuerySelect
		case "ASK":
			return QueryAsk
		case "CONSTRUCT":
			return QueryConstruct
		case "DESCRIBE":
			return QueryDescribe
		default:
			return QueryUnknown
		}
	}
	return QueryUnknown
}
