// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package linkeddata

import (
	"fmt"
	"mime"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

// acceptClause is one parsed entry of an Accept header.
type acceptClause struct {
	Type    string
	SubType string
	Q       float64
	// order preserves header position for stable sorting among equal q
	order int
}

// AcceptList is a sorted list of Accept header clauses, highest quality
// first.
type AcceptList []acceptClause

// ParseAccept parses an Accept header value into a sorted clause list. An
// empty header yields an empty list; a missing header should be treated as
// "*/*" by the caller.
func ParseAccept(header string) (AcceptList, error) {
	var list AcceptList

	for i, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		mediaType, params, err := mime.ParseMediaType(part)
		if err != nil {
			return nil, fmt.Errorf("ill-formed Accept clause %q: %w", part, err)
		}

		typ, subType, ok := strings.Cut(mediaType, "/")
		if !ok {
			return nil, fmt.Errorf("ill-formed media type %q in Accept header", mediaType)
		}

		q := 1.0
		if raw, present := params["q"]; present {
			q, err = strconv.ParseFloat(raw, 64)
			if err != nil || q < 0 || q > 1 {
				return nil, fmt.Errorf("ill-formed quality value %q in Accept header", raw)
			}
		}

		list = append(list, acceptClause{Type: typ, SubType: subType, Q: q, order: i})
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Q != list[j].Q {
			return list[i].Q > list[j].Q
		}
		return list[i].order < list[j].order
	})
	return list, nil
}

// AcceptFromRequest reads the request's Accept header, defaulting to a
// wildcard when the header is absent.
func AcceptFromRequest(req *http.Request) (AcceptList, error) {
	headers := req.Header.Values("Accept")
	if len(headers) == 0 {
		return ParseAccept("*/*")
	}
	// multiple Accept headers would be a broken client; take the first
	return ParseAccept(headers[0])
}

func (c acceptClause) matches(mediaType string) bool {
	typ, subType, ok := strings.Cut(mediaType, "/")
	if !ok {
		return false
	}
	if c.Type == "*" && c.SubType == "*" {
		return true
	}
	if c.Type == typ {
		return c.SubType == "*" || c.SubType == subType
	}
	return false
}

// Negotiate picks the best of the given alternatives for this accept list.
// Alternatives are in server preference order, which breaks ties between
// clauses of equal quality.
func (al AcceptList) Negotiate(alternatives ...string) (string, error) {
	if len(alternatives) == 0 {
		return "", fmt.Errorf("no alternatives to negotiate over")
	}

	for _, clause := range al {
		if clause.Q == 0 {
			continue
		}
		for _, alt := range alternatives {
			if clause.matches(alt) {
				return alt, nil
			}
		}
	}
	return "", fmt.Errorf("no acceptable media type among %v", alternatives)
}
