// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package linkeddata

import (
	"fmt"
	"io"

	"github.com/lodkit/lodkit/internal/client"
	"github.com/lodkit/lodkit/internal/common"
)

// Serializer writes a graph in one concrete RDF serialization.
type Serializer interface {
	MediaType() string
	Encode(w io.Writer, g *common.Graph) error
}

type ntriplesSerializer struct{}

func (ntriplesSerializer) MediaType() string {
	return client.MediaTypeNTriples
}

func (ntriplesSerializer) Encode(w io.Writer, g *common.Graph) error {
	return g.EncodeNTriples(w)
}

type jsonldSerializer struct{}

func (jsonldSerializer) MediaType() string {
	return client.MediaTypeJSONLD
}

func (jsonldSerializer) Encode(w io.Writer, g *common.Graph) error {
	processor, options := common.NewJsonldProcessor()
	doc, err := g.JSONLD(processor, options)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, doc)
	return err
}

// registeredSerializers returns the serializations offered for linked data
// responses. N-Triples is forced to the front so it becomes the default when
// a client expresses no preference.
func registeredSerializers() []Serializer {
	return []Serializer{
		ntriplesSerializer{},
		jsonldSerializer{},
	}
}

func serializerFor(mediaType string) (Serializer, error) {
	for _, s := range registeredSerializers() {
		if s.MediaType() == mediaType {
			return s, nil
		}
	}
	return nil, fmt.Errorf("no serializer registered for %s", mediaType)
}
