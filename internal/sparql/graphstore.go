// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package sparql

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/lodkit/lodkit/internal/client"
	"github.com/lodkit/lodkit/internal/common"

	log "github.com/sirupsen/logrus"
)

// GraphStoreClient speaks the sparql graph store protocol against one store
// URI. The empty graph URI selects the default graph; anything else selects
// the named graph through the "graph" query parameter.
type GraphStoreClient struct {
	manager  *DataManager
	storeURI string
}

// NewGraphStoreClient wraps a store URI. The data manager supplies the http
// client, media types and credentials.
func (m *DataManager) NewGraphStoreClient(storeURI string) (*GraphStoreClient, error) {
	if storeURI == "" {
		return nil, errors.New("graph store URI cannot be empty")
	}
	return &GraphStoreClient{manager: m, storeURI: storeURI}, nil
}

func (g *GraphStoreClient) StoreURI() string {
	return g.storeURI
}

// graphParams selects the target graph: the "default" flag parameter for the
// default graph, or "graph" with the named graph URI.
func graphParams(graphURI string) url.Values {
	params := url.Values{}
	if graphURI == "" {
		params.Set("default", "")
	} else {
		params.Set("graph", graphURI)
	}
	return params
}

// ContainsGraph checks whether the store holds the given graph. The check is
// the status family of a HEAD probe; an unsuccessful family means absent.
func (g *GraphStoreClient) ContainsGraph(ctx context.Context, graphURI string) (bool, error) {
	log.Debugf("Checking if Graph Store %s contains graph with URI %s", g.storeURI, graphURI)

	c, err := g.manager.endpoint(g.storeURI)
	if err != nil {
		return false, err
	}

	resp, err := c.Head(ctx, nil, graphParams(graphURI))
	if err != nil {
		var se *client.StatusError
		if errors.As(err, &se) {
			closeBody(se.Response)
			return false, nil
		}
		return false, err
	}
	closeBody(resp)
	return true, nil
}

// GetGraph loads the given graph from the store. An empty graphURI loads the
// default graph.
func (g *GraphStoreClient) GetGraph(ctx context.Context, graphURI string) (*common.Graph, error) {
	log.Debugf("GET graph %q from Graph Store %s", graphURI, g.storeURI)

	c, err := g.manager.endpoint(g.storeURI)
	if err != nil {
		return nil, err
	}

	resp, err := c.Get(ctx, g.manager.mediaTypes.Model(), graphParams(graphURI))
	if err != nil {
		closeErrorBody(err)
		return nil, err
	}
	defer closeBody(resp)

	return common.DecodeGraph(resp.Body)
}

// AddGraph appends the model's triples to the given graph via POST.
func (g *GraphStoreClient) AddGraph(ctx context.Context, graphURI string, model *common.Graph) error {
	log.Debugf("POST graph %q to Graph Store %s", graphURI, g.storeURI)
	return g.send(ctx, "POST", graphURI, model)
}

// PutGraph creates or replaces the given graph with the model's triples.
func (g *GraphStoreClient) PutGraph(ctx context.Context, graphURI string, model *common.Graph) error {
	log.Debugf("PUT graph %q to Graph Store %s", graphURI, g.storeURI)
	return g.send(ctx, "PUT", graphURI, model)
}

// DeleteGraph removes the given graph from the store.
func (g *GraphStoreClient) DeleteGraph(ctx context.Context, graphURI string) error {
	log.Debugf("DELETE graph %q from Graph Store %s", graphURI, g.storeURI)

	c, err := g.manager.endpoint(g.storeURI)
	if err != nil {
		return err
	}

	resp, err := c.Delete(ctx, nil, graphParams(graphURI))
	if err != nil {
		closeErrorBody(err)
		return err
	}
	closeBody(resp)
	return nil
}

// send writes a model to the store with a fixed N-Triples content type.
func (g *GraphStoreClient) send(ctx context.Context, method, graphURI string, model *common.Graph) error {
	if model == nil {
		return errors.New("model cannot be nil")
	}

	c, err := g.manager.endpoint(g.storeURI)
	if err != nil {
		return err
	}

	body := strings.NewReader(model.NTriples())
	params := graphParams(graphURI)

	switch method {
	case "POST":
		r, err := c.Post(ctx, body, client.MediaTypeNTriples, nil, params)
		if err != nil {
			closeErrorBody(err)
			return err
		}
		closeBody(r)
	case "PUT":
		r, err := c.Put(ctx, body, client.MediaTypeNTriples, nil, params)
		if err != nil {
			closeErrorBody(err)
			return err
		}
		closeBody(r)
	}
	return nil
}
