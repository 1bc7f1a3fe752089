// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package objects

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/lodkit/lodkit/internal/common"
	"github.com/lodkit/lodkit/internal/sparql"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// how many graphs are moved concurrently during a dump or restore
const archiveConcurrency = 4

// ObjectStore is the slice of ArchiveStore the archiver needs; tests swap in
// an in-memory fake.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte) error
	Download(ctx context.Context, key string) ([]byte, error)
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// GraphStore is the slice of the graph store client the archiver needs.
type GraphStore interface {
	GetGraph(ctx context.Context, graphURI string) (*common.Graph, error)
	PutGraph(ctx context.Context, graphURI string, model *common.Graph) error
}

// GraphLister enumerates the named graphs behind a sparql endpoint.
type GraphLister interface {
	ListGraphs(ctx context.Context, endpointURI string) ([]string, error)
}

// EndpointGraphLister lists graphs with a SELECT DISTINCT over the graph
// keyword, which every sparql 1.1 endpoint supports.
type EndpointGraphLister struct {
	Manager *sparql.DataManager
}

func (l EndpointGraphLister) ListGraphs(ctx context.Context, endpointURI string) ([]string, error) {
	log.Debug("Getting list of named graphs")
	query := sparql.NewQuery("SELECT DISTINCT ?g WHERE { GRAPH ?g { ?s ?p ?o } }")
	rs, err := l.Manager.LoadResultSet(ctx, endpointURI, query, nil)
	if err != nil {
		return nil, err
	}
	return rs.Column("g"), nil
}

// Archiver moves named graphs between a graph store and object storage.
type Archiver struct {
	Store  ObjectStore
	Graphs GraphStore
	Lister GraphLister
}

// objectKey maps a graph URI to its object key under the archive prefix.
func objectKey(prefix, graphURI string) string {
	key := url.QueryEscape(graphURI) + ".nq"
	if prefix == "" {
		return key
	}
	return strings.TrimSuffix(prefix, "/") + "/" + key
}

// Dump writes every named graph of the endpoint into object storage under
// the given prefix, N-Quads per graph, a bounded number in flight at once.
func (a *Archiver) Dump(ctx context.Context, endpointURI, prefix string) error {
	graphURIs, err := a.Lister.ListGraphs(ctx, endpointURI)
	if err != nil {
		return fmt.Errorf("failed to list graphs at %s: %w", endpointURI, err)
	}
	log.Infof("Dumping %d graphs to prefix %q", len(graphURIs), prefix)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(archiveConcurrency)

	for _, graphURI := range graphURIs {
		group.Go(func() error {
			model, err := a.Graphs.GetGraph(ctx, graphURI)
			if err != nil {
				return fmt.Errorf("failed to get graph %s: %w", graphURI, err)
			}
			quads, err := model.NQuads(graphURI)
			if err != nil {
				return err
			}
			return a.Store.Upload(ctx, objectKey(prefix, graphURI), []byte(quads))
		})
	}
	return group.Wait()
}

// Restore puts every archived graph under the prefix back into the graph
// store. The graph URI is recovered from the quads themselves, not the
// object key.
func (a *Archiver) Restore(ctx context.Context, prefix string) error {
	keys, err := a.Store.ListKeys(ctx, prefix)
	if err != nil {
		return fmt.Errorf("failed to list archived graphs under %q: %w", prefix, err)
	}
	log.Infof("Restoring %d graphs from prefix %q", len(keys), prefix)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(archiveConcurrency)

	for _, key := range keys {
		group.Go(func() error {
			data, err := a.Store.Download(ctx, key)
			if err != nil {
				return fmt.Errorf("failed to download %s: %w", key, err)
			}
			named, err := common.DecodeGraphFromQuads(strings.NewReader(string(data)))
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", key, err)
			}
			return a.Graphs.PutGraph(ctx, strings.Trim(named.GraphURI, "<>"), named.Graph)
		})
	}
	return group.Wait()
}
