// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lodkit/lodkit/internal/client"
	"github.com/lodkit/lodkit/internal/common"
	"github.com/lodkit/lodkit/internal/config"
	"github.com/lodkit/lodkit/internal/objects"
	"github.com/lodkit/lodkit/internal/opentelemetry"
	"github.com/lodkit/lodkit/internal/sparql"

	"github.com/alexflint/go-arg"
	log "github.com/sirupsen/logrus"
)

type QueryCmd struct {
	Query string `arg:"positional,required" help:"sparql query text, or @path to read it from a file"`
}
type UpdateCmd struct {
	Update string `arg:"positional,required" help:"sparql update text, or @path to read it from a file"`
}
type GetCmd struct {
	Graph string `arg:"--graph" help:"named graph URI; the default graph when omitted"`
}
type PutCmd struct {
	Graph string `arg:"--graph" help:"named graph URI; the default graph when omitted"`
	File  string `arg:"positional" help:"N-Triples file to store; stdin when omitted"`
}
type PostCmd struct {
	Graph string `arg:"--graph" help:"named graph URI; the default graph when omitted"`
	File  string `arg:"positional" help:"N-Triples file to append; stdin when omitted"`
}
type DropCmd struct {
	Graph string `arg:"--graph" help:"named graph URI; the default graph when omitted"`
}
type DumpCmd struct {
	Prefix string `arg:"--prefix" help:"object key prefix for the archived graphs"`
}
type RestoreCmd struct {
	Prefix string `arg:"--prefix" help:"object key prefix to restore graphs from"`
}

type LodkitArgs struct {
	// Subcommands that can be run
	Query   *QueryCmd   `arg:"subcommand:query" help:"run a sparql query against the endpoint"`
	Update  *UpdateCmd  `arg:"subcommand:update" help:"run a sparql update against the endpoint"`
	Get     *GetCmd     `arg:"subcommand:get" help:"fetch a graph from the graph store"`
	Put     *PutCmd     `arg:"subcommand:put" help:"create or replace a graph in the graph store"`
	Post    *PostCmd    `arg:"subcommand:post" help:"append triples to a graph in the graph store"`
	Drop    *DropCmd    `arg:"subcommand:drop" help:"delete a graph from the graph store"`
	Dump    *DumpCmd    `arg:"subcommand:dump" help:"archive every named graph to s3"`
	Restore *RestoreCmd `arg:"subcommand:restore" help:"restore archived graphs from s3"`

	// Flags that configure particular services
	config.SparqlConfig
	config.S3Config

	// Flags that affect all operations
	Services     []string `arg:"--service,separate" help:"extra endpoint credentials as endpoint,username,password; repeatable"`
	LogLevel     string   `arg:"--log-level" default:"INFO"`
	UseOtel      bool     `arg:"--use-otel"`
	OtelEndpoint string   `arg:"--otel-endpoint" help:"OpenTelemetry endpoint"`
}

// ToStructuredConfig converts the args to a structured config
// for config isolation
func (a LodkitArgs) ToStructuredConfig() config.Config {
	services := make([]config.ServiceConfig, 0, len(a.Services))
	for _, raw := range a.Services {
		parts := strings.SplitN(raw, ",", 3)
		svc := config.ServiceConfig{Endpoint: parts[0]}
		if len(parts) > 1 {
			svc.Username = parts[1]
		}
		if len(parts) > 2 {
			svc.Password = parts[2]
		}
		services = append(services, svc)
	}
	return config.Config{
		Sparql:   a.SparqlConfig,
		S3:       a.S3Config,
		Services: services,
	}
}

type Runner struct {
	args LodkitArgs
}

func NewRunner(cliArgs []string) Runner {
	args := LodkitArgs{}
	const dummyBinaryName = "lodkit" // go-arg reads the binary name from os.Args
	os.Args = append([]string{dummyBinaryName}, cliArgs...)

	parser := arg.MustParse(&args)
	if subCmd := parser.Subcommand(); subCmd == nil {
		log.Error("no subcommand provided")
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}
	return Runner{args: args}
}

// readArgOrFile resolves "@path" arguments to file contents.
func readArgOrFile(value string) (string, error) {
	if !strings.HasPrefix(value, "@") {
		return value, nil
	}
	data, err := os.ReadFile(strings.TrimPrefix(value, "@"))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readModel(path string) (*common.Graph, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return common.DecodeGraph(r)
}

func (r Runner) newDataManager() (*sparql.DataManager, error) {
	cfg := r.args.ToStructuredConfig()

	// per-service overrides register first so they win the prefix match
	// against the global endpoint credentials
	var contexts []sparql.ServiceContext
	for _, svc := range cfg.Services {
		contexts = append(contexts, sparql.ServiceContext{
			Endpoint: svc.Endpoint,
			Username: svc.Username,
			Password: svc.Password,
		})
	}
	contexts = append(contexts, sparql.ServiceContext{
		Endpoint: cfg.Sparql.Endpoint,
		Username: cfg.Sparql.Username,
		Password: cfg.Sparql.Password,
	}, sparql.ServiceContext{
		Endpoint: cfg.Sparql.GraphStore,
		Username: cfg.Sparql.Username,
		Password: cfg.Sparql.Password,
	})
	return sparql.NewDataManager(common.NewEndpointClient(), client.DefaultMediaTypes(), sparql.NewServiceRegistry(contexts...))
}

func (r Runner) runQuery(ctx context.Context, manager *sparql.DataManager) error {
	text, err := readArgOrFile(r.args.Query.Query)
	if err != nil {
		return err
	}
	query := sparql.NewQuery(text)
	endpoint := r.args.Endpoint

	switch query.Type() {
	case sparql.QuerySelect:
		rs, err := manager.LoadResultSet(ctx, endpoint, query, nil)
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(rs.Vars, "\t"))
		for _, binding := range rs.Bindings {
			row := make([]string, 0, len(rs.Vars))
			for _, v := range rs.Vars {
				row = append(row, binding[v].Value)
			}
			fmt.Println(strings.Join(row, "\t"))
		}
	case sparql.QueryAsk:
		result, err := manager.Ask(ctx, endpoint, query, nil)
		if err != nil {
			return err
		}
		fmt.Println(result)
	case sparql.QueryConstruct, sparql.QueryDescribe:
		model, err := manager.LoadModel(ctx, endpoint, query, nil)
		if err != nil {
			return err
		}
		fmt.Print(model.NTriples())
	default:
		return fmt.Errorf("could not determine query type; expected SELECT, ASK, CONSTRUCT or DESCRIBE")
	}
	return nil
}

func (r Runner) newArchiver(manager *sparql.DataManager, graphs *sparql.GraphStoreClient) (*objects.Archiver, error) {
	store, err := objects.NewArchiveStore(r.args.S3Config)
	if err != nil {
		return nil, err
	}
	if err := store.MakeDefaultBucket(); err != nil {
		return nil, err
	}
	return &objects.Archiver{
		Store:  store,
		Graphs: graphs,
		Lister: objects.EndpointGraphLister{Manager: manager},
	}, nil
}

func (r Runner) Run(ctx context.Context) error {
	level, err := log.ParseLevel(r.args.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %s: %w", r.args.LogLevel, err)
	}
	log.SetLevel(level)

	if r.args.UseOtel || r.args.OtelEndpoint != "" {
		if r.args.OtelEndpoint == "" {
			r.args.OtelEndpoint = opentelemetry.DefaultTracingEndpoint
		}
		log.Infof("Starting opentelemetry traces and exporting to: %s", r.args.OtelEndpoint)
		opentelemetry.InitTracer("lodkit", r.args.OtelEndpoint)
		ctxWithSpan, span := opentelemetry.SubSpanFromCtxWithName(ctx, strings.Join(os.Args, "_"))
		ctx = ctxWithSpan
		defer opentelemetry.Shutdown()
		defer span.End()
	}

	manager, err := r.newDataManager()
	if err != nil {
		return err
	}
	graphs, err := manager.NewGraphStoreClient(r.args.GraphStore)
	if err != nil {
		return err
	}

	updateEndpoint := r.args.UpdateURI
	if updateEndpoint == "" {
		updateEndpoint = r.args.Endpoint
	}

	switch {
	case r.args.Query != nil:
		return r.runQuery(ctx, manager)
	case r.args.Update != nil:
		text, err := readArgOrFile(r.args.Update.Update)
		if err != nil {
			return err
		}
		return manager.ExecuteUpdate(ctx, updateEndpoint, sparql.NewUpdate(text), nil)
	case r.args.Get != nil:
		model, err := graphs.GetGraph(ctx, r.args.Get.Graph)
		if err != nil {
			return err
		}
		fmt.Print(model.NTriples())
		return nil
	case r.args.Put != nil:
		model, err := readModel(r.args.Put.File)
		if err != nil {
			return err
		}
		return graphs.PutGraph(ctx, r.args.Put.Graph, model)
	case r.args.Post != nil:
		model, err := readModel(r.args.Post.File)
		if err != nil {
			return err
		}
		return graphs.AddGraph(ctx, r.args.Post.Graph, model)
	case r.args.Drop != nil:
		return graphs.DeleteGraph(ctx, r.args.Drop.Graph)
	case r.args.Dump != nil:
		archiver, err := r.newArchiver(manager, graphs)
		if err != nil {
			return err
		}
		return archiver.Dump(ctx, r.args.Endpoint, r.args.Dump.Prefix)
	case r.args.Restore != nil:
		archiver, err := r.newArchiver(manager, graphs)
		if err != nil {
			return err
		}
		return archiver.Restore(ctx, r.args.Restore.Prefix)
	}
	return fmt.Errorf("no subcommand provided")
}

func main() {
	common.InitLogging()
	runner := NewRunner(os.Args[1:])
	if err := runner.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
