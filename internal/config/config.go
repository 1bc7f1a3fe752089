// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package config

// The top level config for all lodkit operations
type Config struct {
	Sparql   SparqlConfig
	S3       S3Config
	Resource ResourceConfig
	Services []ServiceConfig
}

// The config for sparql endpoint and graph store interactions
type SparqlConfig struct {
	Endpoint   string `arg:"--endpoint,env:SPARQL_ENDPOINT" help:"URI of the sparql query endpoint" default:"http://127.0.0.1:3030/ds/sparql"`
	UpdateURI  string `arg:"--update-endpoint,env:SPARQL_UPDATE" help:"URI of the sparql update endpoint; defaults to the query endpoint"`
	GraphStore string `arg:"--graph-store,env:SPARQL_GRAPH_STORE" help:"URI of the graph store protocol endpoint" default:"http://127.0.0.1:3030/ds/data"`
	Username   string `arg:"--username,env:SPARQL_USERNAME" help:"basic auth username for the endpoint"`
	Password   string `arg:"--password,env:SPARQL_PASSWORD" help:"basic auth password for the endpoint"`
}

// Per-endpoint credential overrides; matched against request URIs by prefix
type ServiceConfig struct {
	Endpoint string
	Username string
	Password string
}

// The config for s3 graph archive operations
type S3Config struct {
	Address   string `arg:"--address" help:"The address of the s3 server" default:"127.0.0.1"`
	Port      int    `arg:"--port" default:"9000"`
	Accesskey string `arg:"--s3-access-key,env:S3_ACCESS_KEY" help:"Access Key (i.e. username)" default:"minioadmin"`
	Secretkey string `arg:"--s3-secret-key,env:S3_SECRET_KEY" help:"Secret Key (i.e. password)" default:"minioadmin"`
	Bucket    string `arg:"--bucket" help:"The s3 bucket to use for dump and restore operations" default:"lodkit"`
	Region    string `arg:"--region" help:"region for the s3 server"`
	SSL       bool   `arg:"--ssl" help:"Use SSL when connecting to s3"`
}

// The config for linked data resource responses
type ResourceConfig struct {
	CacheControl string `arg:"--cache-control,env:LODKIT_CACHE_CONTROL" help:"Cache-Control header value for linked data responses"`
}

// Properties returns the resource config as the property map consumed by the
// linked data layer.
func (r ResourceConfig) Properties() map[string]string {
	props := map[string]string{}
	if r.CacheControl != "" {
		props["cache-control"] = r.CacheControl
	}
	return props
}
