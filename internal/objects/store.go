// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package objects archives named graphs to s3-compatible object storage and
// restores them into a graph store.
package objects

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/lodkit/lodkit/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// ArchiveStore wraps the minio client with a default bucket so callers do
// not pass the bucket to every operation.
type ArchiveStore struct {
	Client        *minio.Client
	DefaultBucket string
}

// NewArchiveStore sets up the minio client from config.
func NewArchiveStore(cfg config.S3Config) (*ArchiveStore, error) {
	var endpoint string
	if cfg.Port == 0 {
		endpoint = cfg.Address
	} else {
		endpoint = fmt.Sprintf("%s:%d", cfg.Address, cfg.Port)
	}

	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Accesskey, cfg.Secretkey, ""),
		Secure: cfg.SSL,
	}
	if cfg.Region != "" {
		opts.Region = cfg.Region
	} else {
		log.Info("S3 client created with no region set")
	}

	client, err := minio.New(endpoint, opts)
	if err != nil {
		return nil, err
	}
	return &ArchiveStore{Client: client, DefaultBucket: cfg.Bucket}, nil
}

// MakeDefaultBucket creates the default bucket if it does not exist yet.
func (s *ArchiveStore) MakeDefaultBucket() error {
	exists, err := s.Client.BucketExists(context.Background(), s.DefaultBucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.Client.MakeBucket(context.Background(), s.DefaultBucket, minio.MakeBucketOptions{})
}

// Upload stores one object under the given key.
func (s *ArchiveStore) Upload(ctx context.Context, key string, data []byte) error {
	_, err := s.Client.PutObject(ctx, s.DefaultBucket, key,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return err
}

// Download reads one object back.
func (s *ArchiveStore) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.Client.GetObject(ctx, s.DefaultBucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := obj.Close(); err != nil {
			log.Errorf("Error closing object %s: %v", key, err)
		}
	}()
	return io.ReadAll(obj)
}

// ListKeys returns every object key under the given prefix.
func (s *ArchiveStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for object := range s.Client.ListObjects(ctx, s.DefaultBucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, object.Err
		}
		keys = append(keys, object.Key)
	}
	return keys, nil
}
