// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package opentelemetry

import (
	"context"
	"runtime"

	log "github.com/sirupsen/logrus"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace" // name this differently so it doesn't conflict with the tracer interface
	"go.opentelemetry.io/otel/trace"
)

const DefaultTracingEndpoint = "127.0.0.1:4317"

// the global tracer instance that keeps track of client spans
var Tracer trace.Tracer
var TracerProvider *sdktrace.TracerProvider

// InitTracer sets up the global tracer exporting to the given otlp endpoint.
func InitTracer(serviceName, endpoint string) {
	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithAttributes(attribute.String("service.name", serviceName)),
	)
	if err != nil {
		log.Fatal(err)
	}

	client := otlptracegrpc.NewClient(
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)

	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		log.Fatal(err)
	}

	TracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(TracerProvider)
	Tracer = TracerProvider.Tracer(serviceName)
}

// SubSpanFromCtx starts a child span named after the calling function. When
// tracing is off it returns a no-op span so callers need no nil checks.
func SubSpanFromCtx(ctx context.Context) (trace.Span, context.Context) {
	if Tracer == nil {
		return trace.SpanFromContext(context.Background()), ctx
	}

	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	ctx, span := Tracer.Start(ctx, fn.Name())
	return span, ctx
}

// SubSpanFromCtxWithName is SubSpanFromCtx with an explicit span name.
func SubSpanFromCtxWithName(ctx context.Context, name string) (context.Context, trace.Span) {
	if Tracer == nil {
		return ctx, trace.SpanFromContext(context.Background())
	}
	ctx, span := Tracer.Start(ctx, name)
	return ctx, span
}

// Shutdown flushes any remaining spans. This should be called when the top
// level application is shutting down.
func Shutdown() {
	if TracerProvider == nil {
		return
	}
	if err := TracerProvider.ForceFlush(context.Background()); err != nil {
		log.Errorf("Error flushing traces; is the collector for traces running?; %v", err)
	}
	if err := TracerProvider.Shutdown(context.Background()); err != nil {
		log.Errorf("Error shutting down tracer provider: %v", err)
	}
}
