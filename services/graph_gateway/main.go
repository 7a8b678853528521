// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/events"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/observability"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/routes"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/session"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/store"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "aleutian-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("graph-gateway")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	port := os.Getenv("GRAPH_GATEWAY_PORT")
	if port == "" {
		port = "12230"
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// --- Init the tracer ---
	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	dbPath := os.Getenv("GRAPH_DB_PATH")
	if dbPath == "" {
		dbPath = "/data/aleutiangraph/graph.db"
	}
	local, err := store.OpenLocalStore(dbPath)
	if err != nil {
		log.Fatalf("FATAL: could not open the local graph store at %s: %v", dbPath, err)
	}
	defer local.Close()

	draftPath := os.Getenv("GRAPH_DRAFT_DB_PATH")
	if draftPath == "" {
		draftPath = "/data/aleutiangraph/drafts"
	}
	drafts, err := session.Open(session.DefaultConfig(draftPath))
	if err != nil {
		log.Fatalf("FATAL: could not open the draft store at %s: %v", draftPath, err)
	}
	defer drafts.Close()

	// Podman can pass quoted env values through literally; trim them.
	cfg := store.DatabricksConfig{
		Hostname: strings.Trim(os.Getenv("DATABRICKS_SERVER_HOSTNAME"), "\"' "),
		HTTPPath: strings.Trim(os.Getenv("DATABRICKS_HTTP_PATH"), "\"' "),
		Table:    strings.Trim(os.Getenv("DATABRICKS_TABLE"), "\"' "),
		Token:    strings.TrimSpace(os.Getenv("DATABRICKS_TOKEN")),
	}
	if cfg.Configured() {
		slog.Info("Databricks warehouse configured as primary store",
			"host", cfg.Hostname, "table", cfg.Table)
	} else {
		slog.Info("Databricks warehouse not configured. Running on the local store only.")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewGatewayMetrics(registry)

	gateway := store.NewGateway(local, cfg, metrics)
	bus := events.NewBus()

	router := gin.Default()
	router.Use(otelgin.Middleware("graph-gateway"))

	routes.SetupRoutes(router, gateway, drafts, bus, registry)

	log.Println("Starting the graph gateway server on port ", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
