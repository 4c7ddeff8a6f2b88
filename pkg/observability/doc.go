// Package observability provides structured logging, Prometheus metrics,
// health checks and graceful shutdown.
//
// # Structured Logging
//
// Create a JSON logger at a named level:
//
//	logger := observability.NewLogger("info", os.Stdout)
//	logger.WithField("port", "8080").Info("Server started")
//
// # Prometheus Metrics
//
// Register the metric set on a registry and instrument the router:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	handler := observability.HTTPMetricsMiddleware(metrics)(router)
//
// Serve the scrape endpoint with MetricsHandler(registry).
//
// # Health Checks
//
// HealthChecker probes the database and the image upload directory.
// Liveness always reports healthy while the process runs; Readiness returns
// 503 once a hard dependency fails.
//
// # Graceful Shutdown
//
// ShutdownManager waits for SIGINT/SIGTERM, drains the HTTP server and runs
// registered cleanup functions under a shared deadline.
package observability
