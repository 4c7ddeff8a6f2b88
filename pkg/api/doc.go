// Package api assembles the HTTP surface of the service.
//
// # Overview
//
// Server owns the router and the middleware chain and mounts the resource
// handlers from pkg/quizzes and pkg/groupplans next to its own
// authentication endpoints. Requests flow through recovery, request ID,
// logging, metrics, CORS and the bearer token filter before they reach a
// handler.
//
// # Authentication Endpoints
//
// POST /api/auth/register creates an account and answers 201 with an
// ApiResponse envelope, or 400 when the email is taken. POST /api/auth/login
// exchanges credentials for a signed bearer token and answers with a
// JwtResponse; a failed login answers 401 with both fields null.
//
// # Operational Endpoints
//
// /health/live and /health/ready expose the probes, /metrics the Prometheus
// registry, and /uploads/ the stored plan cover images.
package api
