// Package server exposes the sentiment scorer over HTTP.
//
// Routes:
//
//	POST /analyze       {"text": "..."} -> {"sentiment": <float in [-1, 1], 3 decimals>}
//	GET  /health/live   liveness with uptime
//	GET  /health/ready  readiness, backed by the scorer health monitor
//	GET  /metrics       prometheus exposition
//
// A Server is built with New, started with Start and stopped with Shutdown.
// Handlers hold no per-request state and are safe for concurrent use.
package server
