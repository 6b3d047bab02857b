// Package api serves hypergraph partitioning over HTTP.
//
// # Routes
//
//	GET  /healthz             liveness probe
//	GET  /v1/engines          registered engines and builtin presets
//	GET  /v1/presets/{name}   TOML text of a builtin preset
//	GET  /v1/stats            live handle and call counters
//	POST /v1/partition        partition an inline hypergraph
//	GET  /metrics             Prometheus metrics (when a gatherer is set)
//
// Every response carries an X-Request-ID header. Errors are JSON objects
// with the request id, the error code of package errors and a message;
// codes map to statuses as follows:
//
//	INVALID_INPUT, CONFIG_ERROR, INVALID_FORMAT, UNSUPPORTED  400
//	UNCONFIGURED_CONTEXT                                      422
//	CANCELED                                                  503
//	anything else                                             500
package api
