// Package middleware provides the gin middleware of the HTTP server: trace ids,
// request logging, panic recovery, bearer authentication, metrics and request
// timeouts.
package middleware
