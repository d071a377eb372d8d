// Package httpserver wraps net/http with graceful shutdown, signal handling,
// and a composable health check handler.
//
// The server intentionally leaves the write timeout unset by default so that
// long-lived streaming responses (SSE) are not cut off mid-connection.
package httpserver
