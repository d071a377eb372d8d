// Package notifications is the HTTP surface of the notification subsystem:
// the long-lived SSE stream, the paginated list and mutation endpoints, and
// the internal broadcast trigger used by order and messaging flows.
package notifications
