// Package pg provides PostgreSQL connectivity for the notification service
// using pgx/v5: pool construction with startup retries, goose migrations,
// a health check closure, and error classification helpers.
//
// Configuration comes from environment variables via the Config struct; see
// the field tags for variable names and defaults.
package pg
