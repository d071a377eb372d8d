// Package redis provides Redis connectivity for the optional cross-instance
// fan-out bridge: retrying connect from environment-driven configuration and
// a health check closure.
package redis
