// Package async provides a minimal Future abstraction for detached task
// execution. The broadcast dispatch path uses it to run store-and-publish
// work that its trigger must never await or be failed by.
package async
