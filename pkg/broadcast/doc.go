// Package broadcast implements per-recipient fan-out of notification events
// to live streaming connections.
//
// A Registry maps recipient identifiers to sets of Sinks. Each Sink wraps a
// buffered channel that a transport handler (typically an SSE endpoint) drains
// for the lifetime of one connection. Publishing serializes the payload once
// and delivers the bytes to every sink currently registered for the recipient;
// a sink whose buffer is full or that has been closed is treated as dead and
// removed on the spot.
//
// Basic usage:
//
//	registry := broadcast.NewRegistry()
//	defer registry.Close()
//
//	sink := broadcast.NewSink(16)
//	registry.Register("recipient-1", sink)
//	defer registry.Unregister("recipient-1", sink)
//
//	go registry.Publish("recipient-1", event)
//
//	for data := range sink.Events() {
//		// write data to the wire
//	}
//
// For multi-instance deployments a RedisBridge relays published events across
// processes through a Redis pub/sub channel while keeping local delivery
// synchronous.
package broadcast
