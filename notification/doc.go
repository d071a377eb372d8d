// Package notification contains the domain core of the fan-out subsystem:
// the durable notification model, the storage boundary with Postgres and
// in-memory implementations, the recipient source, and the Broadcaster that
// turns a business event into stored rows plus real-time publishes.
//
// The flow is store-first: a broadcast persists one row per eligible
// recipient in a single bulk create, and only then publishes each returned
// row to that recipient's live connections. A push on the stream is therefore
// always backed by a row the client can immediately fetch; a recipient with
// no open connection simply sees the row on its next paginated list.
package notification
