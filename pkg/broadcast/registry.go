package broadcast

import (
	"encoding/json"
	"errors"
	"sync"
)

// Publisher delivers a serialized event to every live connection of a
// recipient. It is implemented by Registry and RedisBridge so callers do not
// care whether fan-out crosses process boundaries.
type Publisher interface {
	Publish(recipientID string, payload any) error
}

// Registry is the process-wide map of recipient to live sinks. It is
// constructed once at startup and passed by handle into every handler that
// needs it; all methods are safe for concurrent use.
//
// A recipient with zero sinks is a completely normal condition: Publish is a
// silent no-op then, and Unregister removes the recipient key as soon as its
// set empties so the map never grows with past connections.
type Registry struct {
	sinks  map[string]map[*Sink]struct{}
	closed bool
	mu     sync.RWMutex
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{
		sinks: make(map[string]map[*Sink]struct{}),
	}
}

// Register adds the sink to the recipient's set. Registering the same sink
// twice is a no-op; there are no error conditions.
func (r *Registry) Register(recipientID string, sink *Sink) {
	if recipientID == "" || sink == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		_ = sink.Close()
		return
	}

	set, ok := r.sinks[recipientID]
	if !ok {
		set = make(map[*Sink]struct{})
		r.sinks[recipientID] = set
	}
	set[sink] = struct{}{}
}

// Unregister removes the sink from the recipient's set and drops the
// recipient key when the set becomes empty. Removing an absent sink is not an
// error. The sink itself is not closed; that stays the transport's job.
func (r *Registry) Unregister(recipientID string, sink *Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sinks[recipientID]
	if !ok {
		return
	}

	delete(set, sink)
	if len(set) == 0 {
		delete(r.sinks, recipientID)
	}
}

// Publish serializes payload once and writes the bytes to every sink
// currently registered for the recipient. Sinks are snapshotted under the
// read lock and written outside it so slow consumers cannot stall Register or
// Unregister for unrelated recipients. Any sink whose write fails is
// unregistered and closed; this is the sole reaping mechanism besides the
// transport's own cleanup.
func (r *Registry) Publish(recipientID string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Join(ErrMarshalPayload, err)
	}
	r.publishRaw(recipientID, data)
	return nil
}

// publishRaw fans pre-serialized bytes out to the recipient's sinks.
// Sequential calls for the same recipient deliver in call order.
func (r *Registry) publishRaw(recipientID string, data []byte) {
	r.mu.RLock()
	set, ok := r.sinks[recipientID]
	if !ok || r.closed {
		r.mu.RUnlock()
		return
	}
	snapshot := make([]*Sink, 0, len(set))
	for sink := range set {
		snapshot = append(snapshot, sink)
	}
	r.mu.RUnlock()

	var dead []*Sink
	for _, sink := range snapshot {
		if !sink.send(data) {
			dead = append(dead, sink)
		}
	}

	for _, sink := range dead {
		r.Unregister(recipientID, sink)
		_ = sink.Close()
	}
}

// SinkCount returns the number of live sinks for the recipient.
func (r *Registry) SinkCount(recipientID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sinks[recipientID])
}

// Close closes every registered sink and empties the registry. Subsequent
// Register calls close the offered sink immediately; Publish becomes a no-op.
// Close is idempotent.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	for _, set := range r.sinks {
		for sink := range set {
			_ = sink.Close()
		}
	}
	clear(r.sinks)
	return nil
}
