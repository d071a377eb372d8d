package broadcast

import "sync"

// Sink is a writable handle representing one live streaming connection for a
// recipient. It is exclusively owned by the Registry between Register and
// Unregister and must not be reused after Close.
type Sink struct {
	ch     chan []byte
	closed bool
	mu     sync.RWMutex
}

// NewSink creates a sink with the given channel buffer size.
// A minimum buffer of 1 is enforced so that sends never block the publisher.
func NewSink(bufferSize int) *Sink {
	return &Sink{
		ch: make(chan []byte, max(bufferSize, 1)),
	}
}

// Events returns the channel the transport handler drains. The channel is
// closed when the sink is closed, which terminates the consumer's range loop.
func (s *Sink) Events() <-chan []byte {
	return s.ch
}

// Close closes the sink and its event channel. It is idempotent.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

// send delivers serialized payload bytes without blocking. It reports false
// when the sink is closed or its buffer is full, which the registry treats as
// a dead connection.
func (s *Sink) send(data []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- data:
		return true
	default:
		return false
	}
}
