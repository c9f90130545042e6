// Package events fans out verification status changes to interested
// consumers. Emission is fail-open: a broker outage must never fail the
// mutation that produced the event.
package events

import (
	"context"
	"sync"
	"time"

	id "veritask/pkg/domain"
)

// StatusChanged is emitted after every successful status transition.
type StatusChanged struct {
	RequestID  id.VerificationID `json:"request_id"`
	ClientID   id.ClientID       `json:"client_id"`
	From       string            `json:"from"`
	To         string            `json:"to"`
	Reason     string            `json:"reason,omitempty"`
	Actor      string            `json:"actor,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Sink receives events. Implementations: Kafka publisher, memory sink.
type Sink interface {
	Publish(ctx context.Context, event StatusChanged) error
}

// Emitter buffers events on a channel so mutators return without waiting on
// the sink. A full buffer drops the event; the log is advisory, the status
// history on the aggregate is the record of truth.
type Emitter struct {
	inbox chan StatusChanged
}

// NewEmitter creates an Emitter with the given buffer size.
func NewEmitter(buffer int) *Emitter {
	if buffer <= 0 {
		buffer = 256
	}
	return &Emitter{inbox: make(chan StatusChanged, buffer)}
}

// Emit enqueues an event, dropping it if the buffer is full.
func (e *Emitter) Emit(event StatusChanged) {
	select {
	case e.inbox <- event:
	default:
	}
}

// Worker drains the emitter into a sink until the context ends.
type Worker struct {
	emitter *Emitter
	sink    Sink
}

// NewWorker creates a Worker.
func NewWorker(emitter *Emitter, sink Sink) *Worker {
	return &Worker{emitter: emitter, sink: sink}
}

// Run consumes events until ctx is done. Sink errors are swallowed; the
// publisher logs them itself.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.emitter.inbox:
			_ = w.sink.Publish(ctx, event)
		}
	}
}

// MemorySink collects events for tests. Safe for concurrent use.
type MemorySink struct {
	mu     sync.Mutex
	events []StatusChanged
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Publish(_ context.Context, event StatusChanged) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of the collected events.
func (s *MemorySink) Events() []StatusChanged {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StatusChanged, len(s.events))
	copy(out, s.events)
	return out
}
