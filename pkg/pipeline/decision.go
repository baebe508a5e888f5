package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/exertio/ldlmonitor/pkg/query"
)

// ClassifiedExercise is a decision emitted by a monitor's decision
// transform, delivered to the listener identity carried by the event
// that produced it (§4.4.5). The field name is kept close to the
// domain the spec illustrates decisions with (a gesture classifier);
// nothing in the pipeline inspects its contents.
type ClassifiedExercise struct {
	Query query.Query
	Value query.QueryValue
}

// Decision pairs a ClassifiedExercise with the listener it is routed
// to.
type Decision struct {
	Listener uuid.UUID
	Exercise ClassifiedExercise
}

// MakeDecision maps an emitted QueryValue to an optional decision,
// per §4.4.5: "a makeDecision(q) transform maps each emitted
// QueryValue to an Option<ClassifiedExercise>." A nil return means no
// decision for this event.
type MakeDecision func(q query.Query, v query.QueryValue) *ClassifiedExercise

// Sink is the downstream boundary interface of §6, standing in for
// "reply to the originating connection." Send is a message send: the
// pipeline does not wait for acknowledgement, matching §4.4.5's
// "the pipeline does not wait for acknowledgement."
type Sink interface {
	Send(ctx context.Context, d Decision)
}

// InMemorySink is a Sink test double that records every decision sent
// to it, for assertions in pipeline tests.
type InMemorySink struct {
	decisions chan Decision
}

// NewInMemorySink creates an InMemorySink buffering up to capacity
// decisions before Send starts blocking.
func NewInMemorySink(capacity int) *InMemorySink {
	return &InMemorySink{decisions: make(chan Decision, capacity)}
}

// Send implements Sink.
func (s *InMemorySink) Send(ctx context.Context, d Decision) {
	select {
	case s.decisions <- d:
	case <-ctx.Done():
	}
}

// Decisions returns the channel of recorded decisions.
func (s *InMemorySink) Decisions() <-chan Decision {
	return s.decisions
}

// Close closes the underlying channel; safe to call once all senders
// have stopped.
func (s *InMemorySink) Close() {
	close(s.decisions)
}
