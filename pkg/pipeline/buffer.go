package pipeline

import (
	"context"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"
)

// Buffer is the bounded backpressure queue of §4.4.2: a fixed-capacity
// channel of Envelopes. Put drops the newest event and logs when the
// buffer is full rather than blocking the producer; Stop closes the
// channel so a drain loop can consume whatever is already queued and
// then observe completion. Grounded on the teacher's
// ChannelResultStream (pkg/minikanren/stream.go), whose Put/Close/
// Count shape this mirrors, extended with the drop-on-full policy
// §4.4.2 calls for instead of Put's context-blocking send.
type Buffer struct {
	ch      chan Envelope
	log     hclog.Logger
	dropped int64
	closed  int32
}

// NewBuffer creates a Buffer holding up to maxBufferSize envelopes. log
// may be nil, in which case drops are logged to a no-op logger.
func NewBuffer(maxBufferSize int, log hclog.Logger) *Buffer {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Buffer{
		ch:  make(chan Envelope, maxBufferSize),
		log: log.Named("buffer"),
	}
}

// Put enqueues e, dropping it with an error log if the buffer is full
// or already stopped.
func (b *Buffer) Put(e Envelope) {
	if atomic.LoadInt32(&b.closed) == 1 {
		b.recordDrop(e)
		return
	}
	select {
	case b.ch <- e:
	default:
		b.recordDrop(e)
	}
}

func (b *Buffer) recordDrop(e Envelope) {
	atomic.AddInt64(&b.dropped, 1)
	b.log.Error("dropping sensor event, buffer full", "block_index", e.Value.BlockIndex, "listener", e.Listener)
}

// Dropped returns the number of events dropped for being over capacity
// or arriving after Stop.
func (b *Buffer) Dropped() int64 {
	return atomic.LoadInt64(&b.dropped)
}

// Stop signals that no further events will be put. Buffered events
// remain available to Drain until it observes the close.
func (b *Buffer) Stop() {
	if atomic.CompareAndSwapInt32(&b.closed, 0, 1) {
		close(b.ch)
	}
}

// Drain returns the channel of buffered envelopes. Consumers range
// over it; the range ends once Stop has been called and all buffered
// events have been delivered, per §4.4.2's "Stop flushes the queue
// then terminates the stream."
func (b *Buffer) Drain() <-chan Envelope {
	return b.ch
}

// Closed reports whether Stop has been called. Exposed for tests that
// need to assert drain-then-terminate ordering without racing ctx.
func (b *Buffer) Closed() bool {
	return atomic.LoadInt32(&b.closed) == 1
}

// drainAll is a test/shutdown helper that blocks until ctx is done or
// the buffer channel is exhausted and closed, returning everything
// collected in between.
func drainAll(ctx context.Context, b *Buffer) []Envelope {
	var out []Envelope
	for {
		select {
		case e, ok := <-b.Drain():
			if !ok {
				return out
			}
			out = append(out, e)
		case <-ctx.Done():
			return out
		}
	}
}
