package progress

import (
	"sync"
	"sync/atomic"
	"time"
)

// Status identifies which stage of an analysis run an event belongs to.
type Status string

const (
	StatusStarted     Status = "started"
	StatusCollecting  Status = "collecting"
	StatusExtracting  Status = "extracting"
	StatusDetecting   Status = "detecting"
	StatusScoring     Status = "scoring"
	StatusReconciling Status = "reconciling"
	StatusPlanning    Status = "planning"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

// Event is one progress notification from the engine to its caller.
type Event struct {
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Reporter receives progress events. Implementations must not block the
// engine; a slow consumer loses events rather than stalling computation.
type Reporter interface {
	Report(e Event)
}

type nopReporter struct{}

func (nopReporter) Report(Event) {}

// Nop returns a reporter that discards all events. Used when the caller
// supplies no sink.
func Nop() Reporter {
	return nopReporter{}
}

// ChannelReporter delivers events over a buffered channel. When the buffer is
// full the event is dropped and counted instead of blocking the engine.
type ChannelReporter struct {
	ch      chan Event
	dropped atomic.Int64

	mu     sync.Mutex
	closed bool
}

// NewChannelReporter creates a reporter with the given buffer size.
func NewChannelReporter(buffer int) *ChannelReporter {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelReporter{ch: make(chan Event, buffer)}
}

// Report delivers the event if buffer space is available, otherwise drops it.
func (r *ChannelReporter) Report(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.ch <- e:
	default:
		r.dropped.Add(1)
	}
}

// Events returns the channel the caller drains.
func (r *ChannelReporter) Events() <-chan Event {
	return r.ch
}

// Dropped returns how many events were discarded due to a slow consumer.
func (r *ChannelReporter) Dropped() int64 {
	return r.dropped.Load()
}

// Close stops delivery and closes the event channel. Report calls after Close
// are no-ops.
func (r *ChannelReporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		close(r.ch)
	}
}

// Emit is a convenience helper stamping the event with the current time.
func Emit(r Reporter, status Status, message string) {
	if r == nil {
		return
	}
	r.Report(Event{Status: status, Message: message, Timestamp: time.Now()})
}
