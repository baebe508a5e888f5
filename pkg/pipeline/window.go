package pipeline

// WindowedEvent is one BindToSensors event annotated with whether it
// is the final event of its trace, per §4.4.3's 2-element sliding
// window: a window holding one element means that element is last, a
// window holding two means the first is not last.
type WindowedEvent struct {
	Event BindToSensors
	Last  bool
}

// Window implements the 2-element sliding window. Feed appends an
// event and returns any event that has now become resolvable (i.e. has
// a successor telling it it is not last), or ok=false if the window
// needs another element before it can resolve one. Close flushes the
// one remaining buffered event, if any, as last=true.
type Window struct {
	buf []BindToSensors
}

// Feed pushes the next event from the trace into the window.
func (w *Window) Feed(e BindToSensors) (WindowedEvent, bool) {
	w.buf = append(w.buf, e)
	if len(w.buf) < 2 {
		return WindowedEvent{}, false
	}
	out := WindowedEvent{Event: w.buf[0], Last: false}
	w.buf = w.buf[1:]
	return out, true
}

// Close flushes the final buffered event, if any, marked as last.
func (w *Window) Close() (WindowedEvent, bool) {
	if len(w.buf) == 0 {
		return WindowedEvent{}, false
	}
	out := WindowedEvent{Event: w.buf[0], Last: true}
	w.buf = nil
	return out, true
}
